package adapter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agentient/qualgate/internal/scan"
)

// MypyAdapter runs mypy in strict mode and parses its line-oriented output.
type MypyAdapter struct{}

// mypy output format: src/auth.py:42:5: error: Incompatible types [assignment]
var mypyLineRe = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:\s+(error|warning|note):\s+(.+?)(?:\s+\[([a-z0-9-]+)\])?$`)

func (a *MypyAdapter) Name() string { return "mypy" }

func (a *MypyAdapter) Languages() []scan.Language {
	return []scan.Language{scan.LangPython}
}

func (a *MypyAdapter) DefaultTimeout() time.Duration { return 45 * time.Second }

func (a *MypyAdapter) Command(files []string) (string, []string) {
	args := []string{"--strict", "--show-column-numbers", "--show-error-codes", "--no-error-summary"}
	return "mypy", append(args, files...)
}

func (a *MypyAdapter) Parse(stdout string, stderr string, exitCode int) ([]Finding, error) {
	var findings []Finding

	for _, line := range strings.Split(stdout, "\n") {
		m := mypyLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		kind := m[4]
		if kind == "note" {
			// Notes elaborate on a preceding error; they are not findings.
			continue
		}
		lineNum, _ := strconv.Atoi(m[2])
		col := 0
		if m[3] != "" {
			col, _ = strconv.Atoi(m[3])
		}
		rule := m[6]
		if rule == "" {
			rule = "misc"
		}
		findings = append(findings, Finding{
			File:        m[1],
			Line:        lineNum,
			Column:      col,
			Rule:        rule,
			Message:     m[5],
			RawSeverity: kind,
		})
	}

	return findings, nil
}
