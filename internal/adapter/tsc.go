package adapter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agentient/qualgate/internal/scan"
)

// TscAdapter runs the TypeScript compiler in check-only mode and parses its
// diagnostic lines.
type TscAdapter struct{}

// tsc output format: src/auth.ts(42,5): error TS2345: Argument of type...
var tscLineRe = regexp.MustCompile(`^(.+)\((\d+),(\d+)\):\s+(error|warning)\s+(TS\d+):\s+(.+)$`)

func (a *TscAdapter) Name() string { return "tsc" }

func (a *TscAdapter) Languages() []scan.Language {
	return []scan.Language{scan.LangTypeScript}
}

func (a *TscAdapter) DefaultTimeout() time.Duration { return 45 * time.Second }

func (a *TscAdapter) Command(files []string) (string, []string) {
	args := []string{"--noEmit", "--pretty", "false"}
	return "tsc", append(args, files...)
}

func (a *TscAdapter) Parse(stdout string, stderr string, exitCode int) ([]Finding, error) {
	var findings []Finding

	for _, line := range strings.Split(stdout, "\n") {
		m := tscLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		lineNum, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		findings = append(findings, Finding{
			File:        m[1],
			Line:        lineNum,
			Column:      col,
			Rule:        m[5],
			Message:     m[6],
			RawSeverity: m[4],
		})
	}

	return findings, nil
}
