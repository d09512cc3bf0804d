package adapter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentient/qualgate/internal/scan"
)

// BanditAdapter runs the bandit security scanner over Python files and
// parses its JSON report.
type BanditAdapter struct{}

type banditOutput struct {
	Results []banditResult `json:"results"`
	Errors  []banditError  `json:"errors"`
}

type banditResult struct {
	Filename   string `json:"filename"`
	LineNumber int    `json:"line_number"`
	ColOffset  int    `json:"col_offset"`
	TestID     string `json:"test_id"`
	IssueText  string `json:"issue_text"`
	Severity   string `json:"issue_severity"` // LOW, MEDIUM, HIGH
}

type banditError struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

func (a *BanditAdapter) Name() string { return "bandit" }

func (a *BanditAdapter) Languages() []scan.Language {
	return []scan.Language{scan.LangPython}
}

func (a *BanditAdapter) DefaultTimeout() time.Duration { return 45 * time.Second }

func (a *BanditAdapter) Command(files []string) (string, []string) {
	args := []string{"-f", "json", "-q"}
	return "bandit", append(args, files...)
}

func (a *BanditAdapter) Parse(stdout string, stderr string, exitCode int) ([]Finding, error) {
	var out banditOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		return nil, fmt.Errorf("bandit JSON (exit code %d): %w", exitCode, err)
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("bandit could not scan %s: %s", out.Errors[0].Filename, out.Errors[0].Reason)
	}

	findings := make([]Finding, 0, len(out.Results))
	for _, r := range out.Results {
		findings = append(findings, Finding{
			File:        r.Filename,
			Line:        r.LineNumber,
			Column:      r.ColOffset,
			Rule:        r.TestID,
			Message:     r.IssueText,
			RawSeverity: r.Severity,
		})
	}
	return findings, nil
}
