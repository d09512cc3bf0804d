package adapter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentient/qualgate/internal/scan"
)

// ESLintAdapter runs ESLint over JS/TS files and parses its JSON formatter
// output.
type ESLintAdapter struct{}

type eslintFile struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

type eslintMessage struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"` // 1=warning, 2=error
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (a *ESLintAdapter) Name() string { return "eslint" }

func (a *ESLintAdapter) Languages() []scan.Language {
	return []scan.Language{scan.LangTypeScript, scan.LangJavaScript}
}

func (a *ESLintAdapter) DefaultTimeout() time.Duration { return 30 * time.Second }

func (a *ESLintAdapter) Command(files []string) (string, []string) {
	args := []string{"--format=json"}
	return "eslint", append(args, files...)
}

func (a *ESLintAdapter) Parse(stdout string, stderr string, exitCode int) ([]Finding, error) {
	if stdout == "" && exitCode == 0 {
		return nil, nil
	}

	var files []eslintFile
	if err := json.Unmarshal([]byte(stdout), &files); err != nil {
		return nil, fmt.Errorf("eslint JSON (exit code %d): %w", exitCode, err)
	}

	var findings []Finding
	for _, f := range files {
		for _, m := range f.Messages {
			raw := "warning"
			if m.Severity == 2 {
				raw = "error"
			}
			rule := m.RuleID
			if rule == "" {
				// Parse-level problems come back with a null ruleId.
				rule = "syntax-error"
			}
			findings = append(findings, Finding{
				File:        f.FilePath,
				Line:        m.Line,
				Column:      m.Column,
				Rule:        rule,
				Message:     m.Message,
				RawSeverity: raw,
			})
		}
	}
	return findings, nil
}
