package adapter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentient/qualgate/internal/scan"
)

// RuffAdapter runs the ruff linter over Python files and parses its JSON
// output.
type RuffAdapter struct{}

type ruffItem struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Location struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"location"`
}

func (a *RuffAdapter) Name() string { return "ruff" }

func (a *RuffAdapter) Languages() []scan.Language {
	return []scan.Language{scan.LangPython}
}

func (a *RuffAdapter) DefaultTimeout() time.Duration { return 30 * time.Second }

func (a *RuffAdapter) Command(files []string) (string, []string) {
	args := []string{"check", "--output-format=json"}
	return "ruff", append(args, files...)
}

func (a *RuffAdapter) Parse(stdout string, stderr string, exitCode int) ([]Finding, error) {
	if stdout == "" && exitCode == 0 {
		return nil, nil
	}

	var items []ruffItem
	if err := json.Unmarshal([]byte(stdout), &items); err != nil {
		return nil, fmt.Errorf("ruff JSON (exit code %d): %w", exitCode, err)
	}

	findings := make([]Finding, 0, len(items))
	for _, item := range items {
		findings = append(findings, Finding{
			File:    item.Filename,
			Line:    item.Location.Row,
			Column:  item.Location.Column,
			Rule:    item.Code,
			Message: item.Message,
			// ruff reports no native severity; classification falls
			// through to the rule-code tables.
		})
	}
	return findings, nil
}
