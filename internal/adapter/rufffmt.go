package adapter

import (
	"strings"
	"time"

	"github.com/agentient/qualgate/internal/scan"
)

// RuffFormatAdapter runs ruff's formatter in check-only mode and emits one
// finding per file that would be rewritten. Formatting drift is a style
// violation, never a hard failure.
type RuffFormatAdapter struct{}

func (a *RuffFormatAdapter) Name() string { return "ruff-format" }

func (a *RuffFormatAdapter) Languages() []scan.Language {
	return []scan.Language{scan.LangPython}
}

func (a *RuffFormatAdapter) DefaultTimeout() time.Duration { return 15 * time.Second }

func (a *RuffFormatAdapter) Command(files []string) (string, []string) {
	args := []string{"format", "--check"}
	return "ruff", append(args, files...)
}

func (a *RuffFormatAdapter) Parse(stdout string, stderr string, exitCode int) ([]Finding, error) {
	if exitCode == 0 {
		return nil, nil
	}

	var findings []Finding
	for _, line := range strings.Split(stdout, "\n") {
		file, ok := strings.CutPrefix(strings.TrimSpace(line), "Would reformat: ")
		if !ok {
			continue
		}
		findings = append(findings, Finding{
			File:    file,
			Rule:    "format",
			Message: "file is not formatted; run ruff format",
		})
	}
	return findings, nil
}
