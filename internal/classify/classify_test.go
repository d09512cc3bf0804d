package classify

import (
	"testing"

	"github.com/agentient/qualgate/internal/adapter"
	"github.com/agentient/qualgate/internal/report"
)

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		rule     string
		raw      string
		severity report.Severity
		category report.Category
	}{
		{"security override beats prefix", "ruff", "S105", "", report.SeverityCritical, report.CategorySecurity},
		{"bandit eval override", "bandit", "B307", "HIGH", report.SeverityCritical, report.CategorySecurity},
		{"eslint no-eval override", "eslint", "no-eval", "error", report.SeverityCritical, report.CategorySecurity},
		{"exact rule", "ruff", "F821", "", report.SeverityHigh, report.CategoryCorrectness},
		{"formatting drift", "ruff-format", "format", "", report.SeverityLow, report.CategoryStyle},
		{"exact beats prefix", "ruff", "E722", "", report.SeverityMedium, report.CategoryCorrectness},
		{"longest prefix wins over shorter", "ruff", "E999", "", report.SeverityHigh, report.CategoryCorrectness},
		{"short prefix", "ruff", "E501", "", report.SeverityLow, report.CategoryStyle},
		{"security prefix", "ruff", "S110", "", report.SeverityHigh, report.CategorySecurity},
		{"docstring family", "ruff", "D103", "", report.SeverityInfo, report.CategoryDocumentation},
		{"bandit family", "bandit", "B404", "LOW", report.SeverityHigh, report.CategorySecurity},
		{"tsc diagnostic", "tsc", "TS2345", "error", report.SeverityHigh, report.CategoryTypeSafety},
		{"mypy raw fallback error", "mypy", "assignment", "error", report.SeverityHigh, report.CategoryTypeSafety},
		{"mypy raw fallback warning", "mypy", "no-any-return", "warning", report.SeverityMedium, report.CategoryTypeSafety},
		{"raw fallback case-insensitive", "bandit", "X999", "HIGH", report.SeverityHigh, report.CategorySecurity},
		{"unknown everything defaults", "sometool", "X1", "??", report.SeverityMedium, report.CategoryCorrectness},
		{"empty inputs default", "", "", "", report.SeverityMedium, report.CategoryCorrectness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sev, cat := Classify(tt.tool, tt.rule, tt.raw)
			if sev != tt.severity {
				t.Errorf("severity: expected %s, got %s", tt.severity, sev)
			}
			if cat != tt.category {
				t.Errorf("category: expected %s, got %s", tt.category, cat)
			}
		})
	}
}

func TestClassify_AlwaysValid(t *testing.T) {
	// Every combination must yield a recognized severity, never empty.
	tools := []string{"ruff", "mypy", "eslint", "tsc", "bandit", "unknown"}
	rules := []string{"", "Z999", "no-such-rule", "TSX"}
	raws := []string{"", "fatal", "ERROR"}
	for _, tool := range tools {
		for _, rule := range rules {
			for _, raw := range raws {
				sev, cat := Classify(tool, rule, raw)
				if !sev.Valid() {
					t.Fatalf("invalid severity %q for (%s,%s,%s)", sev, tool, rule, raw)
				}
				if cat == "" {
					t.Fatalf("empty category for (%s,%s,%s)", tool, rule, raw)
				}
			}
		}
	}
}

func TestApply(t *testing.T) {
	findings := []adapter.Finding{
		{File: "a.py", Line: 3, Rule: "S608", Message: "sql injection"},
		{File: "a.py", Line: 9, Rule: "E501", Message: "line too long"},
	}
	violations := Apply("ruff", findings)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Tool != "ruff" {
		t.Errorf("expected tool=ruff, got %q", violations[0].Tool)
	}
	if violations[0].Severity != report.SeverityCritical {
		t.Errorf("expected CRITICAL for S608, got %s", violations[0].Severity)
	}
	if violations[1].Severity != report.SeverityLow || violations[1].Category != report.CategoryStyle {
		t.Errorf("unexpected classification for E501: %+v", violations[1])
	}
}

func TestApply_Empty(t *testing.T) {
	if got := Apply("ruff", nil); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}
