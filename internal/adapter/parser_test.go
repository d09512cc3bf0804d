package adapter

import (
	"strings"
	"testing"
)

func TestRuffParse_Findings(t *testing.T) {
	input := `[
		{"filename": "src/auth.py", "code": "F821", "message": "Undefined name 'usr'",
		 "location": {"row": 42, "column": 5}},
		{"filename": "src/auth.py", "code": "S105", "message": "Possible hardcoded password",
		 "location": {"row": 7, "column": 12}}
	]`
	a := &RuffAdapter{}
	findings, err := a.Parse(input, "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	f := findings[0]
	if f.File != "src/auth.py" || f.Line != 42 || f.Column != 5 {
		t.Errorf("unexpected location: %+v", f)
	}
	if f.Rule != "F821" {
		t.Errorf("expected rule=F821, got %q", f.Rule)
	}
	if f.RawSeverity != "" {
		t.Errorf("ruff has no native severity, got %q", f.RawSeverity)
	}
}

func TestRuffParse_CleanRun(t *testing.T) {
	a := &RuffAdapter{}
	findings, err := a.Parse("", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %d", len(findings))
	}
}

func TestRuffParse_Garbage(t *testing.T) {
	a := &RuffAdapter{}
	if _, err := a.Parse("Traceback (most recent call last)", "", 2); err == nil {
		t.Error("expected parse error for non-JSON output")
	}
}

func TestRuffFormatParse(t *testing.T) {
	input := strings.Join([]string{
		"Would reformat: src/auth.py",
		"Would reformat: src/db.py",
		"2 files would be reformatted, 3 files already formatted",
	}, "\n")
	a := &RuffFormatAdapter{}
	findings, err := a.Parse(input, "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].File != "src/auth.py" || findings[0].Rule != "format" {
		t.Errorf("unexpected finding: %+v", findings[0])
	}
	if findings[1].File != "src/db.py" {
		t.Errorf("unexpected finding: %+v", findings[1])
	}
}

func TestRuffFormatParse_CleanRun(t *testing.T) {
	a := &RuffFormatAdapter{}
	findings, err := a.Parse("3 files already formatted", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings on exit 0, got %d", len(findings))
	}
}

func TestMypyParse(t *testing.T) {
	input := strings.Join([]string{
		"src/auth.py:42:5: error: Incompatible types in assignment [assignment]",
		`src/auth.py:42:5: note: See https://mypy.readthedocs.io`,
		"src/db.py:10: warning: Returning Any from function [no-any-return]",
		"Found 2 errors in 2 files (checked 2 source files)",
	}, "\n")

	a := &MypyAdapter{}
	findings, err := a.Parse(input, "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings (note and summary skipped), got %d", len(findings))
	}

	f := findings[0]
	if f.File != "src/auth.py" || f.Line != 42 || f.Column != 5 {
		t.Errorf("unexpected location: %+v", f)
	}
	if f.Rule != "assignment" {
		t.Errorf("expected rule=assignment, got %q", f.Rule)
	}
	if f.RawSeverity != "error" {
		t.Errorf("expected raw severity=error, got %q", f.RawSeverity)
	}

	// Second finding has no column and a warning severity.
	if findings[1].Column != 0 {
		t.Errorf("expected column=0 when absent, got %d", findings[1].Column)
	}
	if findings[1].RawSeverity != "warning" {
		t.Errorf("expected raw severity=warning, got %q", findings[1].RawSeverity)
	}
}

func TestMypyParse_MissingErrorCode(t *testing.T) {
	a := &MypyAdapter{}
	findings, err := a.Parse("src/x.py:1:1: error: Syntax error", "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Rule != "misc" {
		t.Errorf("expected fallback rule=misc, got %q", findings[0].Rule)
	}
}

func TestESLintParse(t *testing.T) {
	input := `[{
		"filePath": "src/auth.ts",
		"messages": [
			{"ruleId": "no-eval", "severity": 2, "message": "eval can be harmful.", "line": 12, "column": 3},
			{"ruleId": "semi", "severity": 1, "message": "Missing semicolon.", "line": 30, "column": 20}
		]
	}]`
	a := &ESLintAdapter{}
	findings, err := a.Parse(input, "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	if findings[0].Rule != "no-eval" || findings[0].RawSeverity != "error" {
		t.Errorf("unexpected first finding: %+v", findings[0])
	}
	if findings[1].RawSeverity != "warning" {
		t.Errorf("expected severity 1 to map to warning, got %q", findings[1].RawSeverity)
	}
}

func TestESLintParse_EmptyCleanRun(t *testing.T) {
	a := &ESLintAdapter{}
	findings, err := a.Parse("", "", 0)
	if err != nil {
		t.Fatalf("empty stdout on exit 0 must not be a parse error: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %d", len(findings))
	}
}

func TestESLintParse_NullRuleID(t *testing.T) {
	input := `[{"filePath": "src/broken.ts", "messages": [
		{"ruleId": null, "severity": 2, "message": "Parsing error: Unexpected token", "line": 1, "column": 1}
	]}]`
	a := &ESLintAdapter{}
	findings, err := a.Parse(input, "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Rule != "syntax-error" {
		t.Errorf("expected null ruleId to become syntax-error, got %q", findings[0].Rule)
	}
}

func TestTscParse(t *testing.T) {
	input := strings.Join([]string{
		"src/auth.ts(42,5): error TS2345: Argument of type 'string' is not assignable.",
		"not a diagnostic line",
		"src/db.ts(3,1): error TS2304: Cannot find name 'fetchUser'.",
	}, "\n")

	a := &TscAdapter{}
	findings, err := a.Parse(input, "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
	f := findings[0]
	if f.File != "src/auth.ts" || f.Line != 42 || f.Column != 5 {
		t.Errorf("unexpected location: %+v", f)
	}
	if f.Rule != "TS2345" {
		t.Errorf("expected rule=TS2345, got %q", f.Rule)
	}
	if f.RawSeverity != "error" {
		t.Errorf("expected raw severity=error, got %q", f.RawSeverity)
	}
}

func TestBanditParse(t *testing.T) {
	input := `{
		"results": [
			{"filename": "src/db.py", "line_number": 88, "col_offset": 4,
			 "test_id": "B608", "issue_text": "Possible SQL injection", "issue_severity": "MEDIUM"}
		],
		"errors": []
	}`
	a := &BanditAdapter{}
	findings, err := a.Parse(input, "", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Rule != "B608" || f.Line != 88 {
		t.Errorf("unexpected finding: %+v", f)
	}
	if f.RawSeverity != "MEDIUM" {
		t.Errorf("expected raw severity MEDIUM, got %q", f.RawSeverity)
	}
}

func TestBanditParse_ScanError(t *testing.T) {
	input := `{"results": [], "errors": [{"filename": "src/bad.py", "reason": "syntax error while parsing AST"}]}`
	a := &BanditAdapter{}
	if _, err := a.Parse(input, "", 1); err == nil {
		t.Error("expected error when bandit reports scan errors")
	}
}
