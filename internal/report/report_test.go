package report

import "testing"

func TestParseSeverity(t *testing.T) {
	for _, s := range []string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "INFO"} {
		sev, err := ParseSeverity(s)
		if err != nil {
			t.Errorf("%s: unexpected error %v", s, err)
		}
		if string(sev) != s {
			t.Errorf("%s: got %q", s, sev)
		}
	}
	for _, s := range []string{"critical", "FATAL", ""} {
		if _, err := ParseSeverity(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should rank above %s", order[i], order[i-1])
		}
	}
	if Severity("BOGUS").Rank() != 0 {
		t.Error("unknown severity should rank 0")
	}
}

func TestSortViolations(t *testing.T) {
	vs := []Violation{
		{Tool: "ruff", File: "b.py", Line: 1, Severity: SeverityLow},
		{Tool: "mypy", File: "a.py", Line: 5, Severity: SeverityLow},
		{Tool: "bandit", File: "z.py", Line: 9, Severity: SeverityCritical},
		{Tool: "ruff", File: "a.py", Line: 5, Severity: SeverityLow},
		{Tool: "ruff", File: "a.py", Line: 2, Severity: SeverityLow},
	}
	SortViolations(vs)

	if vs[0].Severity != SeverityCritical {
		t.Errorf("highest severity first, got %+v", vs[0])
	}
	if vs[1].File != "a.py" || vs[1].Line != 2 {
		t.Errorf("expected a.py:2 second, got %+v", vs[1])
	}
	// Same file and line: tool name breaks the tie.
	if vs[2].Tool != "mypy" || vs[3].Tool != "ruff" {
		t.Errorf("tool tiebreak failed: %+v then %+v", vs[2], vs[3])
	}
	if vs[4].File != "b.py" {
		t.Errorf("expected b.py last, got %+v", vs[4])
	}
}

func TestCountBySeverity(t *testing.T) {
	r := &QualityReport{Violations: []Violation{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityInfo},
	}}
	counts := r.CountBySeverity()
	if counts[SeverityHigh] != 2 || counts[SeverityInfo] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if counts[SeverityCritical] != 0 {
		t.Errorf("absent severity should count 0: %v", counts)
	}
}
