// Package report defines the unified violation and coverage model shared by
// every stage of the gate: adapters produce violations, the classifier tags
// them, the aggregator seals them into a QualityReport, and the policy engine
// and reporters consume that report read-only.
package report

import (
	"fmt"
	"sort"
	"time"
)

// Severity is the engine-assigned risk tier. Raw tool severities are never
// surfaced directly; the classifier maps every finding onto this scale.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// severityRank orders severities for sorting and comparison. Higher is worse.
var severityRank = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// Rank returns the numeric rank of a severity (higher is worse, 0 if unknown).
func (s Severity) Rank() int {
	return severityRank[s]
}

// Valid reports whether s is one of the five recognized severities.
func (s Severity) Valid() bool {
	return severityRank[s] != 0
}

// ParseSeverity converts a config string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.Valid() {
		return "", fmt.Errorf("unrecognized severity %q", s)
	}
	return sev, nil
}

// Category groups violations by the kind of risk they represent.
type Category string

const (
	CategorySecurity      Category = "SECURITY"
	CategoryCorrectness   Category = "CORRECTNESS"
	CategoryTypeSafety    Category = "TYPE_SAFETY"
	CategoryStyle         Category = "STYLE"
	CategoryComplexity    Category = "COMPLEXITY"
	CategoryDocumentation Category = "DOCUMENTATION"
)

// Violation is one normalized finding from an analysis tool.
//
// Adapters fill in everything except Severity and Category; those are set by
// the classifier before the violation leaves the aggregator.
type Violation struct {
	Tool     string   `json:"tool"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"` // 0 when the tool does not report one
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
}

// LineRange is a contiguous run of uncovered lines, inclusive on both ends.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CoverageReport holds normalized coverage for one scanned file or module.
type CoverageReport struct {
	File         string      `json:"file"`
	Class        string      `json:"class"` // module class, e.g. "backend" or "frontend"
	StatementPct float64     `json:"statement_pct"`
	BranchPct    float64     `json:"branch_pct"`
	FunctionPct  float64     `json:"function_pct"`
	Uncovered    []LineRange `json:"uncovered_lines,omitempty"`
}

// FailureKind distinguishes why a tool's contribution is missing.
type FailureKind string

const (
	FailureTimeout FailureKind = "timeout"
	FailureCrash   FailureKind = "crash"
	FailureMissing FailureKind = "missing_tool"
	FailureParse   FailureKind = "parse_error"
)

// ToolFailure records a tool that could not contribute to the run. A failed
// tool must never look identical to "zero violations found", so failures are
// carried on the report and surfaced in every rendering of it.
type ToolFailure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

// QualityReport is the aggregate result of one gate run. It is created fresh
// per invocation and treated as immutable once the policy engine has seen it.
type QualityReport struct {
	RunID        string                 `json:"run_id"`
	Violations   []Violation            `json:"violations"`
	Coverage     []CoverageReport       `json:"coverage"`
	ToolFailures map[string]ToolFailure `json:"tool_failures"`
	GeneratedAt  time.Time              `json:"generated_at"`
	FilesScanned int                    `json:"files_scanned"`
	DurationMs   int64                  `json:"duration_ms"`

	// Incomplete is set when the overall wall-clock budget expired before
	// every adapter finished. An incomplete run never resolves to PASS.
	Incomplete bool `json:"incomplete"`
}

// SortViolations orders violations by severity descending, then file path,
// then line, then column, then tool. This is the rendering contract and also
// what makes report content independent of adapter completion order.
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Tool < b.Tool
	})
}

// CountBySeverity returns violation counts keyed by severity.
func (r *QualityReport) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range r.Violations {
		counts[v.Severity]++
	}
	return counts
}
