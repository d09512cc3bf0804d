// Package reporter renders a QualityReport and its Decision into the two
// output artifacts: a machine-readable JSON document with stable field names
// and a sectioned narrative for humans.
package reporter

import (
	"encoding/json"
	"os"
	"time"

	"github.com/agentient/qualgate/internal/policy"
	"github.com/agentient/qualgate/internal/report"
)

// SchemaVersion identifies the structured document layout. Bump on any
// field rename or removal.
const SchemaVersion = 1

// Document is the machine-readable gate result.
type Document struct {
	SchemaVersion int                           `json:"schema_version"`
	RunID         string                        `json:"run_id"`
	GeneratedAt   time.Time                     `json:"generated_at"`
	FilesScanned  int                           `json:"files_scanned"`
	DurationMs    int64                         `json:"duration_ms"`
	Incomplete    bool                          `json:"incomplete"`
	Violations    []report.Violation            `json:"violations"`
	Coverage      []report.CoverageReport       `json:"coverage"`
	ToolFailures  map[string]report.ToolFailure `json:"tool_failures"`
	Decision      policy.Decision               `json:"decision"`
}

// Structured assembles the machine-readable document.
func Structured(r *report.QualityReport, d policy.Decision) *Document {
	violations := r.Violations
	if violations == nil {
		violations = []report.Violation{}
	}
	coverage := r.Coverage
	if coverage == nil {
		coverage = []report.CoverageReport{}
	}
	return &Document{
		SchemaVersion: SchemaVersion,
		RunID:         r.RunID,
		GeneratedAt:   r.GeneratedAt,
		FilesScanned:  r.FilesScanned,
		DurationMs:    r.DurationMs,
		Incomplete:    r.Incomplete,
		Violations:    violations,
		Coverage:      coverage,
		ToolFailures:  r.ToolFailures,
		Decision:      d,
	}
}

// JSON returns the document as indented JSON.
func (doc *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// WriteFile writes the structured document to the given path.
func WriteFile(path string, r *report.QualityReport, d policy.Decision) error {
	data, err := Structured(r, d).JSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
