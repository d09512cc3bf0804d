package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentient/qualgate/internal/policy"
	"github.com/agentient/qualgate/internal/report"
)

// severityOrder is the rendering order for summary counts and groups.
var severityOrder = []report.Severity{
	report.SeverityCritical,
	report.SeverityHigh,
	report.SeverityMedium,
	report.SeverityLow,
	report.SeverityInfo,
}

// Narrative writes the human-readable gate report. Violations render in the
// contract order: severity descending, then file path, then line ascending.
func Narrative(w io.Writer, r *report.QualityReport, d policy.Decision) {
	fmt.Fprintf(w, "Quality gate: %s\n", d.Outcome)
	fmt.Fprintf(w, "Run %s — %d file(s) scanned in %dms\n", r.RunID, r.FilesScanned, r.DurationMs)
	if r.Incomplete {
		fmt.Fprintln(w, "NOTE: the run hit its wall-clock budget; results below are incomplete.")
	}
	fmt.Fprintln(w)

	writeSummary(w, r)
	writeFailures(w, r)
	writeViolations(w, r)
	writeCoverage(w, r)
	writeNextSteps(w, r, d)
}

func writeSummary(w io.Writer, r *report.QualityReport) {
	counts := r.CountBySeverity()
	fmt.Fprintf(w, "Violations: %d total", len(r.Violations))
	if len(r.Violations) > 0 {
		var parts []string
		for _, sev := range severityOrder {
			if counts[sev] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
			}
		}
		fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

// writeFailures renders the tool-failure gap section. It comes before the
// violations: an un-run tool must never look like a clean one.
func writeFailures(w io.Writer, r *report.QualityReport) {
	if len(r.ToolFailures) == 0 {
		return
	}

	tools := make([]string, 0, len(r.ToolFailures))
	for tool := range r.ToolFailures {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	fmt.Fprintf(w, "Tools that did not run (%d) — their findings are MISSING from this report:\n", len(tools))
	for _, tool := range tools {
		f := r.ToolFailures[tool]
		fmt.Fprintf(w, "  %-10s %s: %s\n", tool, f.Kind, f.Detail)
	}
	fmt.Fprintln(w)
}

func writeViolations(w io.Writer, r *report.QualityReport) {
	if len(r.Violations) == 0 {
		return
	}

	current := report.Severity("")
	for _, v := range r.Violations {
		if v.Severity != current {
			current = v.Severity
			fmt.Fprintf(w, "%s\n", current)
		}
		loc := fmt.Sprintf("%s:%d", v.File, v.Line)
		if v.Column > 0 {
			loc += fmt.Sprintf(":%d", v.Column)
		}
		fmt.Fprintf(w, "  %s  [%s/%s] %s — %s\n", loc, v.Tool, v.Rule, v.Category, v.Message)
		if fix := SuggestFix(v); fix != "" {
			fmt.Fprintf(w, "      fix: %s\n", fix)
		}
	}
	fmt.Fprintln(w)
}

// writeCoverage lists coverage per file, lowest coverage first.
func writeCoverage(w io.Writer, r *report.QualityReport) {
	if len(r.Coverage) == 0 {
		return
	}

	sorted := append([]report.CoverageReport(nil), r.Coverage...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StatementPct != sorted[j].StatementPct {
			return sorted[i].StatementPct < sorted[j].StatementPct
		}
		return sorted[i].File < sorted[j].File
	})

	fmt.Fprintln(w, "Coverage (lowest first):")
	for _, c := range sorted {
		fmt.Fprintf(w, "  %6.1f%%  %s (%s)", c.StatementPct, c.File, c.Class)
		if len(c.Uncovered) > 0 {
			fmt.Fprintf(w, " — uncovered: %s", formatRanges(c.Uncovered, 4))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func writeNextSteps(w io.Writer, r *report.QualityReport, d policy.Decision) {
	if len(d.Reasons) > 0 {
		fmt.Fprintln(w, "Decision reasons:")
		for _, reason := range d.Reasons {
			fmt.Fprintf(w, "  - %s\n", reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Next steps:")
	switch d.Outcome {
	case policy.Block:
		fmt.Fprintln(w, "  1. Fix the blocking violations listed above, highest severity first.")
		fmt.Fprintln(w, "  2. Re-run the gate; the block clears once no blocking severity remains.")
	case policy.Warn:
		fmt.Fprintln(w, "  1. Review the warnings above; they do not block this change.")
		fmt.Fprintln(w, "  2. Address them before they accumulate past the violation cap.")
	default:
		fmt.Fprintln(w, "  Nothing to do; all checks passed.")
	}
	if len(r.ToolFailures) > 0 {
		fmt.Fprintln(w, "  Also: restore the failed tools listed above — their findings are currently invisible.")
	}
}

// formatRanges renders at most limit line ranges, eliding the rest.
func formatRanges(ranges []report.LineRange, limit int) string {
	var parts []string
	for i, lr := range ranges {
		if i == limit {
			parts = append(parts, fmt.Sprintf("… %d more", len(ranges)-limit))
			break
		}
		if lr.Start == lr.End {
			parts = append(parts, fmt.Sprintf("%d", lr.Start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", lr.Start, lr.End))
		}
	}
	return strings.Join(parts, ", ")
}
