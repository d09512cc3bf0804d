// Package policy turns a QualityReport into a PASS/WARN/BLOCK decision.
// Evaluation is a pure function of (report, config): no I/O, no clock, no
// state, so identical inputs always produce identical decisions.
package policy

import (
	"fmt"
	"sort"

	"github.com/agentient/qualgate/internal/config"
	"github.com/agentient/qualgate/internal/report"
)

// Outcome is the terminal verdict of a gate run.
type Outcome string

const (
	Pass  Outcome = "PASS"
	Warn  Outcome = "WARN"
	Block Outcome = "BLOCK"
)

var outcomeRank = map[Outcome]int{Pass: 0, Warn: 1, Block: 2}

// Rank orders outcomes by severity.
func (o Outcome) Rank() int { return outcomeRank[o] }

// Decision is the final verdict plus the reasons behind it. Every reason
// cites an entity actually present in the evaluated report.
type Decision struct {
	Outcome Outcome  `json:"outcome"`
	Reasons []string `json:"reasons"`
}

// Evaluate applies the ordered escalation checks. Each check can only raise
// the verdict, never lower it.
func Evaluate(r *report.QualityReport, cfg *config.Config) Decision {
	d := Decision{Outcome: Pass}

	escalate := func(to Outcome, reason string) {
		if to.Rank() > d.Outcome.Rank() {
			d.Outcome = to
		}
		d.Reasons = append(d.Reasons, reason)
	}

	// An interrupted run must never silently resolve to PASS.
	if r.Incomplete {
		escalate(Warn, "run exceeded its wall-clock budget; results are incomplete")
	}

	// 1. A required check that could not run is never treated as passing.
	for _, tool := range sortedFailures(r) {
		if cfg.IsRequired(tool) {
			f := r.ToolFailures[tool]
			escalate(Warn, fmt.Sprintf("required tool %s did not run (%s: %s)", tool, f.Kind, f.Detail))
		}
	}
	if cfg.Coverage.Required && len(r.Coverage) == 0 {
		escalate(Warn, "coverage is required but no coverage data was available")
	}

	// 2. Blocking severities.
	blocking := cfg.BlockingSet()
	for _, v := range r.Violations {
		if blocking[v.Severity] {
			escalate(Block, fmt.Sprintf("%s violation %s at %s:%d (%s): %s",
				v.Severity, v.Rule, v.File, v.Line, v.Tool, v.Message))
		}
	}

	// 3. Coverage thresholds. A value at the threshold passes; a shortfall
	// at or beyond the hard-fail margin blocks.
	for _, c := range r.Coverage {
		threshold, ok := cfg.Coverage.Thresholds[c.Class]
		if !ok || c.StatementPct >= threshold {
			continue
		}
		shortfall := threshold - c.StatementPct
		reason := fmt.Sprintf("coverage for %s is %.1f%%, below the %s threshold of %.1f%% (shortfall %.1f)",
			c.File, c.StatementPct, c.Class, threshold, shortfall)
		if shortfall >= cfg.Coverage.HardFailMargin {
			escalate(Block, reason)
		} else {
			escalate(Warn, reason)
		}
	}

	// 4. Violation volume. Exceeding the soft cap escalates one step.
	nonBlocking := 0
	for _, v := range r.Violations {
		if !blocking[v.Severity] {
			nonBlocking++
		}
	}
	if cfg.MaxWarnViolations > 0 && nonBlocking > cfg.MaxWarnViolations {
		target := Warn
		if d.Outcome == Warn {
			target = Block
		}
		escalate(target, fmt.Sprintf("%d non-blocking violations exceed the cap of %d",
			nonBlocking, cfg.MaxWarnViolations))
	}

	return d
}

// sortedFailures returns failure tool names in stable order so reasons don't
// depend on map iteration.
func sortedFailures(r *report.QualityReport) []string {
	tools := make([]string, 0, len(r.ToolFailures))
	for tool := range r.ToolFailures {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}
