package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentient/qualgate/internal/report"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigError aggregates every validation problem found in a policy config.
// It is fatal: the run aborts before any adapter executes.
type ConfigError struct {
	Path string
	Errs []ValidationError
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&sb, "invalid config %s:", e.Path)
	} else {
		sb.WriteString("invalid config:")
	}
	for _, v := range e.Errs {
		sb.WriteString("\n  ")
		sb.WriteString(v.Error())
	}
	return sb.String()
}

// knownTools is the set of tool names a config may reference. Kept here
// rather than imported from the adapter registry so config stays a leaf
// package.
var knownTools = map[string]bool{
	"ruff":        true,
	"ruff-format": true,
	"mypy":        true,
	"eslint":      true,
	"tsc":         true,
	"bandit":      true,
	"coverage":    true,
}

// Validate checks a Config for structural and semantic errors. It returns
// every problem found (empty if valid) so a user fixes the file in one pass.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.Budget != "" {
		if d, err := time.ParseDuration(cfg.Budget); err != nil {
			errs = append(errs, ValidationError{Field: "budget", Message: fmt.Sprintf("invalid duration %q", cfg.Budget)})
		} else if d <= 0 {
			errs = append(errs, ValidationError{Field: "budget", Message: "must be positive"})
		}
	}

	if cfg.MaxWarnViolations < 0 {
		errs = append(errs, ValidationError{Field: "max_warn_violations", Message: "must not be negative"})
	}

	if len(cfg.BlockingSeverities) == 0 {
		errs = append(errs, ValidationError{Field: "blocking_severities", Message: "at least one severity is required"})
	}
	for i, s := range cfg.BlockingSeverities {
		if _, err := report.ParseSeverity(s); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("blocking_severities[%d]", i),
				Message: fmt.Sprintf("unrecognized severity %q", s),
			})
		}
	}

	for i, name := range cfg.RequiredTools {
		if !knownTools[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("required_tools[%d]", i),
				Message: fmt.Sprintf("references unknown tool %q", name),
			})
		}
	}

	for name, tool := range cfg.Tools {
		if !knownTools[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tools.%s", name),
				Message: fmt.Sprintf("unknown tool %q", name),
			})
		}
		if tool.Timeout != "" {
			if d, err := time.ParseDuration(tool.Timeout); err != nil {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("tools.%s.timeout", name),
					Message: fmt.Sprintf("invalid duration %q", tool.Timeout),
				})
			} else if d <= 0 {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("tools.%s.timeout", name),
					Message: "must be positive",
				})
			}
		}
	}

	for class, threshold := range cfg.Coverage.Thresholds {
		if threshold < 0 || threshold > 100 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("coverage.thresholds.%s", class),
				Message: fmt.Sprintf("must be between 0 and 100, got %v", threshold),
			})
		}
	}
	if cfg.Coverage.HardFailMargin < 0 || cfg.Coverage.HardFailMargin > 100 {
		errs = append(errs, ValidationError{
			Field:   "coverage.hard_fail_margin",
			Message: fmt.Sprintf("must be between 0 and 100, got %v", cfg.Coverage.HardFailMargin),
		})
	}

	return errs
}

// BlockingSet converts the configured blocking severities into a lookup set.
// Call only after Validate has accepted the config.
func (c *Config) BlockingSet() map[report.Severity]bool {
	set := make(map[report.Severity]bool, len(c.BlockingSeverities))
	for _, s := range c.BlockingSeverities {
		set[report.Severity(s)] = true
	}
	return set
}
