package config

import "time"

// Config is the policy configuration for one gate run. It is loaded and
// validated before any tool executes and is read-only afterwards.
type Config struct {
	// Budget is the wall-clock limit for the whole run, as a duration
	// string ("120s", "2m"). Empty means the default.
	Budget string `mapstructure:"budget" yaml:"budget"`

	// FailFast stops the run at the first failed adapter instead of
	// collecting everything. Default is to run everything.
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast"`

	// RequiredTools lists tools whose failure to run escalates the
	// decision to at least WARN.
	RequiredTools []string `mapstructure:"required_tools" yaml:"required_tools"`

	// BlockingSeverities are severities that force BLOCK when present.
	BlockingSeverities []string `mapstructure:"blocking_severities" yaml:"blocking_severities"`

	// MaxWarnViolations is the soft cap on non-blocking violations. When
	// exceeded, the decision escalates one step (PASS→WARN, WARN→BLOCK).
	MaxWarnViolations int `mapstructure:"max_warn_violations" yaml:"max_warn_violations"`

	// Tools holds per-tool overrides keyed by tool name.
	Tools map[string]Tool `mapstructure:"tools" yaml:"tools"`

	Coverage Coverage `mapstructure:"coverage" yaml:"coverage"`

	History History `mapstructure:"history" yaml:"history"`
}

// Tool configures a single adapter.
type Tool struct {
	// Enabled defaults to true; a nil pointer means "not specified".
	Enabled *bool `mapstructure:"enabled" yaml:"enabled,omitempty"`

	// Timeout is a duration string; empty means the adapter's default.
	Timeout string `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// Coverage configures the coverage gate.
type Coverage struct {
	// Required makes missing coverage data escalate to at least WARN
	// instead of being ignored.
	Required bool `mapstructure:"required" yaml:"required"`

	// Thresholds maps module class (backend, frontend) to the minimum
	// acceptable statement percentage. A value at the threshold passes.
	Thresholds map[string]float64 `mapstructure:"thresholds" yaml:"thresholds"`

	// HardFailMargin is the shortfall, in percentage points, at which a
	// coverage miss becomes BLOCK instead of WARN.
	HardFailMargin float64 `mapstructure:"hard_fail_margin" yaml:"hard_fail_margin"`

	// ReportPath pins the coverage report location. Empty means
	// auto-discovery across the conventional locations.
	ReportPath string `mapstructure:"report_path" yaml:"report_path,omitempty"`
}

// History configures run-history recording.
type History struct {
	// Disabled turns off recording entirely.
	Disabled bool `mapstructure:"disabled" yaml:"disabled"`

	// Path overrides the default database location (~/.qualgate/history.db).
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

const (
	DefaultBudget            = 2 * time.Minute
	DefaultMaxWarnViolations = 25
	DefaultBackendThreshold  = 80.0
	DefaultFrontendThreshold = 70.0
	DefaultHardFailMargin    = 10.0
)

// DefaultConfig returns a fully populated config with default policy values.
func DefaultConfig() *Config {
	return &Config{
		Budget:             DefaultBudget.String(),
		BlockingSeverities: []string{"CRITICAL"},
		MaxWarnViolations:  DefaultMaxWarnViolations,
		Tools:              map[string]Tool{},
		Coverage: Coverage{
			Thresholds: map[string]float64{
				"backend":  DefaultBackendThreshold,
				"frontend": DefaultFrontendThreshold,
			},
			HardFailMargin: DefaultHardFailMargin,
		},
	}
}

// BudgetDuration parses the configured budget, falling back to the default.
func (c *Config) BudgetDuration() time.Duration {
	return ParseDuration(c.Budget, DefaultBudget)
}

// ToolEnabled reports whether a tool should run. Tools are enabled unless
// explicitly switched off.
func (c *Config) ToolEnabled(name string) bool {
	t, ok := c.Tools[name]
	if !ok || t.Enabled == nil {
		return true
	}
	return *t.Enabled
}

// ToolTimeout returns the configured timeout for a tool, or fallback when
// none is set.
func (c *Config) ToolTimeout(name string, fallback time.Duration) time.Duration {
	t, ok := c.Tools[name]
	if !ok {
		return fallback
	}
	return ParseDuration(t.Timeout, fallback)
}

// IsRequired reports whether a tool is on the required list.
func (c *Config) IsRequired(name string) bool {
	for _, t := range c.RequiredTools {
		if t == name {
			return true
		}
	}
	return false
}

// ParseDuration parses a duration string, falling back to a default.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
