package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Environment variables honored as threshold overrides. These take
// precedence over the YAML file so CI can tighten a gate without editing
// checked-in config.
const (
	EnvBackendThreshold  = "BACKEND_COVERAGE_THRESHOLD"
	EnvFrontendThreshold = "FRONTEND_COVERAGE_THRESHOLD"
)

// Load reads and validates a policy config from the given YAML file path.
// An empty path falls back to defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		// Fresh viper instance per load to avoid shared state.
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	errs := applyEnvOverrides(cfg)
	errs = append(errs, Validate(cfg)...)
	if len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errs: errs}
	}
	return cfg, nil
}

// LoadDefault searches for a policy config in standard locations and loads
// the first one found. Search order: ./.qualgate.yaml, ./qualgate.yaml,
// ~/.qualgate/config.yaml. When none exists, defaults are used.
func LoadDefault() (*Config, error) {
	candidates := []string{".qualgate.yaml", "qualgate.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".qualgate", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return Load("")
}

// applyEnvOverrides folds threshold environment variables into the config.
// An unparseable value is reported against the variable name so the user
// sees exactly what to fix.
func applyEnvOverrides(cfg *Config) []ValidationError {
	if cfg.Coverage.Thresholds == nil {
		cfg.Coverage.Thresholds = make(map[string]float64)
	}
	var errs []ValidationError
	for env, class := range map[string]string{
		EnvBackendThreshold:  "backend",
		EnvFrontendThreshold: "frontend",
	} {
		raw := os.Getenv(env)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   env,
				Message: fmt.Sprintf("must be a number, got %q", raw),
			})
			continue
		}
		cfg.Coverage.Thresholds[class] = val
	}
	return errs
}
