// Package cli wires the qualgate commands. The heavy lifting lives in the
// internal engine packages; commands here parse flags, assemble the engine,
// and translate its results into output and exit codes.
package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentient/qualgate/internal/config"
	"github.com/agentient/qualgate/internal/hookio"
)

var version = "dev"

// SetVersion records the build version injected via ldflags.
func SetVersion(v string) {
	version = v
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "qualgate",
	Short: "qualgate — a quality gate for code edits",
	Long: `qualgate runs the per-language static analysis tools (linters, type
checkers, security scanners) over a set of changed files, normalizes their
findings into one violation model, and applies a pass/warn/block policy.

It is designed to run as a post-edit hook: exit code 0 means the edit may
proceed (PASS or WARN), exit code 2 means the policy blocked it.`,
}

// Execute runs the CLI. The returned error carries the intended process exit
// code; see ExitCode.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the engine logger: human-readable debug output with
// --verbose, silent otherwise.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// ExitError carries a deliberate exit code out of a command, distinct from
// an internal failure.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }

// ExitCode maps the error returned by Execute onto the process exit code:
// nil -> 0, policy block -> 2, config error -> 3, anything else -> 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return hookio.ExitConfig
	}
	return hookio.ExitInternal
}
