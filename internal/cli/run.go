package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentient/qualgate/internal/adapter"
	"github.com/agentient/qualgate/internal/aggregate"
	"github.com/agentient/qualgate/internal/config"
	"github.com/agentient/qualgate/internal/history"
	"github.com/agentient/qualgate/internal/hookio"
	"github.com/agentient/qualgate/internal/policy"
	"github.com/agentient/qualgate/internal/progress"
	"github.com/agentient/qualgate/internal/report"
	"github.com/agentient/qualgate/internal/reporter"
	"github.com/agentient/qualgate/internal/scan"
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Run the quality gate over files or directories",
	Long: `Runs every applicable analysis tool over the given paths (default: the
current directory), evaluates the policy, and prints the report.

Exit codes: 0 = PASS or WARN, 2 = BLOCK, 3 = invalid config, 1 = engine failure.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}
		return runGate(cmd, paths)
	},
}

func init() {
	runCmd.Flags().String("config", "", "Path to the policy config file")
	runCmd.Flags().String("format", "text", "Output format: text or json")
	runCmd.Flags().String("output", "", "Also write the structured JSON report to this path")
	runCmd.Flags().Bool("fail-fast", false, "Stop dispatching tools after the first blocking violation")
	runCmd.Flags().Bool("progress", false, "Show progress bars on interactive terminals")
	runCmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	runCmd.Flags().String("budget", "", "Wall-clock budget for the whole run (e.g. 90s)")
}

// runGate is the shared gate pipeline used by both `run` and `hook`.
func runGate(cmd *cobra.Command, paths []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	failFast, _ := cmd.Flags().GetBool("fail-fast")
	showProgress, _ := cmd.Flags().GetBool("progress")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	budget, _ := cmd.Flags().GetString("budget")

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if failFast {
		cfg.FailFast = true
	}
	if budget != "" {
		cfg.Budget = budget
		if errs := config.Validate(cfg); len(errs) > 0 {
			return &config.ConfigError{Errs: errs}
		}
	}

	files, err := scan.Collect(paths)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scannable files found; nothing to gate.")
		return nil
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	agg := aggregate.New(&adapter.ExecRunner{}, cfg, log,
		aggregate.WithProgress(progress.NewManager(showProgress)),
	)
	rep := agg.Run(cmd.Context(), ".", files)
	decision := policy.Evaluate(rep, cfg)

	if outputPath != "" {
		if err := reporter.WriteFile(outputPath, rep, decision); err != nil {
			return fmt.Errorf("write structured report: %w", err)
		}
	}

	if !noHistory && !cfg.History.Disabled {
		recordHistory(cfg, rep, decision, log)
	}

	switch format {
	case "json":
		data, err := reporter.Structured(rep, decision).JSON()
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		reporter.Narrative(cmd.OutOrStdout(), rep, decision)
	}

	if decision.Outcome == policy.Block {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{
			Code: hookio.ExitBlock,
			Msg:  fmt.Sprintf("quality gate blocked: %d reason(s)", len(decision.Reasons)),
		}
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// recordHistory stores the run outcome. History is best-effort: a broken
// store logs a debug message and never fails the gate.
func recordHistory(cfg *config.Config, rep *report.QualityReport, d policy.Decision, log *zap.Logger) {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			log.Debug("history path unavailable", zap.Error(err))
			return
		}
	}
	store, err := history.Open(path)
	if err != nil {
		log.Debug("history store unavailable", zap.Error(err))
		return
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		log.Debug("history migrate failed", zap.Error(err))
		return
	}

	repo, err := os.Getwd()
	if err != nil {
		repo = "."
	}

	run := history.Run{
		RunID:        rep.RunID,
		Repo:         repo,
		Outcome:      string(d.Outcome),
		Violations:   len(rep.Violations),
		Critical:     rep.CountBySeverity()[report.SeverityCritical],
		ToolFailures: len(rep.ToolFailures),
		Incomplete:   rep.Incomplete,
		DurationMs:   rep.DurationMs,
	}
	if pct, ok := overallCoverage(rep); ok {
		run.CoveragePct = sql.NullFloat64{Float64: pct, Valid: true}
	}
	if err := store.Record(run); err != nil {
		log.Debug("history record failed", zap.Error(err))
	}
}

// overallCoverage averages statement coverage across the report's files.
func overallCoverage(rep *report.QualityReport) (float64, bool) {
	if len(rep.Coverage) == 0 {
		return 0, false
	}
	var sum float64
	for _, c := range rep.Coverage {
		sum += c.StatementPct
	}
	return sum / float64(len(rep.Coverage)), true
}
