package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentient/qualgate/internal/adapter"
	"github.com/agentient/qualgate/internal/aggregate"
	"github.com/agentient/qualgate/internal/hookio"
	"github.com/agentient/qualgate/internal/policy"
	"github.com/agentient/qualgate/internal/reporter"
	"github.com/agentient/qualgate/internal/scan"
)

var hookCmd = &cobra.Command{
	Use:   "hook [paths...]",
	Short: "Run the gate as a post-edit hook",
	Long: `Reads a hook event from stdin ({"tool_input":{"file_path":...}}) and
gates the edited file. Paths given as arguments are gated instead when no
event is present.

On BLOCK the narrative report goes to stderr so the host surfaces it as
feedback, and the process exits 2.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		outputPath, _ := cmd.Flags().GetString("output")

		paths := args
		if len(paths) == 0 {
			path, err := hookio.ReadEvent(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if path == "" {
				// Nothing scannable in the event; never block on that.
				return nil
			}
			paths = []string{path}
		}

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}

		files, err := scan.Collect(paths)
		if err != nil {
			// An edited file that vanished before the hook ran is not a
			// policy violation.
			return nil
		}
		if len(files) == 0 {
			return nil
		}

		log := newLogger()
		defer func() { _ = log.Sync() }()

		agg := aggregate.New(&adapter.ExecRunner{}, cfg, log)
		rep := agg.Run(cmd.Context(), ".", files)
		decision := policy.Evaluate(rep, cfg)

		if outputPath != "" {
			if err := reporter.WriteFile(outputPath, rep, decision); err != nil {
				return fmt.Errorf("write structured report: %w", err)
			}
		}
		if !cfg.History.Disabled {
			recordHistory(cfg, rep, decision, log)
		}

		hookio.Emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), rep, decision)

		if decision.Outcome == policy.Block {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{
				Code: hookio.ExitBlock,
				Msg:  fmt.Sprintf("quality gate blocked: %d reason(s)", len(decision.Reasons)),
			}
		}
		return nil
	},
}

func init() {
	hookCmd.Flags().String("config", "", "Path to the policy config file")
	hookCmd.Flags().String("output", "", "Also write the structured JSON report to this path")
}
