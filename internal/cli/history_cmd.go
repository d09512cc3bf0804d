package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentient/qualgate/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded gate runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent gate runs for this repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, repo, cleanup, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		runs, err := store.List(repo, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs for this repository.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-20s %-7s %-10s %-8s %-9s %s\n",
			"TIMESTAMP", "RESULT", "VIOLATIONS", "CRITICAL", "COVERAGE", "RUN")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, r := range runs {
			coverage := "-"
			if r.CoveragePct.Valid {
				coverage = fmt.Sprintf("%.1f%%", r.CoveragePct.Float64)
			}
			fmt.Fprintf(w, "%-20s %-7s %-10d %-8d %-9s %s\n",
				r.Timestamp, r.Outcome, r.Violations, r.Critical, coverage, r.RunID)
		}
		return nil
	},
}

var historyTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show per-day pass rate and violation trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		store, repo, cleanup, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		points, err := store.Trends(repo, days)
		if err != nil {
			return err
		}
		if len(points) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs in the window.")
			return nil
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-12s %-6s %-8s %-10s %s\n", "DAY", "RUNS", "BLOCKED", "PASS RATE", "AVG VIOLATIONS")
		fmt.Fprintln(w, strings.Repeat("-", 58))
		for _, p := range points {
			fmt.Fprintf(w, "%-12s %-6d %-8d %8.1f%%  %.1f\n",
				p.Day, p.Runs, p.Blocked, p.PassRate, p.AvgViolations)
		}
		return nil
	},
}

// openHistory opens the history store and resolves the repo key (cwd).
func openHistory(cmd *cobra.Command) (*history.Store, string, func(), error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		var err error
		dbPath, err = history.DefaultPath()
		if err != nil {
			return nil, "", nil, err
		}
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return nil, "", nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, "", nil, err
	}

	repo, err := os.Getwd()
	if err != nil {
		repo = "."
	}
	return store, repo, func() { store.Close() }, nil
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	historyListCmd.Flags().String("db", "", "Path to the history database")
	historyTrendsCmd.Flags().Int("days", 30, "Trend window in days")
	historyTrendsCmd.Flags().String("db", "", "Path to the history database")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyTrendsCmd)
}
