package cmd

import (
	"fmt"
	"time"

	"github.com/codeyear/codeyear/core"
	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/internal/iocache"
	"github.com/codeyear/codeyear/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd builds the year-in-code report across all scanned repositories.
var reportCmd = &cobra.Command{
	Use:   "report [scan-root]",
	Short: "Build a year-in-code report for one author",
	Long: `Scan for Git repositories under the given root (default: current directory),
analyze each repository's commit history for the configured author and time
window, and merge everything into a single annual report.

The report covers:
- Commit, line, and file-churn totals
- Hour-of-day, weekday, monthly, and quarterly rhythm
- Streaks, gaps, and longest coding sessions
- Commit message keywords, emojis, and conventional commit types
- Achievements and a single annual title

Examples:
  # Report on the current year under ~/src
  codeyear report ~/src

  # Report on 2024 for a specific author, as JSON
  codeyear report --year 2024 --author "Ada Lovelace" --output json ~/src

  # Write an HTML chart page next to the text report
  codeyear report --chart-file year.html ~/src`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		runStart := time.Now()

		// Begin history tracking if a history backend is configured.
		var runID int64
		history := iocache.Manager.GetHistoryStore()
		if history != nil {
			var err error
			runID, err = history.BeginRun(runStart, map[string]any{
				"scan_root":    cfg.ScanRoot,
				"author":       cfg.Author,
				"window_start": cfg.GetWindowStart().Format(contract.DateTimeFormat),
				"window_end":   cfg.GetWindowEnd().Format(contract.DateTimeFormat),
				"workers":      cfg.Workers,
				"output":       string(cfg.Output),
			})
			if err != nil {
				contract.LogWarn("Failed to begin history run", err)
				history = nil
			}
		}

		client := contract.NewLocalGitClient()
		summary, repos, err := core.GetYearReport(rootCtx, cfg, client, iocache.Manager)
		if err != nil {
			return err
		}

		// History recording is best-effort and never fails the report.
		if history != nil {
			for _, stats := range repos {
				if err := history.RecordRepoStats(runID, stats); err != nil {
					contract.LogWarn("Failed to record repository stats", err)
				}
			}
			if err := history.RecordSummary(runID, summary); err != nil {
				contract.LogWarn("Failed to record summary", err)
			}
			if err := history.EndRun(runID, time.Now(), len(repos)); err != nil {
				contract.LogWarn("Failed to end history run", err)
			}
		}

		ow := outwriter.NewOutWriter()
		if err := ow.WriteReport(summary, repos, cfg, time.Since(runStart)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if cfg.ChartFile != "" {
			if err := ow.WriteCharts(summary, cfg.ChartFile); err != nil {
				return fmt.Errorf("failed to write charts: %w", err)
			}
		}

		return nil
	},
}
