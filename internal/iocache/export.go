package iocache

import (
	"errors"
	"fmt"

	"github.com/codeyear/codeyear/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of report history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("report history is not enabled")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total report runs: %d\n", status.TotalRuns)
	fmt.Printf("Total repo records: %d\n", status.TotalRepos)

	// Retrieve all report runs
	reportRuns, err := store.GetAllReportRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}

	// Retrieve all per-repository stats
	repoStats, err := store.GetAllRepoStats()
	if err != nil {
		return fmt.Errorf("failed to retrieve repo stats: %w", err)
	}

	// Convert to Parquet format
	parquetReportRuns := parquet.ConvertReportRunRecords(reportRuns)
	parquetRepoStats := parquet.ConvertRepoStatsRecords(repoStats)

	// Write report runs to Parquet
	reportRunsFile := outputFile + ".report_runs.parquet"
	if err := parquet.WriteReportRunsParquet(parquetReportRuns, reportRunsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	fmt.Printf("Exported %d report runs to: %s\n", len(parquetReportRuns), reportRunsFile)

	// Write per-repository stats to Parquet
	repoStatsFile := outputFile + ".repo_stats.parquet"
	if err := parquet.WriteRepoStatsParquet(parquetRepoStats, repoStatsFile); err != nil {
		return fmt.Errorf("failed to write repo stats: %w", err)
	}
	fmt.Printf("Exported %d repo records to: %s\n", len(parquetRepoStats), repoStatsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
