// Package parquet provides data structures and functions for exporting
// report history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/codeyear/codeyear/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun represents a single report run with metadata.
// This struct maps to the codeyear_report_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this report run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRepos is the number of repositories covered by this run (nullable)
	TotalRepos *int32 `parquet:"total_repos,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RepoStatsRow represents one repository's headline numbers within a run.
// This struct maps to the codeyear_repo_stats database table.
type RepoStatsRow struct {
	// RunID references the parent report run
	RunID int64 `parquet:"run_id,snappy"`

	// RepoName is the short name of the repository
	RepoName string `parquet:"repo_name,snappy"`

	// Commits is the number of matching commits in the window
	Commits int32 `parquet:"commits,snappy"`

	// Insertions is the total lines added
	Insertions int32 `parquet:"insertions,snappy"`

	// Deletions is the total lines removed
	Deletions int32 `parquet:"deletions,snappy"`

	// NetLines is insertions minus deletions
	NetLines int32 `parquet:"net_lines,snappy"`

	// LongestStreakDays is the longest run of consecutive active days
	LongestStreakDays int32 `parquet:"longest_streak_days,snappy"`

	// NightRate is the share of commits landing at night
	NightRate float64 `parquet:"night_rate,snappy"`

	// StatsJSON is the full JSON-encoded statistics struct
	StatsJSON string `parquet:"stats_json,snappy"`
}

// WriteReportRunsParquet writes a slice of ReportRun structs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the ReportRun struct tags
	writer := parquet.NewGenericWriter[ReportRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRepoStatsParquet writes a slice of RepoStatsRow structs to a Parquet file.
func WriteRepoStatsParquet(data []RepoStatsRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the RepoStatsRow struct tags
	writer := parquet.NewGenericWriter[RepoStatsRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		var totalRepos *int32
		if record.TotalRepos != nil {
			v := int32(*record.TotalRepos)
			totalRepos = &v
		}
		result[i] = ReportRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRepos:    totalRepos,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRepoStats converts live schema.RepoStats values to RepoStatsRow for
// direct report output. RunID stays zero because these rows belong to no
// recorded run.
func ConvertRepoStats(repos []*schema.RepoStats) ([]RepoStatsRow, error) {
	result := make([]RepoStatsRow, len(repos))
	for i, stats := range repos {
		statsJSON, err := json.Marshal(stats)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal stats for %s: %w", stats.Name, err)
		}
		result[i] = RepoStatsRow{
			RepoName:          stats.Name,
			Commits:           int32(stats.Commits),
			Insertions:        int32(stats.Insertions),
			Deletions:         int32(stats.Deletions),
			NetLines:          int32(stats.NetLines),
			LongestStreakDays: int32(stats.LongestStreakDays),
			NightRate:         stats.NightRate,
			StatsJSON:         string(statsJSON),
		}
	}
	return result, nil
}

// ConvertRepoStatsRecords converts schema.RepoStatsRecord to RepoStatsRow for Parquet export.
func ConvertRepoStatsRecords(records []schema.RepoStatsRecord) []RepoStatsRow {
	result := make([]RepoStatsRow, len(records))
	for i, record := range records {
		result[i] = RepoStatsRow{
			RunID:             record.RunID,
			RepoName:          record.RepoName,
			Commits:           int32(record.Commits),
			Insertions:        int32(record.Insertions),
			Deletions:         int32(record.Deletions),
			NetLines:          int32(record.NetLines),
			LongestStreakDays: int32(record.LongestStreakDays),
			NightRate:         record.NightRate,
			StatsJSON:         record.StatsJSON,
		}
	}
	return result
}
