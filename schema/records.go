package schema

import "time"

// ReportRunRecord represents a row from the report runs table.
type ReportRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	TotalRepos    *int
	ConfigParams  *string
}

// RepoStatsRecord represents a row from the per-repository stats table.
// StatsJSON carries the full RepoStats payload; the flat columns exist so
// SQL consumers can query the headline numbers without JSON functions.
type RepoStatsRecord struct {
	RunID             int64
	RepoName          string
	Commits           int
	Insertions        int
	Deletions         int
	NetLines          int
	LongestStreakDays int
	NightRate         float64
	StatsJSON         string
}
