// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/codeyear/codeyear/schema"
)

// GitClient defines the necessary operations for commit-history analysis.
// This allows the report pipeline to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// IsRepo reports whether the given directory is a Git repository root.
	IsRepo(ctx context.Context, path string) bool

	// CommitLog returns the raw commit-history stream for one author:
	// hash|date|subject header lines followed by numstat lines.
	CommitLog(ctx context.Context, repoPath, author string, start, end time.Time) ([]byte, error)

	// ContributorLog returns the flat name|email listing of every commit
	// in the window, across all authors.
	ContributorLog(ctx context.Context, repoPath string, start, end time.Time) ([]byte, error)

	// NameStatusLog returns the name-status diff stream used to count
	// files the author added and deleted in the window.
	NameStatusLog(ctx context.Context, repoPath, author string, start, end time.Time) ([]byte, error)

	// BranchCount returns the number of local branches.
	BranchCount(ctx context.Context, repoPath string) (int, error)
}

// CacheManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetStatsStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cached per-repository statistics.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs over time.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, repoCount int) error

	// RecordRepoStats stores one repository's statistics under a run
	RecordRepoStats(runID int64, stats *schema.RepoStats) error

	// RecordSummary stores the merged summary for a run
	RecordSummary(runID int64, summary *schema.GlobalSummary) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllReportRuns reads every recorded run, oldest first
	GetAllReportRuns() ([]schema.ReportRunRecord, error)

	// GetAllRepoStats reads every per-repository row, oldest run first
	GetAllRepoStats() ([]schema.RepoStatsRecord, error)

	// Close closes the underlying connection
	Close() error
}
