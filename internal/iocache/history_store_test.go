package iocache_test

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/internal/iocache"
	"github.com/codeyear/codeyear/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteHistoryStore(t *testing.T) contract.HistoryStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := iocache.NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHistoryStoreFullRun(t *testing.T) {
	store := newSQLiteHistoryStore(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, map[string]any{"author": "alice", "depth": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	stats := &schema.RepoStats{
		Name:              "parser",
		Commits:           42,
		Insertions:        1200,
		Deletions:         300,
		NetLines:          900,
		LongestStreakDays: 5,
		NightRate:         0.25,
	}
	require.NoError(t, store.RecordRepoStats(runID, stats))

	summary := &schema.GlobalSummary{Author: "alice", RepoCount: 1, TotalCommits: 42}
	require.NoError(t, store.RecordSummary(runID, summary))

	require.NoError(t, store.EndRun(runID, start.Add(3*time.Second), 1))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 1, status.TotalRepos)
	assert.True(t, status.LastRunTime.Equal(start))
}

func TestHistoryStoreEndRunDuration(t *testing.T) {
	store := newSQLiteHistoryStore(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(runID, start.Add(1500*time.Millisecond), 2))

	runs, err := store.GetAllReportRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int64(1500), *runs[0].RunDurationMs)
	require.NotNil(t, runs[0].TotalRepos)
	assert.Equal(t, 2, *runs[0].TotalRepos)
}

func TestHistoryStoreGetAllRepoStats(t *testing.T) {
	store := newSQLiteHistoryStore(t)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, nil)
	require.NoError(t, err)

	for _, stats := range []*schema.RepoStats{
		{Name: "cache", Commits: 7, NightRate: 0.5},
		{Name: "parser", Commits: 3, NightRate: 0.1},
	} {
		require.NoError(t, store.RecordRepoStats(runID, stats))
	}

	records, err := store.GetAllRepoStats()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "cache", records[0].RepoName)
	assert.Equal(t, 7, records[0].Commits)
	assert.InDelta(t, 0.5, records[0].NightRate, 1e-9)

	// The full stats survive the JSON round trip
	var restored schema.RepoStats
	require.NoError(t, json.Unmarshal([]byte(records[0].StatsJSON), &restored))
	assert.Equal(t, "cache", restored.Name)
	assert.Equal(t, 7, restored.Commits)
}

func TestHistoryStoreMultipleRuns(t *testing.T) {
	store := newSQLiteHistoryStore(t)

	first := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 7)

	firstID, err := store.BeginRun(first, nil)
	require.NoError(t, err)
	secondID, err := store.BeginRun(second, nil)
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, secondID, status.LastRunID)
	assert.True(t, status.OldestRunTime.Equal(first))
	assert.True(t, status.LastRunTime.Equal(second))
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := iocache.NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	require.NoError(t, store.RecordRepoStats(runID, &schema.RepoStats{Name: "x"}))
	require.NoError(t, store.RecordSummary(runID, &schema.GlobalSummary{}))
	require.NoError(t, store.EndRun(runID, time.Now(), 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}
