package core_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codeyear/codeyear/core"
	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/internal/iocache"
	"github.com/codeyear/codeyear/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeGitClient serves canned streams keyed by repository path.
type fakeGitClient struct {
	commitLogs      map[string]string
	contributorLogs map[string]string
	nameStatusLogs  map[string]string
	branchCounts    map[string]int
}

func (f *fakeGitClient) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return nil, nil
}

func (f *fakeGitClient) IsRepo(_ context.Context, _ string) bool { return true }

func (f *fakeGitClient) CommitLog(_ context.Context, repoPath, _ string, _, _ time.Time) ([]byte, error) {
	return []byte(f.commitLogs[repoPath]), nil
}

func (f *fakeGitClient) ContributorLog(_ context.Context, repoPath string, _, _ time.Time) ([]byte, error) {
	return []byte(f.contributorLogs[repoPath]), nil
}

func (f *fakeGitClient) NameStatusLog(_ context.Context, repoPath, _ string, _, _ time.Time) ([]byte, error) {
	return []byte(f.nameStatusLogs[repoPath]), nil
}

func (f *fakeGitClient) BranchCount(_ context.Context, repoPath string) (int, error) {
	return f.branchCounts[repoPath], nil
}

func makeScanRoot(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name, ".git"), 0o755))
	}
	return root
}

func reportConfig(root string) *contract.Config {
	return &contract.Config{
		ScanRoot:  root,
		Author:    "alice",
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ScanDepth: 3,
		Workers:   2,
	}
}

func TestGetYearReport(t *testing.T) {
	root := makeScanRoot(t, "cache", "parser")
	cfg := reportConfig(root)

	client := &fakeGitClient{
		commitLogs: map[string]string{
			filepath.Join(root, "parser"): "aaa|2024-03-01T10:00:00Z|feat: parser rewrite\n" +
				"100\t20\tcore/parser.go\n" +
				"bbb|2024-03-02T11:00:00Z|fix: parser edge case\n" +
				"5\t1\tcore/parser.go\n",
			filepath.Join(root, "cache"): "ccc|2024-04-01T23:30:00Z|feat: cache layer\n" +
				"50\t10\tinternal/cache.go\n",
		},
		contributorLogs: map[string]string{
			filepath.Join(root, "parser"): "alice|alice@example.com\nBob|bob@example.com\n",
			filepath.Join(root, "cache"):  "alice|alice@example.com\n",
		},
		nameStatusLogs: map[string]string{
			filepath.Join(root, "parser"): "A\tcore/parser.go\n",
			filepath.Join(root, "cache"):  "A\tinternal/cache.go\n",
		},
		branchCounts: map[string]int{
			filepath.Join(root, "parser"): 2,
			filepath.Join(root, "cache"):  1,
		},
	}

	summary, repos, err := core.GetYearReport(context.Background(), cfg, client, nil)
	require.NoError(t, err)
	require.Len(t, repos, 2)

	// Discovery order is sorted, so cache comes first
	assert.Equal(t, "cache", repos[0].Name)
	assert.Equal(t, "parser", repos[1].Name)

	assert.Equal(t, 2, summary.RepoCount)
	assert.Equal(t, 3, summary.TotalCommits)
	assert.Equal(t, 155, summary.TotalInsertions)
	assert.Equal(t, 31, summary.TotalDeletions)
	assert.Equal(t, 3, summary.TotalBranches)
	assert.Equal(t, 2, summary.FilesAdded)

	// parser leads the ranking with two commits
	require.NotEmpty(t, summary.TopRepos)
	assert.Equal(t, "parser", summary.TopRepos[0].Name)

	// Bob shows up as a collaborator, alice herself does not
	require.Len(t, summary.TopCollaborators, 1)
	assert.Equal(t, "Bob", summary.TopCollaborators[0].Name)
}

func TestGetYearReportSkipsEmptyRepos(t *testing.T) {
	root := makeScanRoot(t, "active", "idle")
	cfg := reportConfig(root)

	client := &fakeGitClient{
		commitLogs: map[string]string{
			filepath.Join(root, "active"): "aaa|2024-03-01T10:00:00Z|feat: something\n3\t1\tmain.go\n",
			filepath.Join(root, "idle"):   "",
		},
		contributorLogs: map[string]string{
			filepath.Join(root, "active"): "alice|alice@example.com\n",
		},
		nameStatusLogs: map[string]string{},
		branchCounts:   map[string]int{},
	}

	summary, repos, err := core.GetYearReport(context.Background(), cfg, client, nil)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "active", repos[0].Name)
	assert.Equal(t, 1, summary.RepoCount)
}

func TestGetYearReportNoRepos(t *testing.T) {
	cfg := reportConfig(t.TempDir())

	_, _, err := core.GetYearReport(context.Background(), cfg, &fakeGitClient{}, nil)
	assert.Error(t, err)
}

func TestGetYearReportCacheHit(t *testing.T) {
	root := makeScanRoot(t, "parser")
	cfg := reportConfig(root)

	cached := &schema.RepoStats{
		Name:        "parser",
		Commits:     9,
		Insertions:  90,
		Deletions:   10,
		NetLines:    80,
		HourDist:    [24]int{10: 9},
		FirstCommit: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		LastCommit:  time.Date(2024, 2, 9, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(data, 1, time.Now().Unix(), nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatsStore").Return(store)

	// The client serves nothing; a hit means git is never consulted
	client := &fakeGitClient{}

	summary, repos, err := core.GetYearReport(context.Background(), cfg, client, mgr)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, 9, summary.TotalCommits)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetYearReportStaleCacheRecomputes(t *testing.T) {
	root := makeScanRoot(t, "parser")
	cfg := reportConfig(root)

	stale := time.Now().Add(-8 * 24 * time.Hour).Unix()
	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte("{}"), 1, stale, nil)
	store.On("Set", mock.Anything, mock.Anything, 1, mock.Anything).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatsStore").Return(store)

	client := &fakeGitClient{
		commitLogs: map[string]string{
			filepath.Join(root, "parser"): "aaa|2024-03-01T10:00:00Z|feat: fresh\n3\t1\tmain.go\n",
		},
		contributorLogs: map[string]string{},
		nameStatusLogs:  map[string]string{},
		branchCounts:    map[string]int{},
	}

	summary, _, err := core.GetYearReport(context.Background(), cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalCommits)
	store.AssertCalled(t, "Set", mock.Anything, mock.Anything, 1, mock.Anything)
}

func TestGetYearReportCacheMissError(t *testing.T) {
	root := makeScanRoot(t, "parser")
	cfg := reportConfig(root)

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte(nil), 0, int64(0), sql.ErrNoRows)
	store.On("Set", mock.Anything, mock.Anything, 1, mock.Anything).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatsStore").Return(store)

	client := &fakeGitClient{
		commitLogs: map[string]string{
			filepath.Join(root, "parser"): "aaa|2024-03-01T10:00:00Z|feat: fresh\n3\t1\tmain.go\n",
		},
		contributorLogs: map[string]string{},
		nameStatusLogs:  map[string]string{},
		branchCounts:    map[string]int{},
	}

	summary, _, err := core.GetYearReport(context.Background(), cfg, client, mgr)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalCommits)
}
