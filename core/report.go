package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codeyear/codeyear/core/gitlog"
	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/internal/scan"
	"github.com/codeyear/codeyear/schema"
)

// statsCacheVersion defines the version of the cached RepoStats payload.
// Bump it whenever the stats shape or its semantics change.
const statsCacheVersion = 1

// statsCacheMaxAge bounds how long a cached entry stays usable.
const statsCacheMaxAge = 7 * 24 * time.Hour

// GetYearReport runs the whole report pipeline: discover repositories under
// the scan root, analyze each one concurrently, and merge the survivors into
// a single summary. Repositories with no qualifying commits are dropped
// without failing the run.
func GetYearReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*schema.GlobalSummary, []*schema.RepoStats, error) {
	repoPaths, err := scan.FindRepos(ctx, cfg.ScanRoot, cfg.ScanDepth, cfg.Excludes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", cfg.ScanRoot, err)
	}
	if len(repoPaths) == 0 {
		return nil, nil, fmt.Errorf("no repositories found under %s", cfg.ScanRoot)
	}

	repos := analyzeRepos(ctx, cfg, client, mgr, repoPaths)

	summary, err := MergeAll(repos, cfg.Author, cfg.GetWindowStart(), cfg.GetWindowEnd())
	if err != nil {
		return nil, nil, err
	}
	return summary, repos, nil
}

// GetRepoStats analyzes a single repository through the stats cache.
func GetRepoStats(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repoPath string) (*schema.RepoStats, error) {
	return analyzeRepo(ctx, cfg, client, mgr, repoPath)
}

// FindRepoPaths discovers repository roots under the configured scan root.
func FindRepoPaths(ctx context.Context, cfg *contract.Config) ([]string, error) {
	return scan.FindRepos(ctx, cfg.ScanRoot, cfg.ScanDepth, cfg.Excludes)
}

// analyzeRepos processes all repositories in parallel using a worker pool.
// Results keep the sorted discovery order so every downstream tie-break is
// reproducible across runs.
func analyzeRepos(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repoPaths []string) []*schema.RepoStats {
	type indexedStats struct {
		idx   int
		stats *schema.RepoStats
	}

	pathCh := make(chan int, len(repoPaths))
	resultCh := make(chan indexedStats, len(repoPaths))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for idx := range pathCh {
				stats, err := analyzeRepo(ctx, cfg, client, mgr, repoPaths[idx])
				if err != nil {
					if !errors.Is(err, ErrNoCommits) {
						contract.LogWarn(fmt.Sprintf("skipping %s", repoPaths[idx]), err)
					}
					continue
				}
				resultCh <- indexedStats{idx: idx, stats: stats}
			}
		})
	}

	for idx := range repoPaths {
		pathCh <- idx
	}
	close(pathCh)

	wg.Wait()
	close(resultCh)

	ordered := make([]*schema.RepoStats, len(repoPaths))
	for r := range resultCh {
		ordered[r.idx] = r.stats
	}

	repos := make([]*schema.RepoStats, 0, len(repoPaths))
	for _, stats := range ordered {
		if stats != nil {
			repos = append(repos, stats)
		}
	}
	return repos
}

// analyzeRepo computes the statistics for one repository, going through the
// stats cache when one is configured.
func analyzeRepo(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, repoPath string) (*schema.RepoStats, error) {
	name := scan.RepoName(repoPath)

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetStatsStore()
	}
	key := statsCacheKey(cfg, name)

	if stats := checkStatsCacheHit(store, key); stats != nil {
		return stats, nil
	}

	stats, err := computeRepoStats(ctx, cfg, client, repoPath, name)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = store.Set(key, data, statsCacheVersion, time.Now().Unix())
		}
	}
	return stats, nil
}

// checkStatsCacheHit attempts to retrieve and validate a cached result.
func checkStatsCacheHit(store contract.CacheStore, key string) *schema.RepoStats {
	if store == nil {
		return nil
	}

	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != statsCacheVersion {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > statsCacheMaxAge {
		return nil // Stale
	}

	var stats schema.RepoStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil
	}
	return &stats
}

// computeRepoStats gathers the raw git streams for one repository and builds
// its statistics.
func computeRepoStats(ctx context.Context, cfg *contract.Config, client contract.GitClient, repoPath, name string) (*schema.RepoStats, error) {
	start, end := cfg.GetWindowStart(), cfg.GetWindowEnd()

	rawLog, err := client.CommitLog(ctx, repoPath, cfg.Author, start, end)
	if err != nil {
		return nil, fmt.Errorf("commit log failed: %w", err)
	}
	commits := gitlog.ParseCommitLog(string(rawLog))
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}

	rawContributors, err := client.ContributorLog(ctx, repoPath, start, end)
	if err != nil {
		return nil, fmt.Errorf("contributor log failed: %w", err)
	}
	contributors := gitlog.ParseContributors(string(rawContributors))

	rawNameStatus, err := client.NameStatusLog(ctx, repoPath, cfg.Author, start, end)
	if err != nil {
		return nil, fmt.Errorf("name-status log failed: %w", err)
	}
	added, deleted := gitlog.ParseNameStatus(string(rawNameStatus))

	branches, err := client.BranchCount(ctx, repoPath)
	if err != nil {
		branches = 0 // Branch count is cosmetic, never fatal
	}

	return BuildRepoStats(RepoInput{
		Name:         name,
		Author:       cfg.Author,
		Commits:      commits,
		Contributors: contributors,
		Branches:     branches,
		FilesAdded:   added,
		FilesDeleted: deleted,
	})
}

// statsCacheKey creates a unique key based on the analysis parameters. The
// window boundaries are already truncated to cache granularity, so repeated
// runs within the same hour share entries.
func statsCacheKey(cfg *contract.Config, repoName string) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|v%d",
		repoName,
		cfg.Author,
		cfg.GetWindowStart().UTC().Format(time.RFC3339),
		cfg.GetWindowEnd().UTC().Format(time.RFC3339),
		statsCacheVersion)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}
