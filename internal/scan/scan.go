// Package scan discovers Git repositories under a directory tree.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codeyear/codeyear/internal/contract"
)

// FindRepos walks the tree under root and returns every Git repository found,
// up to maxDepth directory levels deep. A repository's own subtree is not
// descended into, so nested repositories under a parent repo are not reported
// twice. Results come back sorted for reproducible report ordering.
func FindRepos(ctx context.Context, root string, maxDepth int, excludes []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var repos []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			if os.IsPermission(err) {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if rel != "." {
			name := d.Name()
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if contract.ShouldIgnore(filepath.ToSlash(rel)+"/", excludes) {
				return fs.SkipDir
			}
			if strings.Count(filepath.ToSlash(rel), "/")+1 > maxDepth {
				return fs.SkipDir
			}
		}

		if isRepoRoot(path) {
			repos = append(repos, path)
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(repos)
	return repos, nil
}

// isRepoRoot checks for a .git entry directly; a full git invocation per
// directory would dominate the scan time on large trees.
func isRepoRoot(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	// Worktrees and submodules keep a .git file instead of a directory.
	return info.IsDir() || info.Mode().IsRegular()
}

// RepoName returns the display name for a repository path.
func RepoName(path string) string {
	return filepath.Base(path)
}
