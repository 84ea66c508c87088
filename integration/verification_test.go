//go:build integration

// Package integration contains integration tests for codeyear.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededCommit describes one commit written into the scratch repository.
type seededCommit struct {
	date    string
	message string
	file    string
	content string
}

// TestReportVerification seeds a scratch repository with known commits, runs a
// JSON report over it, and cross-checks the totals against raw git output.
func TestReportVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	root := t.TempDir()
	repoDir := filepath.Join(root, "scratch")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))

	runGit(t, repoDir, "init")
	runGit(t, repoDir, "config", "user.name", "Integration Bot")
	runGit(t, repoDir, "config", "user.email", "bot@example.com")

	commits := []seededCommit{
		{"2024-01-15T09:30:00", "feat: add parser skeleton", "parser.go", "package parser\n"},
		{"2024-01-16T23:45:00", "fix: handle empty input", "parser.go", "package parser\n\nfunc Parse() {}\n"},
		{"2024-02-02T14:10:00", "docs: describe usage", "README.md", "# scratch\n\nUsage notes.\n"},
		{"2024-02-03T07:05:00", "refactor: split helpers", "helpers.go", "package parser\n\nfunc helper() {}\n"},
	}
	for _, c := range commits {
		writeAndCommit(t, repoDir, c)
	}

	// Build the binary from the project root.
	binPath := filepath.Join(root, "codeyear")
	buildCmd := exec.Command("go", "build", "-o", binPath, ".")
	buildCmd.Dir = ".."
	require.NoError(t, buildCmd.Run())

	// Run a JSON report scoped to 2024 for the seeded author.
	cmd := exec.Command(binPath, "report",
		"--author", "Integration Bot",
		"--year", "2024",
		"--output", "json",
		"--cache-backend", "none",
		root)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	require.NoError(t, cmd.Run())

	var summary struct {
		RepoCount    int `json:"repoCount"`
		TotalCommits int `json:"totalCommits"`
		MaxGapDays   int `json:"maxGapDays"`
		CommitTypes  map[string]int
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))

	assert.Equal(t, 1, summary.RepoCount)
	assert.Equal(t, len(commits), summary.TotalCommits)

	// Cross-check the commit count against raw git.
	out := runGit(t, repoDir, "rev-list", "--count",
		"--author=Integration Bot",
		"--since=2024-01-01T00:00:00",
		"--until=2025-01-01T00:00:00",
		"HEAD")
	gitCount, err := strconv.Atoi(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, gitCount, summary.TotalCommits)
}

// writeAndCommit writes one file revision and commits it with a fixed
// author and committer date so time analytics are reproducible.
func writeAndCommit(t *testing.T, repoDir string, c seededCommit) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, c.file), []byte(c.content), 0o644))
	runGit(t, repoDir, "add", ".")

	cmd := exec.Command("git", "commit", "-m", c.message)
	cmd.Dir = repoDir
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("GIT_AUTHOR_DATE=%s", c.date),
		fmt.Sprintf("GIT_COMMITTER_DATE=%s", c.date),
	)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git commit failed: %s", string(output))
}

// runGit runs a git command in the given directory and returns its stdout.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	require.NoError(t, err, "git %s failed", strings.Join(args, " "))
	return string(output)
}
