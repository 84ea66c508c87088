package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
// The child process is killed when the context is cancelled.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// IsRepo implements the GitClient interface.
func (c *LocalGitClient) IsRepo(ctx context.Context, path string) bool {
	out, err := c.Run(ctx, path, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// CommitLog implements the GitClient interface.
func (c *LocalGitClient) CommitLog(ctx context.Context, repoPath, author string, start, end time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--numstat",
		"--pretty=format:%H|%aI|%s",
		"--author=" + author,
		"-i",
	}
	args = appendWindowArgs(args, start, end)
	return c.Run(ctx, repoPath, args...)
}

// ContributorLog implements the GitClient interface.
func (c *LocalGitClient) ContributorLog(ctx context.Context, repoPath string, start, end time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--pretty=format:%an|%ae",
	}
	args = appendWindowArgs(args, start, end)
	return c.Run(ctx, repoPath, args...)
}

// NameStatusLog implements the GitClient interface.
func (c *LocalGitClient) NameStatusLog(ctx context.Context, repoPath, author string, start, end time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--name-status",
		"--diff-filter=AD",
		"--pretty=format:",
		"--author=" + author,
		"-i",
	}
	args = appendWindowArgs(args, start, end)
	return c.Run(ctx, repoPath, args...)
}

// BranchCount implements the GitClient interface.
func (c *LocalGitClient) BranchCount(ctx context.Context, repoPath string) (int, error) {
	out, err := c.Run(ctx, repoPath, "branch", "--list", "--format=%(refname:short)")
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return 0, nil
	}
	return len(strings.Split(trimmed, "\n")), nil
}

func appendWindowArgs(args []string, start, end time.Time) []string {
	if !start.IsZero() {
		args = append(args, "--since="+start.Format(DateTimeFormat))
	}
	if !end.IsZero() {
		args = append(args, "--until="+end.Format(DateTimeFormat))
	}
	return args
}
