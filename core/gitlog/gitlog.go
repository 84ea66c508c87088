// Package gitlog parses the raw text streams produced by the git binary.
package gitlog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/codeyear/codeyear/schema"
)

// fieldSep separates hash, date and message on a commit header line. The
// message may legitimately contain the separator, so only the first two
// occurrences act as field boundaries.
const fieldSep = "|"

// ParseCommitLog turns a raw commit-history stream into structured commit
// records. The stream is repeated blocks of one header line
// (hash|ISO8601-date|message) followed by zero or more numstat lines
// (insertions<TAB>deletions<TAB>path). Malformed lines are skipped without
// aborting the parse. Input order is preserved; callers that need
// chronological order must sort by timestamp themselves.
func ParseCommitLog(raw string) []schema.Commit {
	var commits []schema.Commit
	var current *schema.Commit

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if hash, ts, msg, ok := parseHeader(line); ok {
			if current != nil {
				commits = append(commits, *current)
			}
			current = &schema.Commit{Hash: hash, Timestamp: ts, Message: msg}
			continue
		}

		if current == nil {
			continue // numstat noise before any header
		}
		fc, ok := parseNumstat(line)
		if !ok {
			continue
		}
		current.Files = append(current.Files, fc)
		current.Insertions += fc.Insertions
		current.Deletions += fc.Deletions
	}

	if current != nil {
		commits = append(commits, *current)
	}
	return commits
}

// parseHeader extracts hash, timestamp and message from a header line.
// A line counts as a header only when it carries both separators and its
// date field parses; everything else falls through to numstat handling.
func parseHeader(line string) (string, time.Time, string, bool) {
	if !strings.Contains(line, fieldSep) {
		return "", time.Time{}, "", false
	}
	parts := strings.SplitN(line, fieldSep, 3)
	if len(parts) != 3 {
		return "", time.Time{}, "", false
	}
	// RFC3339 keeps the commit's own UTC offset, which downstream
	// hour-of-day bucketing depends on.
	ts, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return "", time.Time{}, "", false
	}
	return parts[0], ts, parts[2], true
}

// parseNumstat parses one insertions<TAB>deletions<TAB>path line. A literal
// "-" in either count marks a binary file and contributes zero lines.
func parseNumstat(line string) (schema.FileChange, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return schema.FileChange{}, false
	}

	fc := schema.FileChange{Path: parts[2]}
	if parts[0] == "-" || parts[1] == "-" {
		fc.Binary = true
		return fc, true
	}

	ins, err := strconv.Atoi(parts[0])
	if err != nil || ins < 0 {
		return schema.FileChange{}, false
	}
	del, err := strconv.Atoi(parts[1])
	if err != nil || del < 0 {
		return schema.FileChange{}, false
	}
	fc.Insertions = ins
	fc.Deletions = del
	return fc, true
}

// ParseContributors turns a flat contributor listing (one name|email line per
// commit) into contributors ranked by commit count, descending. Ties keep
// first-seen order.
func ParseContributors(raw string) []schema.Contributor {
	counts := make(map[string]int)
	var order []string
	names := make(map[string]schema.Contributor)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, fieldSep, 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(parts[1]) + "\x00" + parts[0]
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			names[key] = schema.Contributor{Name: parts[0], Email: parts[1]}
		}
		counts[key]++
	}

	contributors := make([]schema.Contributor, 0, len(order))
	for _, key := range order {
		c := names[key]
		c.Commits = counts[key]
		contributors = append(contributors, c)
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Commits > contributors[j].Commits
	})
	return contributors
}

// ParseNameStatus counts added and deleted files from a status-based diff
// listing (lines of "A<TAB>path" / "D<TAB>path"). Other statuses, including
// renames, do not contribute. Each path counts once.
func ParseNameStatus(raw string) (added, deleted int) {
	addedSet := make(map[string]struct{})
	deletedSet := make(map[string]struct{})

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "A":
			addedSet[parts[1]] = struct{}{}
		case "D":
			deletedSet[parts[1]] = struct{}{}
		}
	}
	return len(addedSet), len(deletedSet)
}
