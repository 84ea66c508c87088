package gitlog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommitLog_Basic(t *testing.T) {
	raw := strings.Join([]string{
		"abc123|2024-01-15T10:30:00+08:00|feat: add parser",
		"10\t2\tcore/parser.go",
		"5\t0\tcore/parser_test.go",
		"def456|2024-01-16T22:05:00+08:00|fix: handle empty input",
		"1\t1\tcore/parser.go",
	}, "\n")

	commits := ParseCommitLog(raw)
	require.Len(t, commits, 2)

	first := commits[0]
	assert.Equal(t, "abc123", first.Hash)
	assert.Equal(t, "feat: add parser", first.Message)
	assert.Equal(t, 15, first.Insertions)
	assert.Equal(t, 2, first.Deletions)
	assert.Len(t, first.Files, 2)

	// The commit's own offset must survive parsing.
	_, offset := first.Timestamp.Zone()
	assert.Equal(t, 8*3600, offset)

	second := commits[1]
	assert.Equal(t, "def456", second.Hash)
	assert.Equal(t, 1, second.Insertions)
	assert.Equal(t, 1, second.Deletions)
}

func TestParseCommitLog_MessageContainsSeparator(t *testing.T) {
	raw := "abc123|2024-01-15T10:30:00Z|fix: a|b|c pipeline"

	commits := ParseCommitLog(raw)
	require.Len(t, commits, 1)
	assert.Equal(t, "fix: a|b|c pipeline", commits[0].Message)
}

func TestParseCommitLog_BinaryAndMalformedNumstat(t *testing.T) {
	raw := strings.Join([]string{
		"abc123|2024-01-15T10:30:00Z|chore: assets",
		"-\t-\tlogo.png",
		"garbage line without tabs",
		"3\t1\tmain.go",
	}, "\n")

	commits := ParseCommitLog(raw)
	require.Len(t, commits, 1)

	c := commits[0]
	assert.Equal(t, 3, c.Insertions)
	assert.Equal(t, 1, c.Deletions)
	require.Len(t, c.Files, 2, "binary line kept, malformed line dropped")
	assert.True(t, c.Files[0].Binary)
	assert.Zero(t, c.Files[0].Insertions)
}

func TestParseCommitLog_CommitWithoutNumstat(t *testing.T) {
	raw := strings.Join([]string{
		"abc123|2024-01-15T10:30:00Z|Merge branch 'main'",
		"def456|2024-01-16T11:00:00Z|docs: readme",
		"2\t0\tREADME.md",
	}, "\n")

	commits := ParseCommitLog(raw)
	require.Len(t, commits, 2)
	assert.Zero(t, commits[0].Insertions, "commit with no numstat still counts with zero lines")
	assert.Zero(t, commits[0].Deletions)
	assert.Empty(t, commits[0].Files)
}

func TestParseCommitLog_EmptyInput(t *testing.T) {
	assert.Empty(t, ParseCommitLog(""))
	assert.Empty(t, ParseCommitLog("\n\n"))
}

func TestParseCommitLog_PreservesInputOrder(t *testing.T) {
	raw := strings.Join([]string{
		"newer|2024-06-01T10:00:00Z|second",
		"older|2024-01-01T10:00:00Z|first",
	}, "\n")

	commits := ParseCommitLog(raw)
	require.Len(t, commits, 2)
	assert.Equal(t, "newer", commits[0].Hash, "parser gives no ordering guarantee beyond input preservation")
}

func TestParseHeader_InvalidDateIsNotAHeader(t *testing.T) {
	_, _, _, ok := parseHeader("abc|not-a-date|message")
	assert.False(t, ok)
}

func TestParseContributors(t *testing.T) {
	raw := strings.Join([]string{
		"Jane Doe|jane@example.com",
		"Alex Kim|alex@example.com",
		"Jane Doe|jane@example.com",
		"Jane Doe|jane@example.com",
		"Alex Kim|alex@example.com",
		"Sam Wu|sam@example.com",
	}, "\n")

	contributors := ParseContributors(raw)
	require.Len(t, contributors, 3)
	assert.Equal(t, "Jane Doe", contributors[0].Name)
	assert.Equal(t, 3, contributors[0].Commits)
	assert.Equal(t, "Alex Kim", contributors[1].Name)
	assert.Equal(t, 2, contributors[1].Commits)
	assert.Equal(t, 1, contributors[2].Commits)
}

func TestParseContributors_TieKeepsFirstSeenOrder(t *testing.T) {
	raw := "B Person|b@example.com\nA Person|a@example.com"

	contributors := ParseContributors(raw)
	require.Len(t, contributors, 2)
	assert.Equal(t, "B Person", contributors[0].Name)
}

func TestParseNameStatus(t *testing.T) {
	raw := strings.Join([]string{
		"A\tnew/file.go",
		"M\texisting.go",
		"D\tgone.go",
		"A\tnew/file.go", // same path twice, counts once
		"R100\told.go\tmoved.go",
		"",
	}, "\n")

	added, deleted := ParseNameStatus(raw)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, deleted)
}

func TestParseCommitLog_TimezoneArithmetic(t *testing.T) {
	raw := "abc|2024-03-10T23:45:00-05:00|late night"

	commits := ParseCommitLog(raw)
	require.Len(t, commits, 1)
	assert.Equal(t, 23, commits[0].Timestamp.Hour(),
		"hour must come from the recorded offset, not normalized UTC")
	assert.Equal(t, time.March, commits[0].Timestamp.Month())
}
