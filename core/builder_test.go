package core_test

import (
	"testing"
	"time"

	"github.com/codeyear/codeyear/core"
	"github.com/codeyear/codeyear/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitAt(ts string, msg string, ins, del int) schema.Commit {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return schema.Commit{Hash: ts, Timestamp: t, Message: msg, Insertions: ins, Deletions: del}
}

func TestBuildRepoStatsNoCommits(t *testing.T) {
	_, err := core.BuildRepoStats(core.RepoInput{Name: "empty"})
	assert.ErrorIs(t, err, core.ErrNoCommits)
}

func TestBuildRepoStatsVolume(t *testing.T) {
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name:   "proj",
		Author: "alice",
		Commits: []schema.Commit{
			commitAt("2024-03-01T10:00:00Z", "feat: add parser", 100, 20),
			commitAt("2024-03-02T11:00:00Z", "fix: off by one", 5, 5),
		},
		Branches: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "proj", stats.Name)
	assert.Equal(t, 2, stats.Commits)
	assert.Equal(t, 105, stats.Insertions)
	assert.Equal(t, 25, stats.Deletions)
	assert.Equal(t, 80, stats.NetLines)
	assert.Equal(t, 3, stats.Branches)
	assert.Equal(t, 1, stats.HourDist[10])
	assert.Equal(t, 1, stats.HourDist[11])
	assert.Equal(t, schema.MonthStat{Commits: 2, Lines: 130}, stats.MonthlyTrend["2024-03"])
	assert.Equal(t, 2, stats.QuarterDist["Q1"])
}

func TestBuildRepoStatsHourBucketsUseCommitOffset(t *testing.T) {
	// 23:00+08:00 is 15:00 UTC; bucketing must see hour 23.
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name: "tz",
		Commits: []schema.Commit{
			commitAt("2024-05-01T23:00:00+08:00", "late push", 1, 0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.HourDist[23])
	assert.Equal(t, 1.0, stats.NightRate)
}

func TestBuildRepoStatsRates(t *testing.T) {
	// Saturday morning, weekday night, weekday afternoon.
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name: "rates",
		Commits: []schema.Commit{
			commitAt("2024-06-01T06:30:00Z", "sat morning", 1, 0),
			commitAt("2024-06-03T23:00:00Z", "mon night", 1, 0),
			commitAt("2024-06-04T03:00:00Z", "tue small hours", 1, 0),
			commitAt("2024-06-05T14:00:00Z", "wed afternoon", 1, 0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.25, stats.MorningRate)
	assert.Equal(t, 0.5, stats.NightRate) // 23:00 and 03:00
	assert.Equal(t, 0.25, stats.WeekendRate)
	assert.Equal(t, 1, stats.LateNightCommits) // only 03:00 is in 02:00-05:00
}

func TestBuildRepoStatsStreakAndGap(t *testing.T) {
	tests := []struct {
		name           string
		days           []string
		expectedStreak int
		expectedGap    int
	}{
		{"Single Day", []string{"2024-01-01"}, 0, 0},
		{"Two Distant Days", []string{"2024-01-01", "2024-01-10"}, 1, 8},
		{"Consecutive Days", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, 3, 0},
		{"Streak Then Gap", []string{"2024-01-01", "2024-01-02", "2024-01-05"}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var commits []schema.Commit
			for _, d := range tt.days {
				commits = append(commits, commitAt(d+"T12:00:00Z", "work", 1, 0))
			}
			stats, err := core.BuildRepoStats(core.RepoInput{Name: "streak", Commits: commits})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStreak, stats.LongestStreakDays)
			assert.Equal(t, tt.expectedGap, stats.LongestGapDays)
		})
	}
}

func TestBuildRepoStatsStreakMonotonicity(t *testing.T) {
	days := []string{"2024-02-01", "2024-02-02"}
	var commits []schema.Commit
	for _, d := range days {
		commits = append(commits, commitAt(d+"T09:00:00Z", "work", 1, 0))
	}
	before, err := core.BuildRepoStats(core.RepoInput{Name: "m", Commits: commits})
	require.NoError(t, err)

	commits = append(commits, commitAt("2024-02-03T09:00:00Z", "more work", 1, 0))
	after, err := core.BuildRepoStats(core.RepoInput{Name: "m", Commits: commits})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, after.LongestStreakDays, before.LongestStreakDays)
}

func TestBuildRepoStatsLongestSession(t *testing.T) {
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name: "session",
		Commits: []schema.Commit{
			commitAt("2024-04-10T09:00:00Z", "start", 1, 0),
			commitAt("2024-04-10T09:00:00Z", "same minute", 1, 0),
			commitAt("2024-04-10T17:30:00Z", "end of day", 1, 0),
			commitAt("2024-04-11T08:00:00Z", "lone commit, no session", 1, 0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 510, stats.LongestSessionMinutes)
}

func TestBuildRepoStatsAvgInterval(t *testing.T) {
	// Deltas of 2h and 4h, mean 3h. Input deliberately unsorted.
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name: "interval",
		Commits: []schema.Commit{
			commitAt("2024-01-01T16:00:00Z", "third", 1, 0),
			commitAt("2024-01-01T10:00:00Z", "first", 1, 0),
			commitAt("2024-01-01T12:00:00Z", "second", 1, 0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, stats.AvgCommitIntervalHours)
	assert.Equal(t, "first", stats.ShortestMessage) // shortest by runes
}

func TestBuildRepoStatsContent(t *testing.T) {
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name: "content",
		Commits: []schema.Commit{
			commitAt("2024-01-01T10:00:00Z", "feat(parser): add keyword parser!", 10, 0),
			commitAt("2024-01-02T10:00:00Z", "fix: parser panic?!", 2, 1),
			commitAt("2024-01-03T10:00:00Z", "Merge branch 'main' into dev", 0, 0),
			commitAt("2024-01-04T10:00:00Z", "Revert \"feat(parser): add keyword parser\"", 0, 10),
			commitAt("2024-01-05T10:00:00Z", "hotfix for prod outage \U0001F525", 300, 250),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.CommitTypes["feat"])
	assert.Equal(t, 1, stats.CommitTypes["fix"])
	assert.Equal(t, 1, stats.MergeCommits)
	assert.Equal(t, 1, stats.RevertCommits)
	assert.Equal(t, 1, stats.HotfixCommits)
	assert.Equal(t, 1, stats.BigRefactors) // 300+250 > 500
	assert.Equal(t, 2, stats.Exclamations)
	assert.Equal(t, 1, stats.Questions)
	assert.Equal(t, []schema.KeyCount{{Key: "\U0001F525", Count: 1}}, stats.TopEmoji)

	require.NotEmpty(t, stats.TopKeywords)
	assert.Equal(t, schema.KeyCount{Key: "parser", Count: 5}, stats.TopKeywords[0])
}

func TestBuildRepoStatsEmptySubjectIsShortest(t *testing.T) {
	// A bare "hash|date|" header parses to an empty message, which must win
	// the shortest slot and keep it against later short messages.
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name: "empty-subject",
		Commits: []schema.Commit{
			commitAt("2024-01-01T10:00:00Z", "abc", 1, 0),
			commitAt("2024-01-02T10:00:00Z", "", 1, 0),
			commitAt("2024-01-03T10:00:00Z", "xy", 1, 0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "", stats.ShortestMessage)
	assert.Equal(t, "abc", stats.LongestMessage)
}

func TestBuildRepoStatsFiles(t *testing.T) {
	commits := []schema.Commit{
		{
			Hash:      "a",
			Timestamp: mustTime("2024-01-01T10:00:00Z"),
			Message:   "touch things",
			Files: []schema.FileChange{
				{Path: "main.go", Insertions: 5},
				{Path: "docs/README", Insertions: 1},
			},
		},
		{
			Hash:      "b",
			Timestamp: mustTime("2024-01-02T10:00:00Z"),
			Message:   "touch again",
			Files: []schema.FileChange{
				{Path: "main.go", Deletions: 2},
				{Path: "util.py", Insertions: 3},
			},
		},
	}

	stats, err := core.BuildRepoStats(core.RepoInput{Name: "files", Commits: commits})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.FilesChanged)
	assert.Equal(t, schema.KeyCount{Key: "main.go", Count: 2}, stats.TopFiles[0])
	assert.Equal(t, []schema.KeyCount{
		{Key: "go", Count: 2},
		{Key: "README", Count: 1}, // extensionless files keep their base name
		{Key: "py", Count: 1},
	}, stats.TopExtensions)
}

func TestBuildRepoStatsCollaborators(t *testing.T) {
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name:    "collab",
		Author:  "Alice",
		Commits: []schema.Commit{commitAt("2024-01-01T10:00:00Z", "work", 1, 0)},
		Contributors: []schema.Contributor{
			{Name: "Alice Smith", Email: "alice@example.com", Commits: 50},
			{Name: "Bob", Email: "bob@example.com", Commits: 30},
			{Name: "Carol", Email: "carol@example.com", Commits: 10},
		},
	})
	require.NoError(t, err)

	// The author is excluded by case-insensitive substring match.
	require.Len(t, stats.Collaborators, 2)
	assert.Equal(t, "Bob", stats.Collaborators[0].Name)
	assert.Equal(t, "Carol", stats.Collaborators[1].Name)
}

func TestBuildRepoStatsClockWinners(t *testing.T) {
	stats, err := core.BuildRepoStats(core.RepoInput{
		Name: "clock",
		Commits: []schema.Commit{
			commitAt("2024-01-01T05:45:00+09:00", "earliest by local clock", 1, 0),
			commitAt("2024-01-02T23:50:00-05:00", "latest by local clock", 1, 0),
			commitAt("2024-01-03T12:00:00Z", "midday", 1, 0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 5*60+45, schema.ClockMinutes(stats.EarliestClock))
	assert.Equal(t, 23*60+50, schema.ClockMinutes(stats.LatestClock))
}

func TestBuildRepoStatsBadges(t *testing.T) {
	// Seven consecutive active days, all at 23:00.
	var commits []schema.Commit
	for day := 1; day <= 7; day++ {
		ts := time.Date(2024, 7, day, 23, 0, 0, 0, time.UTC)
		commits = append(commits, schema.Commit{Hash: ts.String(), Timestamp: ts, Message: "night work"})
	}
	stats, err := core.BuildRepoStats(core.RepoInput{Name: "badges", Commits: commits})
	require.NoError(t, err)

	names := badgeNames(stats.Badges)
	assert.Contains(t, names, "Night Owl")
	assert.Contains(t, names, "Streak Keeper")
	assert.NotContains(t, names, "Early Riser")
}

func mustTime(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return t
}

func badgeNames(badges []schema.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}
