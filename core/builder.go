package core

import (
	"path/filepath"
	"sort"

	"github.com/codeyear/codeyear/schema"
)

// Per-repository ranking sizes.
const (
	topKeywordLimit      = 10
	topEmojiLimit        = 10
	topFileLimit         = 10
	topExtensionLimit    = 10
	topCollaboratorLimit = 10
)

// RepoInput bundles everything the metrics builder needs for one repository:
// the parsed commit records of the target author, the full contributor
// listing for the same window, and the identity used to exclude the author
// from collaborator rankings.
type RepoInput struct {
	Name         string
	Author       string
	Commits      []schema.Commit
	Contributors []schema.Contributor
	Branches     int
	FilesAdded   int
	FilesDeleted int
}

// BuildRepoStats derives one RepoStats from a repository's commit records.
// A repository with zero qualifying commits yields ErrNoCommits so callers
// exclude it from aggregation instead of merging a zeroed record.
func BuildRepoStats(in RepoInput) (*schema.RepoStats, error) {
	if len(in.Commits) == 0 {
		return nil, ErrNoCommits
	}

	// The parser preserves input order only; everything time-ordered
	// downstream needs an explicit chronological sort.
	sorted := make([]schema.Commit, len(in.Commits))
	copy(sorted, in.Commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	stats := &schema.RepoStats{
		Name:         in.Name,
		Commits:      len(sorted),
		Branches:     in.Branches,
		FilesAdded:   in.FilesAdded,
		FilesDeleted: in.FilesDeleted,
		MonthlyTrend: make(map[string]schema.MonthStat),
		QuarterDist:  make(map[string]int),
		CommitTypes:  make(map[string]int),
	}

	buildVolumeAndTime(stats, sorted)
	buildContent(stats, sorted)
	buildFiles(stats, sorted)
	buildCollaborators(stats, in.Contributors, in.Author)

	stats.LongestStreakDays, stats.LongestGapDays = longestStreakAndGap(sorted)
	stats.LongestSessionMinutes = longestSessionMinutes(sorted)
	stats.AvgCommitIntervalHours = avgCommitIntervalHours(sorted)
	stats.Badges = evalRepoBadges(stats)

	return stats, nil
}

// buildVolumeAndTime fills line totals, temporal histograms, rates and the
// window extremes. All bucketing uses each commit's own recorded offset.
func buildVolumeAndTime(stats *schema.RepoStats, sorted []schema.Commit) {
	morning, night, weekend := 0, 0, 0
	for i, c := range sorted {
		stats.Insertions += c.Insertions
		stats.Deletions += c.Deletions

		hour := c.Timestamp.Hour()
		weekday := int(c.Timestamp.Weekday())
		stats.HourDist[hour]++
		stats.WeekdayDist[weekday]++

		month := schema.MonthKey(c.Timestamp)
		ms := stats.MonthlyTrend[month]
		ms.Commits++
		ms.Lines += c.Insertions + c.Deletions
		stats.MonthlyTrend[month] = ms

		stats.QuarterDist[schema.QuarterKey(c.Timestamp.Month())]++

		if isMorningHour(hour) {
			morning++
		}
		if isNightHour(hour) {
			night++
		}
		if isLateNightHour(hour) {
			stats.LateNightCommits++
		}
		if isWeekend(weekday) {
			weekend++
		}

		if i == 0 || schema.ClockMinutes(c.Timestamp) < schema.ClockMinutes(stats.EarliestClock) {
			stats.EarliestClock = c.Timestamp
		}
		if i == 0 || schema.ClockMinutes(c.Timestamp) > schema.ClockMinutes(stats.LatestClock) {
			stats.LatestClock = c.Timestamp
		}
	}

	stats.NetLines = stats.Insertions - stats.Deletions
	stats.FirstCommit = sorted[0].Timestamp
	stats.LastCommit = sorted[len(sorted)-1].Timestamp
	stats.MorningRate = schema.Ratio(morning, stats.Commits)
	stats.NightRate = schema.Ratio(night, stats.Commits)
	stats.WeekendRate = schema.Ratio(weekend, stats.Commits)
}

// buildContent fills keyword, emoji, punctuation, commit-type and
// special-commit counters plus the message-length extremes.
func buildContent(stats *schema.RepoStats, sorted []schema.Commit) {
	keywords := newOrderedCounter()
	emoji := newOrderedCounter()

	for i, c := range sorted {
		for _, tok := range tokenizeMessage(c.Message) {
			keywords.add(tok, 1)
		}
		for _, e := range extractEmoji(c.Message) {
			emoji.add(e, 1)
		}

		ex, q := countMarks(c.Message)
		stats.Exclamations += ex
		stats.Questions += q

		if t := classifyCommitType(c.Message); t != "" {
			stats.CommitTypes[t]++
		}
		if isMergeMessage(c.Message) {
			stats.MergeCommits++
		}
		if isRevertMessage(c.Message) {
			stats.RevertCommits++
		}
		if isHotfixMessage(c.Message) {
			stats.HotfixCommits++
		}
		if c.Insertions+c.Deletions > bigRefactorLines {
			stats.BigRefactors++
		}

		// Seed both extremes from the first commit; an empty subject is a
		// valid message and must be able to win the shortest slot.
		msgLen := schema.MessageLength(c.Message)
		if i == 0 || msgLen < schema.MessageLength(stats.ShortestMessage) {
			stats.ShortestMessage = c.Message
		}
		if i == 0 || msgLen > schema.MessageLength(stats.LongestMessage) {
			stats.LongestMessage = c.Message
		}
	}

	stats.TopKeywords = keywords.top(topKeywordLimit)
	stats.TopEmoji = emoji.top(topEmojiLimit)
}

// buildFiles fills the churn rankings: distinct files touched, the most
// frequently changed files, and the extension histogram. Files without an
// extension are keyed by their base name.
func buildFiles(stats *schema.RepoStats, sorted []schema.Commit) {
	files := newOrderedCounter()
	extensions := newOrderedCounter()
	distinct := make(map[string]struct{})

	for _, c := range sorted {
		for _, fc := range c.Files {
			distinct[fc.Path] = struct{}{}
			files.add(fc.Path, 1)
			extensions.add(extensionKey(fc.Path), 1)
		}
	}

	stats.FilesChanged = len(distinct)
	stats.TopFiles = files.top(topFileLimit)
	stats.TopExtensions = extensions.top(topExtensionLimit)
}

func extensionKey(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return filepath.Base(path)
	}
	return ext[1:] // drop the leading dot
}

// buildCollaborators ranks up to ten other contributors by commit count,
// excluding the target author by case-insensitive substring match on name
// or email.
func buildCollaborators(stats *schema.RepoStats, contributors []schema.Contributor, author string) {
	others := make([]schema.Contributor, 0, len(contributors))
	for _, c := range contributors {
		if schema.MatchesAuthor(c.Name, c.Email, author) {
			continue
		}
		others = append(others, c)
	}
	sort.SliceStable(others, func(i, j int) bool {
		return others[i].Commits > others[j].Commits
	})
	if len(others) > topCollaboratorLimit {
		others = others[:topCollaboratorLimit]
	}
	stats.Collaborators = others
}
