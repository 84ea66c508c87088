// Package schema has configs, models and constants for all parts of codeyear.
package schema

import "time"

// Commit represents one version-control commit inside the query window.
// Timestamp keeps the commit's own UTC offset; hour-of-day and day-of-week
// bucketing must never normalize it to a single zone.
type Commit struct {
	Hash       string
	Timestamp  time.Time
	Message    string
	Insertions int
	Deletions  int
	Files      []FileChange
}

// FileChange represents one numstat line within a commit.
type FileChange struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// Contributor represents one author seen in a repository's window,
// ranked by commit count.
type Contributor struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Commits int    `json:"commits"`
}

// KeyCount is a generic ranked counter entry (keyword, emoji, file, extension).
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// MonthStat holds the per-month slice of the activity trend.
type MonthStat struct {
	Commits int `json:"commits"`
	Lines   int `json:"lines"`
}

// Badge is an achievement flag earned by a repository or by the whole year.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RepoStats is the fixed-shape output of analyzing one repository for one
// author over one window. It is never mutated after construction except for
// CommitRatio, which the aggregator injects during the merge.
type RepoStats struct {
	Name string `json:"name"`

	Commits      int `json:"commits"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
	NetLines     int `json:"netLines"`
	FilesChanged int `json:"filesChanged"`
	Branches     int `json:"branches"`

	HourDist     [24]int              `json:"hourDist"`
	WeekdayDist  [7]int               `json:"weekdayDist"` // index 0 = Sunday
	MonthlyTrend map[string]MonthStat `json:"monthlyTrend"`
	QuarterDist  map[string]int       `json:"quarterDist"`

	LongestStreakDays      int     `json:"longestStreakDays"`
	LongestGapDays         int     `json:"longestGapDays"`
	LongestSessionMinutes  int     `json:"longestSessionMinutes"`
	AvgCommitIntervalHours float64 `json:"avgCommitIntervalHours"`

	MorningRate      float64 `json:"morningRate"`
	NightRate        float64 `json:"nightRate"`
	WeekendRate      float64 `json:"weekendRate"`
	LateNightCommits int     `json:"lateNightCommits"`

	TopKeywords  []KeyCount     `json:"topKeywords"`
	TopEmoji     []KeyCount     `json:"topEmoji"`
	Exclamations int            `json:"exclamations"`
	Questions    int            `json:"questions"`
	CommitTypes  map[string]int `json:"commitTypes"`

	MergeCommits  int `json:"mergeCommits"`
	RevertCommits int `json:"revertCommits"`
	HotfixCommits int `json:"hotfixCommits"`
	BigRefactors  int `json:"bigRefactors"`

	TopFiles      []KeyCount `json:"topFiles"`
	TopExtensions []KeyCount `json:"topExtensions"`
	FilesAdded    int        `json:"filesAdded"`
	FilesDeleted  int        `json:"filesDeleted"`

	Collaborators []Contributor `json:"collaborators"`
	Badges        []Badge       `json:"badges"`

	FirstCommit     time.Time `json:"firstCommit"`
	LastCommit      time.Time `json:"lastCommit"`
	EarliestClock   time.Time `json:"earliestClock"` // commit with the smallest local time of day
	LatestClock     time.Time `json:"latestClock"`   // commit with the largest local time of day
	ShortestMessage string    `json:"shortestMessage"`
	LongestMessage  string    `json:"longestMessage"`

	CommitRatio float64 `json:"commitRatio"`
}

// RepoRank is one entry of the cross-repository ranking.
type RepoRank struct {
	Name        string  `json:"name"`
	Commits     int     `json:"commits"`
	CommitRatio float64 `json:"commitRatio"`
}

// ClockWinner attaches a source repository to a cross-repo time-of-day winner.
type ClockWinner struct {
	Repo string    `json:"repo"`
	Time time.Time `json:"time"`
}

// MessageWinner attaches a source repository to a message-length winner.
type MessageWinner struct {
	Repo    string `json:"repo"`
	Message string `json:"message"`
	Length  int    `json:"length"`
}

// SessionWinner attaches a source repository to the longest same-day session.
type SessionWinner struct {
	Repo    string `json:"repo"`
	Minutes int    `json:"minutes"`
}

// AnnualTitle is the single highest-scoring label chosen from the fixed
// candidate formula set over merged global metrics.
type AnnualTitle struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// GlobalSummary is the merged view across all analyzed repositories.
// It is produced once, immutable after construction, and is the terminal
// artifact handed to the serializer.
type GlobalSummary struct {
	Author string    `json:"author"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`

	RepoCount         int `json:"repoCount"`
	TotalCommits      int `json:"totalCommits"`
	TotalInsertions   int `json:"totalInsertions"`
	TotalDeletions    int `json:"totalDeletions"`
	NetLines          int `json:"netLines"`
	TotalFilesChanged int `json:"totalFilesChanged"`
	TotalBranches     int `json:"totalBranches"`

	MergeCommits  int `json:"mergeCommits"`
	RevertCommits int `json:"revertCommits"`
	HotfixCommits int `json:"hotfixCommits"`
	BigRefactors  int `json:"bigRefactors"`
	Exclamations  int `json:"exclamations"`
	Questions     int `json:"questions"`
	FilesAdded    int `json:"filesAdded"`
	FilesDeleted  int `json:"filesDeleted"`

	HourDist     [24]int              `json:"hourDist"`
	WeekdayDist  [7]int               `json:"weekdayDist"`
	MonthlyTrend map[string]MonthStat `json:"monthlyTrend"`
	QuarterDist  map[string]int       `json:"quarterDist"`
	CommitTypes  map[string]int       `json:"commitTypes"`

	MorningRate      float64 `json:"morningRate"`
	NightRate        float64 `json:"nightRate"`
	WeekendRate      float64 `json:"weekendRate"`
	LateNightCommits int     `json:"lateNightCommits"`
	WeekdayCommits   int     `json:"weekdayCommits"`
	WeekendCommits   int     `json:"weekendCommits"`

	MaxStreakDays          int     `json:"maxStreakDays"`
	MaxGapDays             int     `json:"maxGapDays"`
	AvgCommitIntervalHours float64 `json:"avgCommitIntervalHours"`
	AvgLinesPerCommit      float64 `json:"avgLinesPerCommit"`

	EarliestCommit  ClockWinner   `json:"earliestCommit"`
	LatestCommit    ClockWinner   `json:"latestCommit"`
	ShortestMessage MessageWinner `json:"shortestMessage"`
	LongestMessage  MessageWinner `json:"longestMessage"`
	LongestSession  SessionWinner `json:"longestSession"`

	TopRepos         []RepoRank    `json:"topRepos"`
	TopKeywords      []KeyCount    `json:"topKeywords"`
	TopEmoji         []KeyCount    `json:"topEmoji"`
	TopFileTypes     []KeyCount    `json:"topFileTypes"`
	TopChangedFiles  []KeyCount    `json:"topChangedFiles"`
	TopCollaborators []Contributor `json:"topCollaborators"`

	Badges      []Badge     `json:"badges"`
	AnnualTitle AnnualTitle `json:"annualTitle"`
}
