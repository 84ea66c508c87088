// Package core derives per-repository metrics from parsed commit records and
// merges them into one cross-repository summary.
package core

import "errors"

// ErrNoCommits signals that a repository has zero qualifying commits for the
// target author in the window. Callers must filter such repositories out
// rather than treat absence as a zeroed record.
var ErrNoCommits = errors.New("no qualifying commits")

// ErrNoRepos signals that aggregation was attempted over zero repositories.
// Callers present this as a no-op, not a crash.
var ErrNoRepos = errors.New("nothing to summarize")

// Time-of-day bucket boundaries. A bucket "HH1-HH2" contains hours
// HH1 <= h < HH2, wrapping at midnight for the night bucket.
const (
	morningStartHour   = 6  // 06:00-08:00
	morningEndHour     = 8
	nightStartHour     = 22 // 22:00-06:00
	nightEndHour       = 6
	lateNightStartHour = 2 // 02:00-05:00
	lateNightEndHour   = 5
)

// bigRefactorLines is the insertions+deletions threshold above which a single
// commit counts as a big refactor.
const bigRefactorLines = 500

func isMorningHour(h int) bool {
	return h >= morningStartHour && h < morningEndHour
}

func isNightHour(h int) bool {
	return h >= nightStartHour || h < nightEndHour
}

func isLateNightHour(h int) bool {
	return h >= lateNightStartHour && h < lateNightEndHour
}

func isWeekend(weekday int) bool {
	return weekday == 0 || weekday == 6
}
