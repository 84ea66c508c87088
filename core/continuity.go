package core

import (
	"sort"
	"time"

	"github.com/codeyear/codeyear/schema"
)

// dayLength is one calendar day for active-day arithmetic. Active days are
// compared as parsed date keys, so DST shifts inside a zone cannot skew the
// consecutive-day test.
const dayLength = 24 * time.Hour

// longestStreakAndGap computes the longest run of consecutive active days and
// the longest whole-day gap between two active days (exclusive of both
// endpoints). Fewer than two active days yields 0 for both.
func longestStreakAndGap(commits []schema.Commit) (streak, gap int) {
	seen := make(map[string]struct{})
	var keys []string
	for _, c := range commits {
		key := schema.DayKey(c.Timestamp)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	if len(keys) < 2 {
		return 0, 0
	}
	sort.Strings(keys)

	days := make([]time.Time, len(keys))
	for i, k := range keys {
		days[i], _ = time.Parse("2006-01-02", k)
	}

	current := 1
	streak = 1
	for i := 1; i < len(days); i++ {
		between := int(days[i].Sub(days[i-1]) / dayLength)
		if between == 1 {
			current++
		} else {
			current = 1
		}
		if current > streak {
			streak = current
		}
		if g := between - 1; g > gap {
			gap = g
		}
	}
	return streak, gap
}

// longestSessionMinutes finds the longest same-day work session: the maximum
// span between the first and last commit on one calendar day. Days with a
// single commit contribute no session.
func longestSessionMinutes(commits []schema.Commit) int {
	type bounds struct {
		first, last time.Time
		count       int
	}
	byDay := make(map[string]*bounds)
	for _, c := range commits {
		key := schema.DayKey(c.Timestamp)
		b, ok := byDay[key]
		if !ok {
			byDay[key] = &bounds{first: c.Timestamp, last: c.Timestamp, count: 1}
			continue
		}
		b.count++
		if c.Timestamp.Before(b.first) {
			b.first = c.Timestamp
		}
		if c.Timestamp.After(b.last) {
			b.last = c.Timestamp
		}
	}

	best := 0
	for _, b := range byDay {
		if b.count < 2 {
			continue
		}
		if m := int(b.last.Sub(b.first) / time.Minute); m > best {
			best = m
		}
	}
	return best
}

// avgCommitIntervalHours is the mean hour-delta between chronologically
// consecutive commits. A single commit yields 0. Commits must already be
// sorted ascending by timestamp.
func avgCommitIntervalHours(sorted []schema.Commit) float64 {
	if len(sorted) < 2 {
		return 0
	}
	var total time.Duration
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].Timestamp.Sub(sorted[i-1].Timestamp)
	}
	return schema.Round3(total.Hours() / float64(len(sorted)-1))
}
