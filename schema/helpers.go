package schema

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Round3 rounds x to 3 decimal places. All rate fields in RepoStats and
// GlobalSummary go through this before being stored.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// Ratio returns n/d rounded to 3 decimals. The denominator is known positive
// everywhere this is called; the guard keeps a future zero-commit record from
// producing NaN.
func Ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return Round3(float64(n) / float64(d))
}

// QuarterKey maps a month to its quarter bucket.
func QuarterKey(m time.Month) string {
	return QuarterKeys[(int(m)-1)/3]
}

// ClockMinutes returns minutes since local midnight for the commit's own
// recorded offset. Used to rank earliest/latest commits of the year.
func ClockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// DayKey formats a timestamp as its local calendar day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey formats a timestamp as its local calendar month.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MessageLength is the character length of a commit message, counting runes
// rather than bytes so CJK subjects rank fairly.
func MessageLength(s string) int {
	return utf8.RuneCountInString(s)
}

// MatchesAuthor reports whether a contributor identity belongs to the target
// author, using a case-insensitive substring match on name or email.
func MatchesAuthor(name, email, author string) bool {
	if author == "" {
		return false
	}
	a := strings.ToLower(author)
	return strings.Contains(strings.ToLower(name), a) ||
		strings.Contains(strings.ToLower(email), a)
}
