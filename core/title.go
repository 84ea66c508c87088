package core

import "github.com/codeyear/codeyear/schema"

// titleCandidate scores one possible annual title from the merged metrics.
// Candidates evaluate in declaration order and a later candidate replaces an
// earlier one only with a strictly higher score, so ties are reproducible.
type titleCandidate struct {
	title       string
	description string
	score       func(g *schema.GlobalSummary) float64
}

// saturate maps a count to a 0-100 score that flattens out once the count
// reaches the cap.
func saturate(count, limit int) float64 {
	if count >= limit {
		return 100
	}
	return float64(count) / float64(limit) * 100
}

var titleCandidates = []titleCandidate{
	{
		title:       "Night Coder",
		description: "Most alive when everyone else is asleep",
		score:       func(g *schema.GlobalSummary) float64 { return g.NightRate * 100 },
	},
	{
		title:       "Early Bird",
		description: "The day's first commits before the first coffee",
		score:       func(g *schema.GlobalSummary) float64 { return g.MorningRate * 100 },
	},
	{
		title:       "Weekend Warrior",
		description: "Saturdays and Sundays are just more coding days",
		score:       func(g *schema.GlobalSummary) float64 { return g.WeekendRate * 100 },
	},
	{
		title:       "Marathon Coder",
		description: "Kept a commit streak running day after day",
		score:       func(g *schema.GlobalSummary) float64 { return saturate(g.MaxStreakDays, 30) },
	},
	{
		title:       "Refactor Master",
		description: "Never met a module that couldn't be reshaped",
		score:       func(g *schema.GlobalSummary) float64 { return saturate(g.BigRefactors, 20) },
	},
	{
		title:       "Team Player",
		description: "Merged more branches than anyone could count",
		score:       func(g *schema.GlobalSummary) float64 { return saturate(g.MergeCommits, 100) },
	},
	{
		title:       "Commit Machine",
		description: "Shipped commits at an industrial pace",
		score:       func(g *schema.GlobalSummary) float64 { return saturate(g.TotalCommits, 2000) },
	},
	{
		title:       "Line Forger",
		description: "Wrote enough new lines to fill a small library",
		score:       func(g *schema.GlobalSummary) float64 { return saturate(g.TotalInsertions, 200000) },
	},
	{
		title:       "Code Explorer",
		description: "A year of steady discovery across the codebase",
		score:       func(g *schema.GlobalSummary) float64 { return 1 },
	},
}

// pickAnnualTitle selects the single highest-scoring candidate. The trailing
// flat-score fallback guarantees a title even for a quiet year.
func pickAnnualTitle(g *schema.GlobalSummary) schema.AnnualTitle {
	var best schema.AnnualTitle
	for i, c := range titleCandidates {
		score := c.score(g)
		if i == 0 || score > best.Score {
			best = schema.AnnualTitle{Title: c.title, Description: c.description, Score: score}
		}
	}
	return best
}
