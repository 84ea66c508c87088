package core

import "github.com/codeyear/codeyear/schema"

// badgeRule pairs a badge with its qualifying predicate. Rules evaluate in
// declaration order so the badge list is reproducible.
type repoBadgeRule struct {
	badge     schema.Badge
	qualifies func(s *schema.RepoStats) bool
}

var repoBadgeRules = []repoBadgeRule{
	{
		badge:     schema.Badge{Name: "Early Riser", Description: "More than 20% of commits between 06:00 and 08:00"},
		qualifies: func(s *schema.RepoStats) bool { return s.MorningRate > 0.2 },
	},
	{
		badge:     schema.Badge{Name: "Night Owl", Description: "More than 30% of commits between 22:00 and 06:00"},
		qualifies: func(s *schema.RepoStats) bool { return s.NightRate > 0.3 },
	},
	{
		badge:     schema.Badge{Name: "Weekend Warrior", Description: "More than 30% of commits on weekends"},
		qualifies: func(s *schema.RepoStats) bool { return s.WeekendRate > 0.3 },
	},
	{
		badge:     schema.Badge{Name: "Streak Keeper", Description: "Committed on 7 or more consecutive days"},
		qualifies: func(s *schema.RepoStats) bool { return s.LongestStreakDays >= 7 },
	},
	{
		badge:     schema.Badge{Name: "Long Hiatus", Description: "A break of 14 or more days between commits"},
		qualifies: func(s *schema.RepoStats) bool { return s.LongestGapDays >= 14 },
	},
	{
		badge:     schema.Badge{Name: "Midnight Oil", Description: "More than 10 commits between 02:00 and 05:00"},
		qualifies: func(s *schema.RepoStats) bool { return s.LateNightCommits > 10 },
	},
	{
		badge:     schema.Badge{Name: "Refactor Heavy", Description: "3 or more commits touching over 500 lines"},
		qualifies: func(s *schema.RepoStats) bool { return s.BigRefactors >= 3 },
	},
	{
		badge:     schema.Badge{Name: "Collaborative", Description: "More than 20 merge commits"},
		qualifies: func(s *schema.RepoStats) bool { return s.MergeCommits > 20 },
	},
}

func evalRepoBadges(s *schema.RepoStats) []schema.Badge {
	var earned []schema.Badge
	for _, rule := range repoBadgeRules {
		if rule.qualifies(s) {
			earned = append(earned, rule.badge)
		}
	}
	return earned
}

type globalBadgeRule struct {
	badge     schema.Badge
	qualifies func(g *schema.GlobalSummary) bool
}

var globalBadgeRules = []globalBadgeRule{
	{
		badge:     schema.Badge{Name: "Dawn Patrol", Description: "More than 10% of all commits in the early morning"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.MorningRate > 0.1 },
	},
	{
		badge:     schema.Badge{Name: "Night Shift", Description: "More than 20% of all commits at night"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.NightRate > 0.2 },
	},
	{
		badge:     schema.Badge{Name: "Weekend Devotee", Description: "More than 15% of all commits on weekends"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.WeekendRate > 0.15 },
	},
	{
		badge:     schema.Badge{Name: "Iron Streak", Description: "A 7-day or longer commit streak somewhere"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.MaxStreakDays >= 7 },
	},
	{
		badge:     schema.Badge{Name: "Long Hiatus", Description: "A break of 14 or more days between commits"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.MaxGapDays >= 14 },
	},
	{
		badge:     schema.Badge{Name: "Midnight Oil", Description: "More than 10 commits between 02:00 and 05:00"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.LateNightCommits > 10 },
	},
	{
		badge:     schema.Badge{Name: "Refactor Master", Description: "10 or more big refactor commits"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.BigRefactors >= 10 },
	},
	{
		badge:     schema.Badge{Name: "Team Anchor", Description: "More than 50 merge commits"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.MergeCommits > 50 },
	},
	{
		badge:     schema.Badge{Name: "Polyglot", Description: "Active in 10 or more repositories"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.RepoCount >= 10 },
	},
	{
		badge:     schema.Badge{Name: "Prolific", Description: "1000 or more commits in the year"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.TotalCommits >= 1000 },
	},
	{
		badge:     schema.Badge{Name: "Code Machine", Description: "100000 or more lines inserted"},
		qualifies: func(g *schema.GlobalSummary) bool { return g.TotalInsertions >= 100000 },
	},
}

func evalGlobalBadges(g *schema.GlobalSummary) []schema.Badge {
	var earned []schema.Badge
	for _, rule := range globalBadgeRules {
		if rule.qualifies(g) {
			earned = append(earned, rule.badge)
		}
	}
	return earned
}
