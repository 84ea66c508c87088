package core

import (
	"sort"
	"time"

	"github.com/codeyear/codeyear/schema"
)

// Cross-repository ranking sizes.
const (
	globalKeywordLimit = 20
	globalRankLimit    = 10
)

// stopwords are filtered from the keyword ranking only at merge time, so a
// single repository's local top list survives the merge otherwise unchanged.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "into": {},
	"that": {}, "this": {}, "when": {}, "some": {}, "not": {}, "use": {},
	"add": {}, "fix": {}, "update": {}, "remove": {}, "merge": {},
	"branch": {}, "pull": {}, "request": {}, "commit": {}, "initial": {},
}

// MergeAll folds per-repository statistics into one GlobalSummary. Repository
// order only affects tie-breaking, which it makes reproducible: identical
// inputs in identical order always yield identical output. Each input record
// gets its CommitRatio injected as a side effect of the merge.
func MergeAll(repos []*schema.RepoStats, author string, from, to time.Time) (*schema.GlobalSummary, error) {
	if len(repos) == 0 {
		return nil, ErrNoRepos
	}

	g := &schema.GlobalSummary{
		Author:       author,
		From:         from,
		To:           to,
		RepoCount:    len(repos),
		MonthlyTrend: make(map[string]schema.MonthStat),
		QuarterDist:  make(map[string]int),
		CommitTypes:  make(map[string]int),
	}

	mergeTotals(g, repos)
	injectCommitRatios(g, repos)
	mergeAverages(g, repos)
	mergeWinners(g, repos)
	mergeRankings(g, repos)

	g.Badges = evalGlobalBadges(g)
	g.AnnualTitle = pickAnnualTitle(g)
	return g, nil
}

func mergeTotals(g *schema.GlobalSummary, repos []*schema.RepoStats) {
	for _, r := range repos {
		g.TotalCommits += r.Commits
		g.TotalInsertions += r.Insertions
		g.TotalDeletions += r.Deletions
		g.TotalFilesChanged += r.FilesChanged
		g.TotalBranches += r.Branches

		g.MergeCommits += r.MergeCommits
		g.RevertCommits += r.RevertCommits
		g.HotfixCommits += r.HotfixCommits
		g.BigRefactors += r.BigRefactors
		g.Exclamations += r.Exclamations
		g.Questions += r.Questions
		g.FilesAdded += r.FilesAdded
		g.FilesDeleted += r.FilesDeleted
		g.LateNightCommits += r.LateNightCommits

		for h, n := range r.HourDist {
			g.HourDist[h] += n
		}
		for d, n := range r.WeekdayDist {
			g.WeekdayDist[d] += n
		}
		for month, ms := range r.MonthlyTrend {
			agg := g.MonthlyTrend[month]
			agg.Commits += ms.Commits
			agg.Lines += ms.Lines
			g.MonthlyTrend[month] = agg
		}
		for q, n := range r.QuarterDist {
			g.QuarterDist[q] += n
		}
		for t, n := range r.CommitTypes {
			g.CommitTypes[t] += n
		}
	}
	g.NetLines = g.TotalInsertions - g.TotalDeletions

	// Rates derive once from the merged histograms so per-repository
	// rounding cannot double-weight them.
	morning, night, weekend := 0, 0, 0
	for h, n := range g.HourDist {
		if isMorningHour(h) {
			morning += n
		}
		if isNightHour(h) {
			night += n
		}
	}
	for d, n := range g.WeekdayDist {
		if isWeekend(d) {
			weekend += n
		}
	}
	g.MorningRate = schema.Ratio(morning, g.TotalCommits)
	g.NightRate = schema.Ratio(night, g.TotalCommits)
	g.WeekendRate = schema.Ratio(weekend, g.TotalCommits)
	g.WeekendCommits = weekend
	g.WeekdayCommits = g.TotalCommits - weekend
}

func injectCommitRatios(g *schema.GlobalSummary, repos []*schema.RepoStats) {
	for _, r := range repos {
		r.CommitRatio = schema.Ratio(r.Commits, g.TotalCommits)
	}
}

func mergeAverages(g *schema.GlobalSummary, repos []*schema.RepoStats) {
	weighted := 0.0
	for _, r := range repos {
		if r.LongestStreakDays > g.MaxStreakDays {
			g.MaxStreakDays = r.LongestStreakDays
		}
		if r.LongestGapDays > g.MaxGapDays {
			g.MaxGapDays = r.LongestGapDays
		}
		weighted += r.AvgCommitIntervalHours * float64(r.Commits)
	}
	g.AvgCommitIntervalHours = schema.Round3(weighted / float64(g.TotalCommits))
	g.AvgLinesPerCommit = schema.Round3(float64(g.TotalInsertions+g.TotalDeletions) / float64(g.TotalCommits))
}

// mergeWinners picks the single cross-repository extreme for each winner
// field. Strict comparisons keep the first repository's result on ties.
func mergeWinners(g *schema.GlobalSummary, repos []*schema.RepoStats) {
	for i, r := range repos {
		if i == 0 || schema.ClockMinutes(r.EarliestClock) < schema.ClockMinutes(g.EarliestCommit.Time) {
			g.EarliestCommit = schema.ClockWinner{Repo: r.Name, Time: r.EarliestClock}
		}
		if i == 0 || schema.ClockMinutes(r.LatestClock) > schema.ClockMinutes(g.LatestCommit.Time) {
			g.LatestCommit = schema.ClockWinner{Repo: r.Name, Time: r.LatestClock}
		}
		if i == 0 || schema.MessageLength(r.ShortestMessage) < g.ShortestMessage.Length {
			g.ShortestMessage = schema.MessageWinner{
				Repo:    r.Name,
				Message: r.ShortestMessage,
				Length:  schema.MessageLength(r.ShortestMessage),
			}
		}
		if i == 0 || schema.MessageLength(r.LongestMessage) > g.LongestMessage.Length {
			g.LongestMessage = schema.MessageWinner{
				Repo:    r.Name,
				Message: r.LongestMessage,
				Length:  schema.MessageLength(r.LongestMessage),
			}
		}
		if i == 0 || r.LongestSessionMinutes > g.LongestSession.Minutes {
			g.LongestSession = schema.SessionWinner{Repo: r.Name, Minutes: r.LongestSessionMinutes}
		}
	}
}

// mergeRankings re-aggregates each repository's already-truncated top lists.
// A key outside every local top list stays invisible globally; that trade is
// deliberate and keeps the merge independent of raw commit data.
func mergeRankings(g *schema.GlobalSummary, repos []*schema.RepoStats) {
	keywordLists := make([][]schema.KeyCount, 0, len(repos))
	emojiLists := make([][]schema.KeyCount, 0, len(repos))
	extLists := make([][]schema.KeyCount, 0, len(repos))
	fileLists := make([][]schema.KeyCount, 0, len(repos))
	for _, r := range repos {
		keywordLists = append(keywordLists, r.TopKeywords)
		emojiLists = append(emojiLists, r.TopEmoji)
		extLists = append(extLists, r.TopExtensions)
		fileLists = append(fileLists, r.TopFiles)
	}

	keywords := newOrderedCounter()
	for _, list := range keywordLists {
		for _, kc := range list {
			if _, stop := stopwords[kc.Key]; stop {
				continue
			}
			keywords.add(kc.Key, kc.Count)
		}
	}
	g.TopKeywords = keywords.top(globalKeywordLimit)
	g.TopEmoji = mergeCounts(emojiLists...).top(globalRankLimit)
	g.TopFileTypes = mergeCounts(extLists...).top(globalRankLimit)
	g.TopChangedFiles = mergeCounts(fileLists...).top(globalRankLimit)

	g.TopRepos = rankRepos(repos)
	g.TopCollaborators = mergeCollaborators(repos)
}

func rankRepos(repos []*schema.RepoStats) []schema.RepoRank {
	ranks := make([]schema.RepoRank, 0, len(repos))
	for _, r := range repos {
		ranks = append(ranks, schema.RepoRank{Name: r.Name, Commits: r.Commits, CommitRatio: r.CommitRatio})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Commits > ranks[j].Commits
	})
	if len(ranks) > globalRankLimit {
		ranks = ranks[:globalRankLimit]
	}
	return ranks
}

// mergeCollaborators folds collaborator lists by name+email identity, summing
// commit counts for people who show up in several repositories.
func mergeCollaborators(repos []*schema.RepoStats) []schema.Contributor {
	type identity struct{ name, email string }
	counts := make(map[identity]int)
	var order []identity
	for _, r := range repos {
		for _, c := range r.Collaborators {
			id := identity{name: c.Name, email: c.Email}
			if _, seen := counts[id]; !seen {
				order = append(order, id)
			}
			counts[id] += c.Commits
		}
	}

	merged := make([]schema.Contributor, 0, len(order))
	for _, id := range order {
		merged = append(merged, schema.Contributor{Name: id.name, Email: id.email, Commits: counts[id]})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Commits > merged[j].Commits
	})
	if len(merged) > globalRankLimit {
		merged = merged[:globalRankLimit]
	}
	return merged
}
