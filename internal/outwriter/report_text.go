package outwriter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/codeyear/codeyear/internal/contract"
	"github.com/codeyear/codeyear/schema"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Section header emoji. Suppressed when emoji output is disabled.
var sectionEmoji = map[string]string{
	"Overview":      "📊",
	"Rhythm":        "🕐",
	"Consistency":   "🔁",
	"Messages":      "💬",
	"Repositories":  "📦",
	"Files":         "📁",
	"Collaborators": "🤝",
	"Achievements":  "🏆",
}

var (
	titleColor  = color.New(color.FgCyan, color.Bold)
	headerColor = color.New(color.FgYellow, color.Bold)
	badgeColor  = color.New(color.FgGreen)
	barColor    = color.New(color.FgBlue)
)

// weekdayNames maps the weekday distribution index (0 = Sunday) to a label.
var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// writeReportText renders the full year report as human-readable text.
func writeReportText(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config, duration time.Duration) error {
	width := getReportWidth(cfg)

	writeReportHeader(w, summary, cfg, width)
	writeOverviewSection(w, summary, cfg)
	writeRhythmSection(w, summary, cfg, width)
	writeConsistencySection(w, summary, cfg)
	writeMessageSection(w, summary, cfg)
	writeRepoSection(w, summary, cfg)
	writeFileSection(w, summary, cfg)
	writeCollaboratorSection(w, summary, cfg)
	writeAchievementSection(w, summary, cfg)

	_, err := fmt.Fprintf(w, "\nReport completed in %v across %d repositories. Cache backend: %s\n",
		duration.Round(time.Millisecond), summary.RepoCount, cfg.CacheBackend)
	return err
}

func writeReportHeader(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config, width int) {
	line := strings.Repeat("=", min(width, 72))
	banner := fmt.Sprintf("%s's Year in Code (%s to %s)",
		summary.Author,
		summary.From.Format("2006-01-02"),
		summary.To.Format("2006-01-02"))
	if cfg.UseEmojis {
		banner = "🎉 " + banner
	}
	if cfg.UseColors {
		banner = titleColor.Sprint(banner)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, line)

	title := fmt.Sprintf("%s (score %.0f) %s",
		summary.AnnualTitle.Title, summary.AnnualTitle.Score, summary.AnnualTitle.Description)
	if cfg.UseColors {
		title = headerColor.Sprint(title)
	}
	fmt.Fprintf(w, "Annual title: %s\n", title)
}

func writeSectionHeader(w io.Writer, cfg *contract.Config, name string) {
	header := name
	if cfg.UseEmojis {
		if emoji, ok := sectionEmoji[name]; ok {
			header = emoji + " " + header
		}
	}
	if cfg.UseColors {
		header = headerColor.Sprint(header)
	}
	fmt.Fprintf(w, "\n%s\n", header)
}

func writeOverviewSection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config) {
	writeSectionHeader(w, cfg, "Overview")

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Repositories", humanize.Comma(int64(summary.RepoCount))},
		{"Commits", humanize.Comma(int64(summary.TotalCommits))},
		{"Lines added", humanize.Comma(int64(summary.TotalInsertions))},
		{"Lines removed", humanize.Comma(int64(summary.TotalDeletions))},
		{"Net lines", humanize.Comma(int64(summary.NetLines))},
		{"Files touched", humanize.Comma(int64(summary.TotalFilesChanged))},
		{"Files added", humanize.Comma(int64(summary.FilesAdded))},
		{"Files deleted", humanize.Comma(int64(summary.FilesDeleted))},
		{"Branches", humanize.Comma(int64(summary.TotalBranches))},
		{"Avg lines per commit", fmt.Sprintf("%.1f", summary.AvgLinesPerCommit)},
	}
	renderTable(w, table, data)
}

func writeRhythmSection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config, width int) {
	writeSectionHeader(w, cfg, "Rhythm")

	fmt.Fprintln(w, "Commits by hour:")
	writeHistogram(w, cfg, hourLabels(), summary.HourDist[:], width)

	fmt.Fprintln(w, "Commits by weekday:")
	writeHistogram(w, cfg, weekdayNames[:], summary.WeekdayDist[:], width)

	fmt.Fprintf(w, "Morning rate: %.1f%%  Night rate: %.1f%%  Weekend rate: %.1f%%\n",
		summary.MorningRate*100, summary.NightRate*100, summary.WeekendRate*100)
	fmt.Fprintf(w, "Late-night commits (02:00-05:00): %d\n", summary.LateNightCommits)
	fmt.Fprintf(w, "Earliest commit: %s in %s\n",
		summary.EarliestCommit.Time.Format("15:04"), summary.EarliestCommit.Repo)
	fmt.Fprintf(w, "Latest commit: %s in %s\n",
		summary.LatestCommit.Time.Format("15:04"), summary.LatestCommit.Repo)
}

func writeConsistencySection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config) {
	writeSectionHeader(w, cfg, "Consistency")

	fmt.Fprintf(w, "Longest streak: %d days\n", summary.MaxStreakDays)
	fmt.Fprintf(w, "Longest gap: %d days\n", summary.MaxGapDays)
	fmt.Fprintf(w, "Longest session: %s in %s\n",
		formatMinutes(summary.LongestSession.Minutes), summary.LongestSession.Repo)
	fmt.Fprintf(w, "Average time between commits: %.1f hours\n", summary.AvgCommitIntervalHours)

	if len(summary.QuarterDist) > 0 {
		parts := make([]string, 0, len(schema.QuarterKeys))
		for _, q := range schema.QuarterKeys {
			parts = append(parts, fmt.Sprintf("%s: %s", q, humanize.Comma(int64(summary.QuarterDist[q]))))
		}
		fmt.Fprintf(w, "Quarters: %s\n", strings.Join(parts, "  "))
	}
}

func writeMessageSection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config) {
	writeSectionHeader(w, cfg, "Messages")

	if len(summary.TopKeywords) > 0 {
		fmt.Fprintf(w, "Top keywords: %s\n", formatKeyCounts(summary.TopKeywords, 10))
	}
	if len(summary.TopEmoji) > 0 {
		fmt.Fprintf(w, "Top emoji: %s\n", formatKeyCounts(summary.TopEmoji, 5))
	}

	if len(summary.CommitTypes) > 0 {
		types := make([]schema.KeyCount, 0, len(summary.CommitTypes))
		for name, count := range summary.CommitTypes {
			types = append(types, schema.KeyCount{Key: name, Count: count})
		}
		sort.Slice(types, func(i, j int) bool {
			if types[i].Count != types[j].Count {
				return types[i].Count > types[j].Count
			}
			return types[i].Key < types[j].Key
		})
		fmt.Fprintf(w, "Commit types: %s\n", formatKeyCounts(types, 11))
	}

	fmt.Fprintf(w, "Merges: %d  Reverts: %d  Hotfixes: %d  Big refactors: %d\n",
		summary.MergeCommits, summary.RevertCommits, summary.HotfixCommits, summary.BigRefactors)
	fmt.Fprintf(w, "Exclamations: %d  Questions: %d\n", summary.Exclamations, summary.Questions)
	if summary.ShortestMessage.Length > 0 {
		fmt.Fprintf(w, "Shortest message (%d chars, %s): %q\n",
			summary.ShortestMessage.Length, summary.ShortestMessage.Repo, summary.ShortestMessage.Message)
	}
	if summary.LongestMessage.Length > 0 {
		fmt.Fprintf(w, "Longest message (%d chars, %s): %q\n",
			summary.LongestMessage.Length, summary.LongestMessage.Repo,
			truncateMessage(summary.LongestMessage.Message, 80))
	}
}

func writeRepoSection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config) {
	writeSectionHeader(w, cfg, "Repositories")

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Repository", "Commits", "Share"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range summary.TopRepos {
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			r.Name,
			humanize.Comma(int64(r.Commits)),
			fmt.Sprintf("%.1f%%", r.CommitRatio*100),
		})
	}
	renderTable(w, table, data)
}

func writeFileSection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config) {
	writeSectionHeader(w, cfg, "Files")

	if len(summary.TopFileTypes) > 0 {
		fmt.Fprintf(w, "Top file types: %s\n", formatKeyCounts(summary.TopFileTypes, 10))
	}
	if len(summary.TopChangedFiles) > 0 {
		fmt.Fprintln(w, "Most changed files:")
		for i, f := range summary.TopChangedFiles {
			fmt.Fprintf(w, "  %2d. %s (%s changes)\n", i+1,
				contract.TruncatePath(f.Key, 60), humanize.Comma(int64(f.Count)))
		}
	}
}

func writeCollaboratorSection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config) {
	if len(summary.TopCollaborators) == 0 {
		return
	}
	writeSectionHeader(w, cfg, "Collaborators")

	for i, c := range summary.TopCollaborators {
		fmt.Fprintf(w, "  %2d. %s <%s> (%s commits)\n", i+1, c.Name, c.Email,
			humanize.Comma(int64(c.Commits)))
	}
}

func writeAchievementSection(w io.Writer, summary *schema.GlobalSummary, cfg *contract.Config) {
	if len(summary.Badges) == 0 {
		return
	}
	writeSectionHeader(w, cfg, "Achievements")

	for _, badge := range summary.Badges {
		name := badge.Name
		if cfg.UseColors {
			name = badgeColor.Sprint(name)
		}
		marker := "*"
		if cfg.UseEmojis {
			marker = "🏅"
		}
		fmt.Fprintf(w, "  %s %s: %s\n", marker, name, badge.Description)
	}
}

// writeHistogram renders labeled counts as horizontal bars scaled to the
// available width.
func writeHistogram(w io.Writer, cfg *contract.Config, labels []string, counts []int, width int) {
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return
	}

	// Label, count and padding take roughly 16 columns
	barWidth := min(width-16, 50)
	if barWidth < 10 {
		barWidth = 10
	}

	for i, c := range counts {
		n := c * barWidth / maxCount
		bar := strings.Repeat("█", n)
		if cfg.UseColors {
			bar = barColor.Sprint(bar)
		}
		fmt.Fprintf(w, "  %-4s %5s %s\n", labels[i], humanize.Comma(int64(c)), bar)
	}
}

// renderTable renders accumulated rows, swallowing render errors into the
// writer's error state.
func renderTable(w io.Writer, table *tablewriter.Table, data [][]string) {
	if err := table.Bulk(data); err != nil {
		fmt.Fprintf(w, "table error: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(w, "table error: %v\n", err)
	}
}

func hourLabels() []string {
	labels := make([]string, 24)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d", i)
	}
	return labels
}

func formatKeyCounts(entries []schema.KeyCount, limit int) string {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%d)", e.Key, e.Count)
	}
	return strings.Join(parts, ", ")
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func truncateMessage(msg string, maxLen int) string {
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	return string(runes[:maxLen-3]) + "..."
}
