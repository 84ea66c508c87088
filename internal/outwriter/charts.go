package outwriter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/codeyear/codeyear/schema"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteCharts renders the year report as an interactive HTML page of charts.
func (ow *OutWriter) WriteCharts(summary *schema.GlobalSummary, chartFile string) error {
	file, err := os.Create(chartFile)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := renderCharts(file, summary); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	fmt.Fprintf(os.Stderr, "📈 Wrote charts to %s\n", chartFile)
	return nil
}

// renderCharts builds the chart page and writes it out.
func renderCharts(w io.Writer, summary *schema.GlobalSummary) error {
	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("%s's Year in Code", summary.Author))
	page.AddCharts(
		buildHourChart(summary),
		buildWeekdayChart(summary),
		buildMonthlyChart(summary),
		buildCommitTypeChart(summary),
	)
	return page.Render(w)
}

func buildHourChart(summary *schema.GlobalSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Commits by Hour"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := hourLabels()
	data := make([]opts.BarData, len(summary.HourDist))
	for i, c := range summary.HourDist {
		data[i] = opts.BarData{Value: c}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("commits", data)
	return bar
}

func buildWeekdayChart(summary *schema.GlobalSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Commits by Weekday"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.BarData, len(summary.WeekdayDist))
	for i, c := range summary.WeekdayDist {
		data[i] = opts.BarData{Value: c}
	}

	bar.SetXAxis(weekdayNames[:])
	bar.AddSeries("commits", data)
	return bar
}

func buildMonthlyChart(summary *schema.GlobalSummary) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Monthly Activity"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	months := make([]string, 0, len(summary.MonthlyTrend))
	for month := range summary.MonthlyTrend {
		months = append(months, month)
	}
	sort.Strings(months)

	commits := make([]opts.LineData, len(months))
	lines := make([]opts.LineData, len(months))
	for i, month := range months {
		stat := summary.MonthlyTrend[month]
		commits[i] = opts.LineData{Value: stat.Commits}
		lines[i] = opts.LineData{Value: stat.Lines}
	}

	line.SetXAxis(months)
	line.AddSeries("commits", commits,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	line.AddSeries("lines", lines,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

func buildCommitTypeChart(summary *schema.GlobalSummary) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Commit Types"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	// Keep the declared vocabulary order for stable slices
	data := make([]opts.PieData, 0, len(summary.CommitTypes))
	for _, name := range schema.ConventionalCommitTypes {
		if count, ok := summary.CommitTypes[name]; ok && count > 0 {
			data = append(data, opts.PieData{Name: name, Value: count})
		}
	}

	pie.AddSeries("types", data)
	return pie
}
