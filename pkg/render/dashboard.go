// Package render turns PulseReports into the local HTML dashboard, the cloud
// publish payload and file exports.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/commitpulse/internal/plotpage"
	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

const (
	statColumns         = 4
	contributorBarLimit = 10
	hoursPerDay         = 24
)

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Dashboard renders reports into a single HTML page with all data inline.
// The echarts script comes from plotpage.DefaultAssetsHost. The output
// depends only on its arguments.
func Dashboard(reports []pulse.PulseReport, theme plotpage.Theme) ([]byte, error) {
	page := plotpage.NewPage(dashboardTitle(reports), dashboardDescription(reports)).WithTheme(theme)

	if len(reports) > 1 {
		page.Add(repositorySections(reports)...)
	}

	for i, report := range reports {
		page.Add(reportSections(i, report, theme)...)
	}

	var buf bytes.Buffer

	err := page.Render(&buf)
	if err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}

	return buf.Bytes(), nil
}

func dashboardTitle(reports []pulse.PulseReport) string {
	if len(reports) == 1 {
		return reports[0].Name
	}

	return fmt.Sprintf("%d repositories", len(reports))
}

func dashboardDescription(reports []pulse.PulseReport) string {
	commits := 0
	for _, r := range reports {
		commits += r.TotalCommits
	}

	return humanize.Comma(int64(commits)) + " commits"
}

func reportSections(idx int, report pulse.PulseReport, theme plotpage.Theme) []plotpage.Section {
	id := func(kind string) string {
		return fmt.Sprintf("pulse-%d-%s", idx, kind)
	}

	sections := []plotpage.Section{{
		Title:    report.Name,
		Subtitle: fmt.Sprintf("%s to %s", report.FirstCommit, report.LastCommit),
		Chart:    overviewGrid(report),
	}}

	if report.TotalCommits == 0 {
		return append(sections, plotpage.Section{
			Title: "Activity",
			Chart: plotpage.NewText("This repository has no commits yet."),
		})
	}

	cOpts := plotpage.NewChartOpts(theme)
	palette := plotpage.GetChartPalette(theme)

	days := slices.Sorted(maps.Keys(report.Heatmap))
	dayCounts := make([]plotpage.SeriesData, len(days))
	cumulative := make([]plotpage.SeriesData, len(days))
	running := 0

	for i, day := range days {
		dayCounts[i] = report.Heatmap[day]
		running += report.Heatmap[day]
		cumulative[i] = running
	}

	sections = append(sections,
		plotpage.Section{
			Title:    "Commit Calendar",
			Subtitle: "Commits per active day",
			Chart: plotpage.BuildBarChart(cOpts, id("daily"), days,
				[]plotpage.BarSeries{{Name: "Commits", Data: dayCounts, Color: palette.Color(0)}}, "Commits"),
		},
		plotpage.Section{
			Title:    "Growth",
			Subtitle: "Cumulative commits over time",
			Chart: plotpage.BuildLineChart(cOpts, id("growth"), days,
				[]plotpage.LineSeries{{Name: "Total commits", Data: cumulative, Color: palette.Color(1), AreaOpacity: 0.2, Smooth: true}}, "Commits"),
		},
		plotpage.Section{
			Title:    "Punch Card",
			Subtitle: "Commits by weekday and hour, in each author's local time",
			Chart:    plotpage.BuildHeatMap(theme, id("punch"), "Commits", punchCard(report)),
		},
		plotpage.Section{
			Title:    "Hourly Distribution",
			Subtitle: "Peak hour " + report.PeakHour,
			Chart: plotpage.BuildBarChart(cOpts, id("hourly"), hourLabels(),
				[]plotpage.BarSeries{{Name: "Commits", Data: hourlySeries(report), Color: palette.Color(2)}}, "Commits"),
		},
		plotpage.Section{
			Title:    "Activity Pulse",
			Subtitle: "When in the day work happens",
			Chart:    plotpage.BuildPieChart(theme, id("segments"), "Day segments", segmentSlices(report)),
			Hint: plotpage.Hint{
				Title: "Segments",
				Items: []string{
					"Early Bird: 00:00 to 05:59",
					"Morning: 06:00 to 11:59",
					"Afternoon: 12:00 to 17:59",
					"Late Night: 18:00 to 23:59",
				},
			},
		},
	)

	if len(report.Languages) > 0 {
		sections = append(sections, plotpage.Section{
			Title:    "Languages",
			Subtitle: "Share of bytes at HEAD",
			Chart:    plotpage.BuildPieChart(theme, id("languages"), "Languages", languageSlices(report)),
			Hint:     languageHint(report),
		})
	}

	names, commits := contributorSeries(report)

	return append(sections,
		plotpage.Section{
			Title:    "Top Contributors",
			Subtitle: "By commit count",
			Chart: plotpage.BuildBarChart(cOpts, id("contributors"), names,
				[]plotpage.BarSeries{{Name: "Commits", Data: commits, Color: palette.Color(3)}}, "Commits"),
		},
		plotpage.Section{
			Title: "Contributors",
			Chart: contributorTable(report),
		},
	)
}

// repositorySections lead a multi-repository dashboard with one card per
// repository and a comparison table.
func repositorySections(reports []pulse.PulseReport) []plotpage.Section {
	cards := make([]plotpage.Renderable, len(reports))
	comparison := plotpage.NewTable("Repository", "Commits", "Contributors", "Estimated Hours", "Lines Changed", "Top Language")

	for i, report := range reports {
		top := pulse.NotAvailable
		if len(report.TopLanguages) > 0 {
			top = report.TopLanguages[0]
		}

		cards[i] = plotpage.NewCard(report.Name, fmt.Sprintf("%s to %s", report.FirstCommit, report.LastCommit)).
			WithContent(plotpage.NewText(fmt.Sprintf("%s commits by %d contributors, peak hour %s.",
				humanize.Comma(int64(report.TotalCommits)), len(report.Contributors), report.PeakHour)))

		comparison.AddRow(
			report.Name,
			humanize.Comma(int64(report.TotalCommits)),
			strconv.Itoa(len(report.Contributors)),
			strconv.FormatFloat(report.EstimatedHours, 'f', 1, 64),
			humanize.Comma(int64(report.LinesAdded+report.LinesDeleted)),
			top,
		)
	}

	return []plotpage.Section{
		{
			Title:    "Repositories",
			Subtitle: fmt.Sprintf("%d repositories scanned", len(reports)),
			Chart:    plotpage.NewGrid(min(len(reports), statColumns), cards...),
		},
		{
			Title: "Comparison",
			Chart: comparison,
		},
	}
}

func overviewGrid(report pulse.PulseReport) *plotpage.Grid {
	top := strings.Join(report.TopLanguages, ", ")
	if top == "" {
		top = pulse.NotAvailable
	}

	return plotpage.NewGrid(statColumns,
		plotpage.NewStat("Commits", humanize.Comma(int64(report.TotalCommits))),
		plotpage.NewStat("Contributors", strconv.Itoa(len(report.Contributors))),
		plotpage.NewStat("Estimated Hours", strconv.FormatFloat(report.EstimatedHours, 'f', 1, 64)).
			WithTrend("sessions split at 2h gaps"),
		plotpage.NewStat("Peak Hour", report.PeakHour),
		plotpage.NewStat("Lines Added", "+"+humanize.Comma(int64(report.LinesAdded))),
		plotpage.NewStat("Lines Deleted", "-"+humanize.Comma(int64(report.LinesDeleted))),
		plotpage.NewStat("Active Days", strconv.Itoa(len(report.Heatmap))),
		plotpage.NewStat("Top Languages", top),
	)
}

func punchCard(report pulse.PulseReport) plotpage.HeatMap {
	cells := make([][]int, len(report.PunchCard))
	for day := range report.PunchCard {
		cells[day] = report.PunchCard[day][:]
	}

	return plotpage.HeatMap{XLabels: hourLabels(), YLabels: weekdayLabels, Cells: cells}
}

func hourLabels() []string {
	labels := make([]string, hoursPerDay)
	for h := range hoursPerDay {
		labels[h] = fmt.Sprintf("%02d", h)
	}

	return labels
}

func hourlySeries(report pulse.PulseReport) []plotpage.SeriesData {
	data := make([]plotpage.SeriesData, hoursPerDay)
	for h := range hoursPerDay {
		data[h] = report.HourlyDistribution[h]
	}

	return data
}

func segmentSlices(report pulse.PulseReport) []plotpage.PieSlice {
	out := make([]plotpage.PieSlice, len(pulse.Segments))
	for i, name := range pulse.Segments {
		out[i] = plotpage.PieSlice{Name: name, Value: report.ActivityPulse[name]}
	}

	return out
}

func languageSlices(report pulse.PulseReport) []plotpage.PieSlice {
	out := make([]plotpage.PieSlice, len(report.Languages))
	for i, lang := range report.Languages {
		out[i] = plotpage.PieSlice{Name: lang.Name, Value: lang.Bytes}
	}

	return out
}

func languageHint(report pulse.PulseReport) plotpage.Hint {
	items := make([]string, 0, len(report.Languages)+1)

	for _, lang := range report.Languages {
		items = append(items, fmt.Sprintf("%s: %.1f%% (%s, %d files)",
			lang.Name, pulse.RoundPercent(lang.Percentage), humanize.IBytes(uint64(lang.Bytes)), lang.Files))
	}

	if report.Other.Files > 0 {
		items = append(items, fmt.Sprintf("Unrecognized files are not counted: %d files, %s",
			report.Other.Files, humanize.IBytes(uint64(report.Other.Bytes))))
	}

	return plotpage.Hint{Title: "Breakdown", Items: items}
}

func contributorSeries(report pulse.PulseReport) ([]string, []plotpage.SeriesData) {
	n := min(len(report.Contributors), contributorBarLimit)
	names := make([]string, n)
	commits := make([]plotpage.SeriesData, n)

	for i, c := range report.Contributors[:n] {
		names[i] = c.Name
		commits[i] = c.Commits
	}

	return names, commits
}

func contributorTable(report pulse.PulseReport) *plotpage.Table {
	table := plotpage.NewTable("Contributor", "Commits", "Added", "Deleted", "First", "Last")

	for _, c := range report.Contributors {
		table.AddHTMLRow(
			contributorCell(c),
			template.HTML(humanize.Comma(int64(c.Commits))),
			template.HTML("+"+humanize.Comma(int64(c.LinesAdded))),
			template.HTML("-"+humanize.Comma(int64(c.LinesDeleted))),
			template.HTML(c.FirstCommit.Format("2006-01-02")),
			template.HTML(c.LastCommit.Format("2006-01-02")),
		)
	}

	return table
}

func contributorCell(c pulse.ContributorStat) template.HTML {
	name := template.HTMLEscapeString(c.Name)

	if !strings.HasPrefix(c.Avatar, "https://") && !strings.HasPrefix(c.Avatar, "http://") {
		return template.HTML(name) //nolint:gosec // escaped above.
	}

	return template.HTML(fmt.Sprintf(`<img class="avatar" src="%s" alt="">%s`, //nolint:gosec // escaped.
		template.HTMLEscapeString(c.Avatar), name))
}
