package plotpage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRender(t *testing.T) {
	t.Parallel()

	page := NewPage("demo", "3 commits")
	page.Add(
		Section{
			Title:    "Daily commits",
			Subtitle: "per day",
			Chart: BuildBarChart(nil, "daily", []string{"2024-01-01", "2024-01-02"},
				[]BarSeries{{Name: "Commits", Data: []SeriesData{1, 2}}}, "Commits"),
			Hint: Hint{Title: "Reading", Items: []string{"Taller is busier"}},
		},
		Section{Title: "Numbers", Chart: NewGrid(2, NewStat("Commits", "3"), NewStat("Hours", "1.5").WithTrend("estimated"))},
	)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>demo | CommitPulse</title>")
	assert.Contains(t, out, DefaultAssetsHost+"echarts.min.js")
	assert.Contains(t, out, `id="daily"`)
	assert.Contains(t, out, `class="echart-box"`)
	assert.Contains(t, out, "Taller is busier")
	assert.Contains(t, out, "estimated")
	assert.Contains(t, out, `class="dark"`)
	assert.Equal(t, 1, strings.Count(out, "<!DOCTYPE"))
}

func TestPageRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	build := func() string {
		page := NewPage("demo", "").WithTheme(ThemeLight)
		page.Add(Section{Title: "Langs", Chart: BuildPieChart(ThemeLight, "langs", "Languages",
			[]PieSlice{{Name: "Go", Value: 10}, {Name: "Python", Value: 5}})})

		var buf bytes.Buffer
		require.NoError(t, page.Render(&buf))

		return buf.String()
	}

	first := build()
	assert.Equal(t, first, build())
	assert.NotContains(t, first, `class="dark"`)
}

func TestExtractChartContent(t *testing.T) {
	t.Parallel()

	doc := `<!DOCTYPE html><html><head><style>.x{}</style></head><body>` +
		`<div class="container"><style>.y{}</style><div id="c"></div></div><script>go()</script></body></html>`

	got := extractChartContent(doc)
	assert.Equal(t, `<div class="echart-box"><div id="c"></div></div><script>go()</script>`, got)

	assert.Equal(t, "<p>fragment</p>", extractChartContent("<p>fragment</p>"))
}

func TestTableEscapesPlainRows(t *testing.T) {
	t.Parallel()

	table := NewTable("Name", "Commits").
		AddRow("<b>eve</b>", "3").
		AddHTMLRow(`<img class="avatar" src="x">`, "1")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))

	out := buf.String()
	assert.Contains(t, out, "&lt;b&gt;eve&lt;/b&gt;")
	assert.Contains(t, out, `<img class="avatar" src="x">`)
	assert.Contains(t, out, "striped")
}

func TestNewGridClampsColumns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NewGrid(0).Columns)
	assert.Equal(t, maxGridColumns, NewGrid(9).Columns)
}

func TestCardAndText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewCard("Title", "Sub").WithContent(NewText("a < b")).Render(&buf))

	assert.Contains(t, buf.String(), "a &lt; b")
	assert.Contains(t, buf.String(), "<h3>Title</h3>")
}

func TestParseTheme(t *testing.T) {
	t.Parallel()

	theme, ok := ParseTheme("Light")
	assert.True(t, ok)
	assert.Equal(t, ThemeLight, theme)

	theme, ok = ParseTheme("")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, theme)

	_, ok = ParseTheme("neon")
	assert.False(t, ok)
}

func TestBuilders(t *testing.T) {
	t.Parallel()

	line := BuildLineChart(nil, "line", []string{"a", "b"},
		[]LineSeries{{Name: "Total", Data: []SeriesData{1, 3}, Color: "#fff", AreaOpacity: 0.3, Smooth: true}}, "Commits")
	require.Len(t, line.MultiSeries, 1)
	assert.Equal(t, "Total", line.MultiSeries[0].Name)

	hm := BuildHeatMap(ThemeDark, "heat", "Commits", HeatMap{
		XLabels: []string{"0", "1"},
		YLabels: []string{"Sun"},
		Cells:   [][]int{{0, 4}},
	})
	require.Len(t, hm.MultiSeries, 1)

	assert.Equal(t, "#39d353", GetChartPalette(ThemeDark).Color(10))
	assert.Empty(t, ChartPalette{}.Color(1))
}
