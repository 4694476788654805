package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth      = "100%"
	chartHeight     = "420px"
	pieRadiusInner  = "40%"
	pieRadiusOuter  = "70%"
	heatLabelSize   = 9
	heatGridLeft    = "8%"
	heatGridBottom  = "22%"
	heatScaleBottom = "2%"
)

// SeriesData is a single numeric value in a chart series.
type SeriesData any

// BarSeries is one series of a bar chart.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme if empty.
	Stack string // Optional, stack grouping.
}

// LineSeries is one series of a line chart.
type LineSeries struct {
	Name        string
	Data        []SeriesData
	Color       string  // Optional, uses theme if empty.
	AreaOpacity float32 // Optional, fills the area under the line.
	Smooth      bool
}

// PieSlice is one named slice of a pie chart.
type PieSlice struct {
	Name  string
	Value SeriesData
	Color string
}

// HeatMap is a dense grid of counts indexed as Cells[y][x].
type HeatMap struct {
	XLabels []string
	YLabels []string
	Cells   [][]int
}

// BuildBarChart constructs a themed bar chart. A nil cOpts uses DefaultChartOpts.
func BuildBarChart(cOpts *ChartOpts, chartID string, labels []string, series []BarSeries, yAxisLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartID, chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	if len(labels) > maxUnzoomedLabels {
		bar.SetGlobalOptions(charts.WithDataZoomOpts(cOpts.DataZoom()...))
	}

	bar.SetXAxis(labels)

	for _, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			barData[i] = opts.BarData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: s.Stack}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}

	return bar
}

// maxUnzoomedLabels is the category count above which bar and line charts
// get a zoom slider.
const maxUnzoomedLabels = 60

// BuildLineChart constructs a themed line chart. A nil cOpts uses DefaultChartOpts.
func BuildLineChart(cOpts *ChartOpts, chartID string, labels []string, series []LineSeries, yAxisLabel string) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartID, chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	if len(labels) > maxUnzoomedLabels {
		line.SetGlobalOptions(charts.WithDataZoomOpts(cOpts.DataZoom()...))
	}

	line.SetXAxis(labels)

	for _, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for i, v := range s.Data {
			lineData[i] = opts.LineData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			)
		}

		if s.Smooth {
			seriesOpts = append(seriesOpts, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		}

		if s.AreaOpacity > 0 {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(s.AreaOpacity)}))
		}

		line.AddSeries(s.Name, lineData, seriesOpts...)
	}

	return line
}

// BuildPieChart constructs a themed donut chart. Slices without a color take
// the next palette color.
func BuildPieChart(theme Theme, chartID, name string, slices []PieSlice) *charts.Pie {
	cOpts := NewChartOpts(theme)
	palette := GetChartPalette(theme)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartID, chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	data := make([]opts.PieData, len(slices))

	for i, s := range slices {
		color := s.Color
		if color == "" {
			color = palette.Color(i)
		}

		data[i] = opts.PieData{Name: s.Name, Value: s.Value, ItemStyle: &opts.ItemStyle{Color: color}}
	}

	pie.AddSeries(name, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {d}%",
				Color:     cOpts.TextMutedColor(),
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{pieRadiusInner, pieRadiusOuter},
			}),
		)

	return pie
}

// BuildHeatMap constructs a themed heatmap from hm.
func BuildHeatMap(theme Theme, chartID, name string, hm HeatMap) *charts.HeatMap {
	cOpts := NewChartOpts(theme)

	data := make([]opts.HeatMapData, 0, len(hm.XLabels)*len(hm.YLabels))
	maxVal := 0

	for y, row := range hm.Cells {
		for x, val := range row {
			data = append(data, opts.HeatMapData{Value: []any{x, y, val}})
			maxVal = max(maxVal, val)
		}
	}

	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartID, chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: hm.XLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Interval: "0", FontSize: heatLabelSize, Color: cOpts.TextMutedColor()},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: hm.YLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: heatLabelSize, Color: cOpts.TextMutedColor()},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: 0, Max: float32(max(maxVal, 1)),
			InRange: &opts.VisualMapInRange{Color: cOpts.HeatScale()},
			Orient:  "horizontal", Left: "center", Bottom: heatScaleBottom,
		}),
		charts.WithGridOpts(opts.Grid{Left: heatGridLeft, Right: "3%", Top: "5%", Bottom: heatGridBottom}),
	)
	chart.AddSeries(name, data)

	return chart
}
