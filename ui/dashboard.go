package ui

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"vizboard/domain/chart"
	"vizboard/domain/table"
	"vizboard/domain/view"
	"vizboard/internal/aggregate"
	apperrors "vizboard/internal/errors"
)

const (
	dashboardChartWidth  = "620px"
	dashboardChartHeight = "420px"
)

type dashboardChart struct {
	view   *view.SavedView
	result *aggregate.Result
	fit    *chart.RegressionFit
	err    error
}

// handleDashboard renders the saved views of the active dataset as an
// interactive chart page. Aggregation runs per view, bounded by the
// chart semaphore.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	info := a.store.Info()
	if info.DatasetID == "" {
		writeEmptyDashboard(w, "No dataset loaded",
			"Upload a dataset, fetch one from a URL, or POST /api/datasets/sample to get started.")
		return
	}

	views, err := a.views.ListByDataset(r.Context(), info.DatasetID)
	if err != nil {
		respondError(w, err)
		return
	}
	if len(views) == 0 {
		writeEmptyDashboard(w, fmt.Sprintf("No saved views for %s", info.Name),
			"Save a view through POST /api/views and it will appear here.")
		return
	}

	computed := make([]dashboardChart, len(views))
	var wg sync.WaitGroup
	for i, v := range views {
		wg.Add(1)
		go func(i int, v *view.SavedView) {
			defer wg.Done()
			if err := a.chartSem.Acquire(r.Context(), 1); err != nil {
				computed[i] = dashboardChart{view: v, err: err}
				return
			}
			defer a.chartSem.Release(1)

			result, fit, err := a.viewChartData(v)
			computed[i] = dashboardChart{view: v, result: result, fit: fit, err: err}
		}(i, v)
	}
	wg.Wait()

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	for _, c := range computed {
		if c.err != nil {
			a.logger.Warn("[Dashboard] Skipping view %q: %v", c.view.Name, c.err)
			continue
		}
		charter, err := buildDashboardChart(c)
		if err != nil {
			a.logger.Warn("[Dashboard] Skipping view %q: %v", c.view.Name, err)
			continue
		}
		page.AddCharts(charter)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		a.logger.Error("[Dashboard] Render failed: %v", err)
	}
}

func buildDashboardChart(c dashboardChart) (components.Charter, error) {
	v := c.view
	switch v.ChartType {
	case chart.TypeBar:
		return dashboardBar(v, c.result), nil
	case chart.TypePie:
		return dashboardPie(v, c.result), nil
	case chart.TypeLine:
		return dashboardLine(v, c.result), nil
	case chart.TypeScatter:
		return dashboardScatter(v, c.result), nil
	case chart.TypeHeatmap:
		return dashboardHeatmap(v, c.result), nil
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown chart type %q", v.ChartType))
	}
}

func dashboardBar(v *view.SavedView, result *aggregate.Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: v.Name}),
		charts.WithInitializationOpts(opts.Initialization{Width: dashboardChartWidth, Height: dashboardChartHeight}),
	)

	labels := make([]string, 0, len(result.Rows))
	data := make([]opts.BarData, 0, len(result.Rows))
	for _, row := range result.Rows {
		labels = append(labels, row.Label())
		data = append(data, opts.BarData{Value: row.Value})
	}
	bar.SetXAxis(labels).AddSeries(roleField(v.Mapping, chart.RoleY, "value"), data)
	return bar
}

func dashboardPie(v *view.SavedView, result *aggregate.Result) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: v.Name}),
		charts.WithInitializationOpts(opts.Initialization{Width: dashboardChartWidth, Height: dashboardChartHeight}),
	)

	data := make([]opts.PieData, 0, len(result.Rows))
	for _, row := range result.Rows {
		data = append(data, opts.PieData{Name: row.Label(), Value: row.Value})
	}
	pie.AddSeries(roleField(v.Mapping, chart.RoleValue, "value"), data)
	return pie
}

func dashboardLine(v *view.SavedView, result *aggregate.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: v.Name}),
		charts.WithInitializationOpts(opts.Initialization{Width: dashboardChartWidth, Height: dashboardChartHeight}),
	)

	xField := roleField(v.Mapping, chart.RoleX, "")
	yField := roleField(v.Mapping, chart.RoleY, "")
	labels := unionAxisLabels(result.Series, xField)
	line.SetXAxis(labels)

	for _, p := range result.Series {
		name := p.Label()
		if name == "" {
			name = yField
		}
		byLabel := make(map[string]float64, len(p.Records))
		for _, rec := range p.Records {
			x := rec.Get(xField)
			y := rec.Get(yField)
			if x.IsNull() || !y.IsNumber() {
				continue
			}
			byLabel[x.Label()] = y.Num
		}
		data := make([]opts.LineData, len(labels))
		for i, label := range labels {
			if val, ok := byLabel[label]; ok {
				data[i] = opts.LineData{Value: val}
			} else {
				data[i] = opts.LineData{Value: nil}
			}
		}
		line.AddSeries(name, data)
	}
	return line
}

func dashboardScatter(v *view.SavedView, result *aggregate.Result) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: v.Name}),
		charts.WithInitializationOpts(opts.Initialization{Width: dashboardChartWidth, Height: dashboardChartHeight}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: roleField(v.Mapping, chart.RoleX, "x")}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: roleField(v.Mapping, chart.RoleY, "y")}),
	)

	data := make([]opts.ScatterData, 0, len(result.Points))
	for _, p := range result.Points {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
	}
	scatter.AddSeries(roleField(v.Mapping, chart.RoleY, "y"), data)
	return scatter
}

func dashboardHeatmap(v *view.SavedView, result *aggregate.Result) *charts.HeatMap {
	min, max := matrixValueRange(result.Matrix)

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: v.Name}),
		charts.WithInitializationOpts(opts.Initialization{Width: dashboardChartWidth, Height: dashboardChartHeight}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: result.XCategories}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: result.YCategories}),
		charts.WithVisualMapOpts(opts.VisualMap{Min: float32(min), Max: float32(max)}),
	)

	xIndex := indexOf(result.XCategories)
	yIndex := indexOf(result.YCategories)
	data := make([]opts.HeatMapData, 0, len(result.Matrix))
	for _, cell := range result.Matrix {
		data = append(data, opts.HeatMapData{
			Value: [3]interface{}{xIndex[cell.X.Label()], yIndex[cell.Y.Label()], cell.Value},
		})
	}
	heatmap.AddSeries(roleField(v.Mapping, chart.RoleValue, "value"), data)
	return heatmap
}

func roleField(m chart.Mapping, role chart.Role, fallback string) string {
	if f, ok := m.Field(role); ok {
		return f
	}
	return fallback
}

// unionAxisLabels merges the x labels of all partitions into one ordered
// category axis. Dates order chronologically, numbers numerically, the
// rest lexicographically.
func unionAxisLabels(partitions []chart.SeriesPartition, xField string) []string {
	seen := make(map[string]bool)
	var cells []table.Cell
	for _, p := range partitions {
		for _, rec := range p.Records {
			c := rec.Get(xField)
			if c.IsNull() {
				continue
			}
			if label := c.Label(); !seen[label] {
				seen[label] = true
				cells = append(cells, c)
			}
		}
	}

	sort.SliceStable(cells, func(i, j int) bool { return cellLess(cells[i], cells[j]) })
	labels := make([]string, len(cells))
	for i, c := range cells {
		labels[i] = c.Label()
	}
	return labels
}

func cellLess(a, b table.Cell) bool {
	switch {
	case a.IsDate() && b.IsDate():
		return a.Time.Before(b.Time)
	case a.IsNumber() && b.IsNumber():
		return a.Num < b.Num
	default:
		return a.Label() < b.Label()
	}
}

func matrixValueRange(matrix []chart.MatrixCell) (float64, float64) {
	if len(matrix) == 0 {
		return 0, 1
	}
	min, max := matrix[0].Value, matrix[0].Value
	for _, c := range matrix[1:] {
		if c.Value < min {
			min = c.Value
		}
		if c.Value > max {
			max = c.Value
		}
	}
	if min == max {
		max = min + 1
	}
	return min, max
}

func indexOf(labels []string) map[string]int {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	return index
}

const emptyDashboardTemplate = `<!DOCTYPE html>
<html>
<head><title>vizboard</title>
<style>
body { font-family: sans-serif; margin: 4rem auto; max-width: 40rem; color: #333; }
h1 { font-size: 1.4rem; }
a { color: #5470c6; }
</style>
</head>
<body>
<h1>%s</h1>
<p>%s</p>
<p>See the <a href="/help">usage guide</a> for the full API.</p>
</body>
</html>
`

func writeEmptyDashboard(w http.ResponseWriter, title, hint string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, emptyDashboardTemplate, title, hint)
}
