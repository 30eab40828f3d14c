// Package render exports aggregated chart data as PNG images.
package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"vizboard/domain/chart"
	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"
	"vizboard/ports"
)

const (
	defaultWidth  = 1024
	defaultHeight = 640
)

// palette mirrors the dashboard's series colors so exports match the
// browser view
var palette = []drawing.Color{
	drawing.ColorFromHex("5470c6"),
	drawing.ColorFromHex("91cc75"),
	drawing.ColorFromHex("fac858"),
	drawing.ColorFromHex("ee6666"),
	drawing.ColorFromHex("73c0de"),
	drawing.ColorFromHex("3ba272"),
	drawing.ColorFromHex("fc8452"),
	drawing.ColorFromHex("9a60b4"),
}

// PNGRenderer implements the Renderer port with go-chart
type PNGRenderer struct{}

// NewPNGRenderer creates a PNG renderer
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

// RenderPNG draws one chart from its aggregated data
func (r *PNGRenderer) RenderPNG(ctx context.Context, req ports.RenderRequest) ([]byte, error) {
	width, height := req.Width, req.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	var (
		buf bytes.Buffer
		err error
	)
	switch req.Type {
	case chart.TypeBar:
		err = renderBar(&buf, req, width, height)
	case chart.TypePie:
		err = renderPie(&buf, req, width, height)
	case chart.TypeLine:
		err = renderLine(&buf, req, width, height)
	case chart.TypeScatter:
		err = renderScatter(&buf, req, width, height)
	case chart.TypeHeatmap:
		err = renderHeatmap(&buf, req, width, height)
	default:
		return nil, apperrors.RenderError(fmt.Sprintf("unsupported chart type %q", req.Type), nil)
	}
	if err != nil {
		return nil, apperrors.RenderError(fmt.Sprintf("failed to render %s chart", req.Type), err)
	}
	return buf.Bytes(), nil
}

func renderBar(buf *bytes.Buffer, req ports.RenderRequest, width, height int) error {
	if len(req.Rows) == 0 {
		return fmt.Errorf("no aggregated rows to draw")
	}

	bars := make([]gochart.Value, 0, len(req.Rows))
	minVal, maxVal := 0.0, 0.0
	for _, row := range req.Rows {
		bars = append(bars, gochart.Value{Label: row.Label(), Value: row.Value})
		minVal = math.Min(minVal, row.Value)
		maxVal = math.Max(maxVal, row.Value)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	barWidth := width / (2 * len(bars))
	if barWidth < 8 {
		barWidth = 8
	}

	yField, _ := req.Mapping.Field(chart.RoleY)
	bar := gochart.BarChart{
		Title:    req.Title,
		Width:    width,
		Height:   height,
		BarWidth: barWidth,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Bottom: 30},
		},
		Bars:  bars,
		XAxis: gochart.Style{TextRotationDegrees: 45.0},
		YAxis: gochart.YAxis{
			Name:  yField,
			Range: &gochart.ContinuousRange{Min: minVal, Max: maxVal},
		},
	}
	return bar.Render(gochart.PNG, buf)
}

func renderPie(buf *bytes.Buffer, req ports.RenderRequest, width, height int) error {
	// pie slices need positive weights
	values := make([]gochart.Value, 0, len(req.Rows))
	for _, row := range req.Rows {
		if row.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", row.Label(), row.Percentage),
			Value: row.Value,
		})
	}
	if len(values) == 0 {
		return fmt.Errorf("no positive values to draw")
	}

	pie := gochart.PieChart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return pie.Render(gochart.PNG, buf)
}

func renderLine(buf *bytes.Buffer, req ports.RenderRequest, width, height int) error {
	if len(req.Partitions) == 0 {
		return fmt.Errorf("no series partitions to draw")
	}
	xField, _ := req.Mapping.Field(chart.RoleX)
	yField, _ := req.Mapping.Field(chart.RoleY)

	var series []gochart.Series
	xAxis := gochart.XAxis{Name: xField}

	switch firstXKind(req.Partitions, xField) {
	case table.KindDate:
		xAxis.ValueFormatter = gochart.TimeValueFormatter
		for i, p := range req.Partitions {
			xs := make([]time.Time, 0, len(p.Records))
			ys := make([]float64, 0, len(p.Records))
			for _, rec := range p.Records {
				x, y := rec.Get(xField), rec.Get(yField)
				if !x.IsDate() || !y.IsNumber() {
					continue
				}
				xs = append(xs, x.Time)
				ys = append(ys, y.Num)
			}
			if len(xs) == 0 {
				continue
			}
			series = append(series, gochart.TimeSeries{
				Name:    p.Label(),
				XValues: xs,
				YValues: ys,
				Style:   lineStyle(i),
			})
		}
	case table.KindNumber:
		for i, p := range req.Partitions {
			xs := make([]float64, 0, len(p.Records))
			ys := make([]float64, 0, len(p.Records))
			for _, rec := range p.Records {
				x, y := rec.Get(xField), rec.Get(yField)
				if !x.IsNumber() || !y.IsNumber() {
					continue
				}
				xs = append(xs, x.Num)
				ys = append(ys, y.Num)
			}
			if len(xs) == 0 {
				continue
			}
			series = append(series, gochart.ContinuousSeries{
				Name:    p.Label(),
				XValues: xs,
				YValues: ys,
				Style:   lineStyle(i),
			})
		}
	default:
		// string x values plot at ordinal positions with label ticks
		index, labels := labelPositions(req.Partitions, xField)
		xAxis.Ticks = categoryTicks(labels)
		for i, p := range req.Partitions {
			xs := make([]float64, 0, len(p.Records))
			ys := make([]float64, 0, len(p.Records))
			for _, rec := range p.Records {
				x, y := rec.Get(xField), rec.Get(yField)
				if x.IsNull() || !y.IsNumber() {
					continue
				}
				xs = append(xs, index[x.Label()])
				ys = append(ys, y.Num)
			}
			if len(xs) == 0 {
				continue
			}
			series = append(series, gochart.ContinuousSeries{
				Name:    p.Label(),
				XValues: xs,
				YValues: ys,
				Style:   lineStyle(i),
			})
		}
	}

	if len(series) == 0 {
		return fmt.Errorf("no drawable series")
	}

	graph := gochart.Chart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		XAxis:  xAxis,
		YAxis:  gochart.YAxis{Name: yField},
		Series: series,
	}
	if len(series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return graph.Render(gochart.PNG, buf)
}

func renderScatter(buf *bytes.Buffer, req ports.RenderRequest, width, height int) error {
	if len(req.Points) == 0 {
		return fmt.Errorf("no points to draw")
	}
	xField, _ := req.Mapping.Field(chart.RoleX)
	yField, _ := req.Mapping.Field(chart.RoleY)

	xs := make([]float64, 0, len(req.Points))
	ys := make([]float64, 0, len(req.Points))
	minX, maxX := req.Points[0].X, req.Points[0].X
	for _, p := range req.Points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}

	series := []gochart.Series{
		gochart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    4,
				DotColor:    palette[0],
			},
		},
	}

	if req.Fit != nil && maxX > minX {
		series = append(series, gochart.ContinuousSeries{
			Name:    fmt.Sprintf("fit (r2=%.3f)", req.Fit.RSquared),
			XValues: []float64{minX, maxX},
			YValues: []float64{
				req.Fit.Slope*minX + req.Fit.Intercept,
				req.Fit.Slope*maxX + req.Fit.Intercept,
			},
			Style: gochart.Style{
				StrokeColor: palette[3],
				StrokeWidth: 2,
			},
		})
	}

	graph := gochart.Chart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		XAxis:  gochart.XAxis{Name: xField},
		YAxis:  gochart.YAxis{Name: yField},
		Series: series,
	}
	if req.Fit != nil {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return graph.Render(gochart.PNG, buf)
}

func renderHeatmap(buf *bytes.Buffer, req ports.RenderRequest, width, height int) error {
	if len(req.Matrix) == 0 || len(req.XCategories) == 0 || len(req.YCategories) == 0 {
		return fmt.Errorf("no matrix cells to draw")
	}
	xField, _ := req.Mapping.Field(chart.RoleX)
	yField, _ := req.Mapping.Field(chart.RoleY)

	xIndex := make(map[string]int, len(req.XCategories))
	for i, label := range req.XCategories {
		xIndex[label] = i
	}
	yIndex := make(map[string]int, len(req.YCategories))
	for i, label := range req.YCategories {
		yIndex[label] = i
	}

	minV, maxV := req.Matrix[0].Value, req.Matrix[0].Value
	for _, cell := range req.Matrix {
		minV = math.Min(minV, cell.Value)
		maxV = math.Max(maxV, cell.Value)
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}

	xs := make([]float64, 0, len(req.Matrix))
	ys := make([]float64, 0, len(req.Matrix))
	colors := make([]drawing.Color, 0, len(req.Matrix))
	for _, cell := range req.Matrix {
		xi, okX := xIndex[cell.X.Label()]
		yi, okY := yIndex[cell.Y.Label()]
		if !okX || !okY {
			continue
		}
		xs = append(xs, float64(xi))
		ys = append(ys, float64(yi))
		colors = append(colors, heatColor((cell.Value - minV) / span))
	}

	cellPx := width / (len(req.XCategories) + 2)
	if h := height / (len(req.YCategories) + 2); h < cellPx {
		cellPx = h
	}
	dotWidth := float64(cellPx) / 2
	if dotWidth < 6 {
		dotWidth = 6
	}
	if dotWidth > 40 {
		dotWidth = 40
	}

	series := gochart.ContinuousSeries{
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeWidth: gochart.Disabled,
			DotWidth:    dotWidth,
			DotColorProvider: func(_, _ gochart.Range, index int, _, _ float64) drawing.Color {
				return colors[index]
			},
		},
	}

	graph := gochart.Chart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20},
		},
		XAxis: gochart.XAxis{
			Name:  xField,
			Ticks: categoryTicks(req.XCategories),
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(req.XCategories)) - 0.5},
		},
		YAxis: gochart.YAxis{
			Name:  yField,
			Ticks: categoryTicks(req.YCategories),
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(req.YCategories)) - 0.5},
		},
		Series: []gochart.Series{series},
	}
	return graph.Render(gochart.PNG, buf)
}

func lineStyle(i int) gochart.Style {
	return gochart.Style{
		StrokeColor: palette[i%len(palette)],
		StrokeWidth: 2,
	}
}

// firstXKind reports the kind of the first non-null x cell across the
// partitions, which decides the x axis scale
func firstXKind(partitions []chart.SeriesPartition, xField string) table.CellKind {
	for _, p := range partitions {
		for _, rec := range p.Records {
			if cell := rec.Get(xField); !cell.IsNull() {
				return cell.Kind
			}
		}
	}
	return table.KindNull
}

// labelPositions assigns each distinct x label an ordinal position,
// sorted so every partition shares one axis
func labelPositions(partitions []chart.SeriesPartition, xField string) (map[string]float64, []string) {
	seen := make(map[string]bool)
	var labels []string
	for _, p := range partitions {
		for _, rec := range p.Records {
			cell := rec.Get(xField)
			if cell.IsNull() || seen[cell.Label()] {
				continue
			}
			seen[cell.Label()] = true
			labels = append(labels, cell.Label())
		}
	}
	sort.Strings(labels)

	index := make(map[string]float64, len(labels))
	for i, label := range labels {
		index[label] = float64(i)
	}
	return index, labels
}

func categoryTicks(labels []string) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, len(labels))
	for i, label := range labels {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
	}
	return ticks
}

// heatColor blends from a pale to a deep blue as t runs 0 to 1
func heatColor(t float64) drawing.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	from := drawing.ColorFromHex("e0ecff")
	to := drawing.ColorFromHex("08306b")
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t)
	}
	return drawing.Color{R: lerp(from.R, to.R), G: lerp(from.G, to.G), B: lerp(from.B, to.B), A: 255}
}
