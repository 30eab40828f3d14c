package render

import (
	"bytes"
	"context"
	"testing"
	"time"

	"vizboard/domain/chart"
	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"
	"vizboard/ports"
)

var pngSignature = []byte("\x89PNG")

func assertPNG(t *testing.T, data []byte) {
	t.Helper()
	if len(data) == 0 {
		t.Fatal("Expected PNG bytes, got empty output")
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Fatalf("Expected PNG signature, got %x", data[:4])
	}
}

// TestPNGRenderer_Bar draws a bar chart from aggregated rows
func TestPNGRenderer_Bar(t *testing.T) {
	req := ports.RenderRequest{
		Title:   "Revenue by Region",
		Type:    chart.TypeBar,
		Mapping: chart.Mapping{chart.RoleX: "region", chart.RoleY: "revenue"},
		Rows: []chart.AggregateRow{
			{Category: table.NewStringCell("North"), Value: 220, Count: 2, Percentage: 55},
			{Category: table.NewStringCell("South"), Value: 180, Count: 1, Percentage: 45},
		},
	}

	data, err := NewPNGRenderer().RenderPNG(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	assertPNG(t, data)
}

// TestPNGRenderer_Pie draws a pie chart with percentage labels
func TestPNGRenderer_Pie(t *testing.T) {
	req := ports.RenderRequest{
		Title:   "Share",
		Type:    chart.TypePie,
		Mapping: chart.Mapping{chart.RoleLabel: "region", chart.RoleValue: "revenue"},
		Rows: []chart.AggregateRow{
			{Category: table.NewStringCell("North"), Value: 60, Percentage: 60},
			{Category: table.NewStringCell("South"), Value: 40, Percentage: 40},
		},
	}

	data, err := NewPNGRenderer().RenderPNG(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	assertPNG(t, data)
}

// TestPNGRenderer_LineWithDates draws grouped time series
func TestPNGRenderer_LineWithDates(t *testing.T) {
	day := func(d int) table.Cell {
		return table.NewDateCell(time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC))
	}
	rec := func(d int, v float64) table.Record {
		return table.Record{"date": day(d), "revenue": table.NewNumberCell(v)}
	}

	req := ports.RenderRequest{
		Title:   "Revenue over Time",
		Type:    chart.TypeLine,
		Mapping: chart.Mapping{chart.RoleX: "date", chart.RoleY: "revenue"},
		Partitions: []chart.SeriesPartition{
			{Group: table.NewStringCell("Online"), Records: []table.Record{rec(1, 10), rec(2, 12), rec(3, 9)}},
			{Group: table.NewStringCell("Retail"), Records: []table.Record{rec(1, 7), rec(2, 11)}},
		},
	}

	data, err := NewPNGRenderer().RenderPNG(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	assertPNG(t, data)
}

// TestPNGRenderer_ScatterWithFit draws points plus the regression line
func TestPNGRenderer_ScatterWithFit(t *testing.T) {
	req := ports.RenderRequest{
		Title:   "Units vs Revenue",
		Type:    chart.TypeScatter,
		Mapping: chart.Mapping{chart.RoleX: "units", chart.RoleY: "revenue"},
		Points: []chart.Point{
			{X: 1, Y: 10}, {X: 2, Y: 20}, {X: 3, Y: 31}, {X: 4, Y: 39},
		},
		Fit: &chart.RegressionFit{Slope: 9.9, Intercept: 0.5, RSquared: 0.998},
	}

	data, err := NewPNGRenderer().RenderPNG(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	assertPNG(t, data)
}

// TestPNGRenderer_Heatmap draws the full category grid
func TestPNGRenderer_Heatmap(t *testing.T) {
	cell := func(x, y string, v float64, n int) chart.MatrixCell {
		return chart.MatrixCell{X: table.NewStringCell(x), Y: table.NewStringCell(y), Value: v, Count: n}
	}

	req := ports.RenderRequest{
		Title:   "Region x Channel",
		Type:    chart.TypeHeatmap,
		Mapping: chart.Mapping{chart.RoleX: "region", chart.RoleY: "channel", chart.RoleValue: "revenue"},
		Matrix: []chart.MatrixCell{
			cell("North", "Online", 10, 2), cell("North", "Retail", 5, 1),
			cell("South", "Online", 0, 0), cell("South", "Retail", 8, 3),
		},
		XCategories: []string{"North", "South"},
		YCategories: []string{"Online", "Retail"},
	}

	data, err := NewPNGRenderer().RenderPNG(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected render to succeed, got %v", err)
	}
	assertPNG(t, data)
}

// TestPNGRenderer_UnsupportedType surfaces a render error code
func TestPNGRenderer_UnsupportedType(t *testing.T) {
	_, err := NewPNGRenderer().RenderPNG(context.Background(), ports.RenderRequest{Type: chart.Type("sankey")})
	if err == nil {
		t.Fatal("Expected an error for an unsupported chart type")
	}
	if apperrors.GetCode(err) != apperrors.CodeRenderError {
		t.Errorf("Expected render error code, got %s", apperrors.GetCode(err))
	}
}

// TestPNGRenderer_EmptyData fails cleanly instead of drawing nothing
func TestPNGRenderer_EmptyData(t *testing.T) {
	_, err := NewPNGRenderer().RenderPNG(context.Background(), ports.RenderRequest{Type: chart.TypeBar})
	if err == nil {
		t.Fatal("Expected an error for empty rows")
	}
	if apperrors.GetCode(err) != apperrors.CodeRenderError {
		t.Errorf("Expected render error code, got %s", apperrors.GetCode(err))
	}
}
