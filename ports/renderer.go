package ports

import (
	"context"

	"vizboard/domain/chart"
)

// Renderer defines the interface for exporting aggregated chart data as
// a static image
type Renderer interface {
	RenderPNG(ctx context.Context, req RenderRequest) ([]byte, error)
}

// RenderRequest carries everything a renderer needs for one chart. Only
// the fields matching the chart type are populated: Rows for bar and
// pie, Partitions for line, Points and Fit for scatter, Matrix plus the
// category axes for heatmap.
type RenderRequest struct {
	Title   string        `json:"title"`
	Type    chart.Type    `json:"type"`
	Mapping chart.Mapping `json:"mapping"`

	Rows       []chart.AggregateRow   `json:"rows,omitempty"`
	Partitions []chart.SeriesPartition `json:"partitions,omitempty"`
	Points     []chart.Point          `json:"points,omitempty"`
	Fit        *chart.RegressionFit   `json:"fit,omitempty"`

	Matrix      []chart.MatrixCell `json:"matrix,omitempty"`
	XCategories []string           `json:"x_categories,omitempty"`
	YCategories []string           `json:"y_categories,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`
}
