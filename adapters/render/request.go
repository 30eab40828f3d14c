package render

import (
	"vizboard/domain/chart"
	"vizboard/internal/aggregate"
	"vizboard/ports"
)

// BuildRequest assembles a render request from computed aggregates
func BuildRequest(title string, t chart.Type, m chart.Mapping, result *aggregate.Result, fit *chart.RegressionFit, width, height int) ports.RenderRequest {
	req := ports.RenderRequest{
		Title:   title,
		Type:    t,
		Mapping: m,
		Fit:     fit,
		Width:   width,
		Height:  height,
	}
	if result != nil {
		req.Rows = result.Rows
		req.Partitions = result.Series
		req.Points = result.Points
		req.Matrix = result.Matrix
		req.XCategories = result.XCategories
		req.YCategories = result.YCategories
	}
	return req
}
