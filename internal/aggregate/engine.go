// Package aggregate implements the per-chart-type aggregation strategies:
// categorical sum, time-series grouping, raw-pair filtering, and matrix
// fill. Every strategy is a pure function of (records, mapping) and
// returns an empty result for empty input rather than failing.
package aggregate

import (
	"fmt"

	apperrors "vizboard/internal/errors"

	"vizboard/domain/chart"
	"vizboard/domain/table"
)

// Engine dispatches aggregation by chart type
type Engine struct{}

// NewEngine creates an aggregation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Result carries the aggregate output for one chart type. Exactly one of
// the payload slices is populated, matching the chart type.
type Result struct {
	ChartType chart.Type              `json:"chartType"`
	Rows      []chart.AggregateRow    `json:"rows,omitempty"`
	Series    []chart.SeriesPartition `json:"series,omitempty"`
	Points    []chart.Point           `json:"points,omitempty"`
	Matrix    []chart.MatrixCell      `json:"matrix,omitempty"`

	// XCategories and YCategories carry the sorted heatmap axes so
	// consumers do not re-derive them from the matrix.
	XCategories []string `json:"xCategories,omitempty"`
	YCategories []string `json:"yCategories,omitempty"`
}

// Aggregate runs the strategy for a chart type over an already-filtered
// record view. Calling it with required roles unmapped is a caller error
// and fails fast; malformed data never does.
func (e *Engine) Aggregate(t chart.Type, records []table.Record, m chart.Mapping) (*Result, error) {
	fields, err := e.requireRoles(t, m)
	if err != nil {
		return nil, err
	}

	result := &Result{ChartType: t}
	switch t {
	case chart.TypeBar:
		result.Rows = e.CategoricalSum(records, fields[chart.RoleX], fields[chart.RoleY])
	case chart.TypePie:
		rows := e.CategoricalSum(records, fields[chart.RoleLabel], fields[chart.RoleValue])
		result.Rows = e.TopNCollapse(rows, chart.MaxPieSlices)
	case chart.TypeLine:
		group, _ := m.Field(chart.RoleGroup)
		result.Series = e.TimeSeries(records, fields[chart.RoleX], fields[chart.RoleY], group)
	case chart.TypeScatter:
		result.Points = e.NumericPairs(records, fields[chart.RoleX], fields[chart.RoleY])
	case chart.TypeHeatmap:
		matrix, xs, ys := e.MatrixFill(records, fields[chart.RoleX], fields[chart.RoleY], fields[chart.RoleValue])
		result.Matrix = matrix
		result.XCategories = xs
		result.YCategories = ys
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown chart type %q", t))
	}
	return result, nil
}

// requireRoles resolves every required role to a field name, failing fast
// on unmapped roles
func (e *Engine) requireRoles(t chart.Type, m chart.Mapping) (map[chart.Role]string, error) {
	fields := make(map[chart.Role]string)
	for _, role := range chart.RequiredRoles(t) {
		f, ok := m.Field(role)
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s role is not mapped for %s chart", role, t))
		}
		fields[role] = f
	}
	return fields, nil
}
