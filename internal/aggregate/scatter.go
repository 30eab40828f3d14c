package aggregate

import (
	"vizboard/domain/chart"
	"vizboard/domain/table"
)

// ScatterRecords filters to records where both x and y are non-null
// numbers. No grouping, no aggregation; record order is preserved.
func (e *Engine) ScatterRecords(records []table.Record, xField, yField string) []table.Record {
	out := make([]table.Record, 0, len(records))
	for _, r := range records {
		if r.Get(xField).IsNumber() && r.Get(yField).IsNumber() {
			out = append(out, r)
		}
	}
	return out
}

// NumericPairs extracts the (x, y) pairs of the scatter filter, ready for
// plotting or regression
func (e *Engine) NumericPairs(records []table.Record, xField, yField string) []chart.Point {
	filtered := e.ScatterRecords(records, xField, yField)
	points := make([]chart.Point, 0, len(filtered))
	for _, r := range filtered {
		points = append(points, chart.Point{
			X: r.Get(xField).Num,
			Y: r.Get(yField).Num,
		})
	}
	return points
}
