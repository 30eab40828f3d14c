package chart

import "vizboard/domain/table"

// OthersLabel names the synthetic row that absorbs folded pie slices
const OthersLabel = "Others"

// MaxPieSlices caps pie output; the smallest groups beyond the top
// MaxPieSlices-1 fold into a single Others row.
const MaxPieSlices = 15

// AggregateRow is one group of a categorical aggregation. Percentages
// across one result sum to 100 when the total is positive, else all 0.
type AggregateRow struct {
	Category      table.Cell     `json:"category"`
	Value         float64        `json:"value"`
	Count         int            `json:"count"`
	Percentage    float64        `json:"percentage"`
	SourceRecords []table.Record `json:"-"`
}

// Label returns the display label of the row's category
func (r AggregateRow) Label() string {
	return r.Category.Label()
}

// SeriesPartition is one line of a time-series aggregation: the records
// that share a group value, sorted ascending by the x role. The single
// partition of an ungrouped series carries a null group cell.
type SeriesPartition struct {
	Group   table.Cell     `json:"group"`
	Records []table.Record `json:"records"`
}

// Label returns the display label of the partition's group, or empty for
// the ungrouped partition
func (p SeriesPartition) Label() string {
	if p.Group.IsNull() {
		return ""
	}
	return p.Group.Label()
}

// MatrixCell is one cell of the heatmap cross product. Pairs never
// observed in the data carry Value 0 and Count 0.
type MatrixCell struct {
	X     table.Cell `json:"x"`
	Y     table.Cell `json:"y"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
}

// Point is an (x, y) numeric pair extracted for scatter and regression
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RegressionFit is a fitted least-squares line over scatter points.
// RSquared is NaN when the fit's quality is undefined (zero y-variance
// with non-zero residuals).
type RegressionFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"rSquared"`
}
