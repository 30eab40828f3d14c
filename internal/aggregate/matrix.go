package aggregate

import (
	"sort"

	"vizboard/domain/chart"
	"vizboard/domain/table"
)

type pairAccumulator struct {
	sum   float64
	count int
}

const pairKeySep = "\x1f"

// MatrixFill groups records by (x, y) pair and averages the value field
// per pair, then emits the full cross product of the observed x and y
// categories: |distinct x| × |distinct y| cells, row-major by x, with
// value 0 and count 0 for pairs never observed. Both axes sort ascending
// by label. The sorted axis labels are returned alongside the cells.
func (e *Engine) MatrixFill(records []table.Record, xField, yField, valField string) ([]chart.MatrixCell, []string, []string) {
	if len(records) == 0 {
		return []chart.MatrixCell{}, []string{}, []string{}
	}

	xAxis := make(map[string]table.Cell)
	yAxis := make(map[string]table.Cell)
	pairs := make(map[string]*pairAccumulator)

	for _, r := range records {
		xc := r.Get(xField)
		yc := r.Get(yField)
		xAxis[xc.Key()] = xc
		yAxis[yc.Key()] = yc

		pk := xc.Key() + pairKeySep + yc.Key()
		acc, ok := pairs[pk]
		if !ok {
			acc = &pairAccumulator{}
			pairs[pk] = acc
		}
		if v := r.Get(valField); v.IsNumber() {
			acc.sum += v.Num
		}
		acc.count++
	}

	xs := sortedAxis(xAxis)
	ys := sortedAxis(yAxis)

	cells := make([]chart.MatrixCell, 0, len(xs)*len(ys))
	for _, xc := range xs {
		for _, yc := range ys {
			cell := chart.MatrixCell{X: xc, Y: yc}
			if acc, ok := pairs[xc.Key()+pairKeySep+yc.Key()]; ok {
				cell.Value = acc.sum / float64(acc.count)
				cell.Count = acc.count
			}
			cells = append(cells, cell)
		}
	}

	return cells, axisLabels(xs), axisLabels(ys)
}

// sortedAxis orders the distinct cells of one axis ascending by label,
// breaking label collisions across kinds by canonical key
func sortedAxis(axis map[string]table.Cell) []table.Cell {
	out := make([]table.Cell, 0, len(axis))
	for _, c := range axis {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].Label(), out[j].Label()
		if li != lj {
			return li < lj
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

func axisLabels(cells []table.Cell) []string {
	labels := make([]string, 0, len(cells))
	for _, c := range cells {
		labels = append(labels, c.Label())
	}
	return labels
}
