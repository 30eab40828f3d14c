package aggregate

import (
	"sort"

	"vizboard/domain/chart"
	"vizboard/domain/table"
)

type categoryAccumulator struct {
	category table.Cell
	sum      float64
	count    int
	source   []table.Record
}

// CategoricalSum groups records by the category field and sums the value
// field per group. Null category cells form their own "(missing)" group;
// null or non-numeric values contribute 0 to the group sum but still
// count the record. Output is sorted descending by sum; groups with equal
// sums keep first-seen order.
func (e *Engine) CategoricalSum(records []table.Record, catField, valField string) []chart.AggregateRow {
	if len(records) == 0 {
		return []chart.AggregateRow{}
	}

	groups := make(map[string]*categoryAccumulator)
	order := make([]string, 0)

	for _, r := range records {
		cat := r.Get(catField)
		key := cat.Key()

		acc, ok := groups[key]
		if !ok {
			acc = &categoryAccumulator{category: cat}
			groups[key] = acc
			order = append(order, key)
		}

		if val := r.Get(valField); val.IsNumber() {
			acc.sum += val.Num
		}
		acc.count++
		acc.source = append(acc.source, r)
	}

	var total float64
	for _, key := range order {
		total += groups[key].sum
	}

	rows := make([]chart.AggregateRow, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		percentage := 0.0
		if total != 0 {
			percentage = acc.sum / total * 100
		}
		rows = append(rows, chart.AggregateRow{
			Category:      acc.category,
			Value:         acc.sum,
			Count:         acc.count,
			Percentage:    percentage,
			SourceRecords: acc.source,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	return rows
}

// TopNCollapse caps a sorted categorical result at maxRows by folding the
// smallest groups into a single synthetic Others row. The fold preserves
// the percentage invariant: the Others row carries the summed value,
// count, percentage, and source records of everything it absorbed.
func (e *Engine) TopNCollapse(rows []chart.AggregateRow, maxRows int) []chart.AggregateRow {
	if maxRows < 2 || len(rows) <= maxRows {
		return rows
	}

	kept := make([]chart.AggregateRow, 0, maxRows)
	kept = append(kept, rows[:maxRows-1]...)

	others := chart.AggregateRow{
		Category:      table.NewStringCell(chart.OthersLabel),
		SourceRecords: []table.Record{},
	}
	for _, row := range rows[maxRows-1:] {
		others.Value += row.Value
		others.Count += row.Count
		others.Percentage += row.Percentage
		others.SourceRecords = append(others.SourceRecords, row.SourceRecords...)
	}

	return append(kept, others)
}
