package aggregate

import (
	"sort"

	"vizboard/domain/chart"
	"vizboard/domain/table"
)

// TimeSeries drops records with a null x or y, partitions them by the
// optional group field, and sorts each partition ascending by x. With no
// group field the result is a single partition carrying a null group
// cell. Records with a null group cell form their own partition.
func (e *Engine) TimeSeries(records []table.Record, xField, yField, groupField string) []chart.SeriesPartition {
	filtered := make([]table.Record, 0, len(records))
	for _, r := range records {
		if r.Get(xField).IsNull() || r.Get(yField).IsNull() {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return []chart.SeriesPartition{}
	}

	if groupField == "" {
		sortByField(filtered, xField)
		return []chart.SeriesPartition{{Group: table.NullCell(), Records: filtered}}
	}

	byGroup := make(map[string]*chart.SeriesPartition)
	order := make([]string, 0)
	for _, r := range filtered {
		g := r.Get(groupField)
		key := g.Key()
		p, ok := byGroup[key]
		if !ok {
			p = &chart.SeriesPartition{Group: g}
			byGroup[key] = p
			order = append(order, key)
		}
		p.Records = append(p.Records, r)
	}

	partitions := make([]chart.SeriesPartition, 0, len(order))
	for _, key := range order {
		p := byGroup[key]
		sortByField(p.Records, xField)
		partitions = append(partitions, *p)
	}
	return partitions
}

// sortByField sorts records ascending by one field's temporal order,
// keeping input order on ties
func sortByField(records []table.Record, field string) {
	sort.SliceStable(records, func(i, j int) bool {
		return lessTemporal(records[i].Get(field), records[j].Get(field))
	})
}

// lessTemporal orders cells the way a time axis reads them: dates by
// epoch millisecond and numbers by value share one numeric scale, while
// strings sort lexicographically after everything numeric.
func lessTemporal(a, b table.Cell) bool {
	aOrd, aNumeric := temporalOrd(a)
	bOrd, bNumeric := temporalOrd(b)

	switch {
	case aNumeric && bNumeric:
		return aOrd < bOrd
	case aNumeric != bNumeric:
		return aNumeric
	default:
		return a.Label() < b.Label()
	}
}

// temporalOrd maps a cell onto the numeric time scale where possible
func temporalOrd(c table.Cell) (float64, bool) {
	switch {
	case c.IsDate():
		return float64(c.Time.UnixMilli()), true
	case c.IsNumber():
		return c.Num, true
	default:
		return 0, false
	}
}
