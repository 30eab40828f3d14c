package table

import "time"

// FilterOp selects the predicate a Filter applies
type FilterOp string

const (
	// FilterIn keeps records whose cell label is in Values
	FilterIn FilterOp = "in"
	// FilterRange keeps records whose numeric cell falls in [Min, Max]
	FilterRange FilterOp = "range"
	// FilterDateRange keeps records whose date cell falls in [From, To]
	FilterDateRange FilterOp = "date_range"
)

// Filter is a single-field predicate. Records whose cell is null for the
// filtered field never match, whatever the operator.
type Filter struct {
	Field  string     `json:"field"`
	Op     FilterOp   `json:"op"`
	Values []string   `json:"values,omitempty"`
	Min    *float64   `json:"min,omitempty"`
	Max    *float64   `json:"max,omitempty"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
}

// Match reports whether the record passes this filter
func (f Filter) Match(r Record) bool {
	cell := r.Get(f.Field)
	if cell.IsNull() {
		return false
	}
	switch f.Op {
	case FilterIn:
		label := cell.Label()
		for _, v := range f.Values {
			if v == label {
				return true
			}
		}
		return false
	case FilterRange:
		if !cell.IsNumber() {
			return false
		}
		if f.Min != nil && cell.Num < *f.Min {
			return false
		}
		if f.Max != nil && cell.Num > *f.Max {
			return false
		}
		return true
	case FilterDateRange:
		if !cell.IsDate() {
			return false
		}
		if f.From != nil && cell.Time.Before(*f.From) {
			return false
		}
		if f.To != nil && cell.Time.After(*f.To) {
			return false
		}
		return true
	default:
		return false
	}
}

// FilterSet is a conjunction of filters. The empty set matches everything.
type FilterSet []Filter

// Match reports whether the record passes every filter in the set
func (fs FilterSet) Match(r Record) bool {
	for _, f := range fs {
		if !f.Match(r) {
			return false
		}
	}
	return true
}

// Apply returns the records that pass the set, preserving order
func (fs FilterSet) Apply(records []Record) []Record {
	if len(fs) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if fs.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
