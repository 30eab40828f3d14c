package table

// Record is one row of a dataset keyed by field name. Fields absent from
// the map read as null cells.
type Record map[string]Cell

// Get returns the cell for a field, or the null cell when absent
func (r Record) Get(field string) Cell {
	if c, ok := r[field]; ok {
		return c
	}
	return NullCell()
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered collection of records. Columns preserves the field
// order of the source so "first field of a kind" rules are stable.
type Dataset struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// NewDataset builds a dataset from an ordered column list and rows
func NewDataset(columns []string, records []Record) *Dataset {
	if records == nil {
		records = []Record{}
	}
	return &Dataset{Columns: columns, Records: records}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// IsEmpty reports whether the dataset holds no records
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// HasColumn reports whether the dataset declares the named column
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnValues returns the cells of one column in record order
func (d *Dataset) ColumnValues(name string) []Cell {
	if d == nil {
		return nil
	}
	out := make([]Cell, 0, len(d.Records))
	for _, r := range d.Records {
		out = append(out, r.Get(name))
	}
	return out
}
