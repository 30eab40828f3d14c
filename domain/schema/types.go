package schema

import "vizboard/domain/table"

// FieldKind is the inferred kind of a dataset field
type FieldKind string

const (
	KindNumeric     FieldKind = "numeric"
	KindDate        FieldKind = "date"
	KindCategorical FieldKind = "categorical"
)

// MaxSampleValues bounds the sample values retained per field
const MaxSampleValues = 5

// Stats holds descriptive statistics for a numeric field
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
}

// FieldSchema describes one field of a dataset. Stats is set only for
// numeric fields.
type FieldSchema struct {
	Name         string       `json:"name"`
	Kind         FieldKind    `json:"kind"`
	UniqueCount  int          `json:"uniqueCount"`
	NullCount    int          `json:"nullCount"`
	SampleValues []table.Cell `json:"sampleValues"`
	Stats        *Stats       `json:"stats,omitempty"`
}

// IsNumeric reports whether the field carries numbers
func (f FieldSchema) IsNumeric() bool {
	return f.Kind == KindNumeric
}

// IsTemporal reports whether the field carries dates
func (f FieldSchema) IsTemporal() bool {
	return f.Kind == KindDate
}

// IsCategorical reports whether the field carries strings
func (f FieldSchema) IsCategorical() bool {
	return f.Kind == KindCategorical
}

// Schema is the ordered field classification of a dataset. Field order
// follows the dataset's column order.
type Schema struct {
	Fields []FieldSchema `json:"fields"`

	index map[string]int
}

// New builds a schema over an ordered field list
func New(fields []FieldSchema) *Schema {
	s := &Schema{Fields: fields}
	s.reindex()
	return s
}

func (s *Schema) reindex() {
	s.index = make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		s.index[f.Name] = i
	}
}

// Field looks up a field by name
func (s *Schema) Field(name string) (FieldSchema, bool) {
	if s == nil {
		return FieldSchema{}, false
	}
	if s.index == nil {
		s.reindex()
	}
	i, ok := s.index[name]
	if !ok {
		return FieldSchema{}, false
	}
	return s.Fields[i], true
}

// Has reports whether the schema declares the named field
func (s *Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// Len returns the number of fields
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Fields)
}

// FieldsOfKind returns the fields of one kind in schema order
func (s *Schema) FieldsOfKind(kind FieldKind) []FieldSchema {
	if s == nil {
		return nil
	}
	var out []FieldSchema
	for _, f := range s.Fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// NthOfKind returns the n-th field (zero-based) of one kind in schema order
func (s *Schema) NthOfKind(kind FieldKind, n int) (FieldSchema, bool) {
	if s == nil || n < 0 {
		return FieldSchema{}, false
	}
	seen := 0
	for _, f := range s.Fields {
		if f.Kind == kind {
			if seen == n {
				return f, true
			}
			seen++
		}
	}
	return FieldSchema{}, false
}

// FirstOfKind returns the first field of one kind in schema order
func (s *Schema) FirstOfKind(kind FieldKind) (FieldSchema, bool) {
	return s.NthOfKind(kind, 0)
}

// NthField returns the n-th field (zero-based) in schema order
func (s *Schema) NthField(n int) (FieldSchema, bool) {
	if s == nil || n < 0 || n >= len(s.Fields) {
		return FieldSchema{}, false
	}
	return s.Fields[n], true
}

// Names returns the field names in schema order
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}
