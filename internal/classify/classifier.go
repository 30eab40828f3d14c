package classify

import (
	"sort"

	"github.com/montanaflynn/stats"

	"vizboard/domain/schema"
	"vizboard/domain/table"
)

// FieldClassifier infers a per-field schema from a typed dataset: the
// field kind, distinct-value count, a handful of sample values, and
// descriptive statistics for numeric fields.
type FieldClassifier struct{}

// NewFieldClassifier creates a classifier
func NewFieldClassifier() *FieldClassifier {
	return &FieldClassifier{}
}

// Classify builds the schema for a dataset. An empty dataset yields an
// empty schema rather than an error. The kind of each field follows its
// first non-null value; a field that is null throughout classifies as
// categorical with no statistics.
func (fc *FieldClassifier) Classify(ds *table.Dataset) *schema.Schema {
	if ds == nil || ds.IsEmpty() {
		return schema.New(nil)
	}

	fields := make([]schema.FieldSchema, 0, len(fc.fieldNames(ds)))
	for _, name := range fc.fieldNames(ds) {
		fields = append(fields, fc.classifyField(ds, name))
	}
	return schema.New(fields)
}

// fieldNames returns the fields to classify in a stable order: the
// dataset's column order when declared, else the first record's keys
// sorted by name.
func (fc *FieldClassifier) fieldNames(ds *table.Dataset) []string {
	if len(ds.Columns) > 0 {
		return ds.Columns
	}
	first := ds.Records[0]
	names := make([]string, 0, len(first))
	for name := range first {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// classifyField profiles one field across every record
func (fc *FieldClassifier) classifyField(ds *table.Dataset, name string) schema.FieldSchema {
	field := schema.FieldSchema{
		Name:         name,
		Kind:         schema.KindCategorical,
		SampleValues: []table.Cell{},
	}

	distinct := make(map[string]struct{})
	var numeric []float64
	kindSet := false

	for _, r := range ds.Records {
		cell := r.Get(name)
		if cell.IsNull() {
			field.NullCount++
			continue
		}

		// Kind follows the first non-null value
		if !kindSet {
			field.Kind = fc.kindOf(cell)
			kindSet = true
		}

		distinct[cell.Key()] = struct{}{}
		if len(field.SampleValues) < schema.MaxSampleValues {
			field.SampleValues = append(field.SampleValues, cell)
		}
		if cell.IsNumber() {
			numeric = append(numeric, cell.Num)
		}
	}

	field.UniqueCount = len(distinct)
	if field.Kind == schema.KindNumeric && len(numeric) > 0 {
		nonNull := len(ds.Records) - field.NullCount
		field.Stats = fc.computeStats(numeric, nonNull)
	}
	return field
}

// kindOf maps a cell kind to a field kind
func (fc *FieldClassifier) kindOf(cell table.Cell) schema.FieldKind {
	switch {
	case cell.IsNumber():
		return schema.KindNumeric
	case cell.IsDate():
		return schema.KindDate
	default:
		return schema.KindCategorical
	}
}

// computeStats summarizes the numeric values of a field. Count is the
// field's non-null total, which can exceed len(data) when a numeric field
// carries stray non-numeric values.
func (fc *FieldClassifier) computeStats(data []float64, nonNull int) *schema.Stats {
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	sum, _ := stats.Sum(data)

	return &schema.Stats{
		Min:    min,
		Max:    max,
		Mean:   mean,
		Median: median,
		Count:  nonNull,
		Sum:    sum,
	}
}
