package mapping

import (
	"testing"

	"vizboard/domain/chart"
	"vizboard/domain/schema"
)

// retailSchema mirrors a typical sales upload: one categorical, one date,
// three numeric fields, a second categorical.
func retailSchema() *schema.Schema {
	return schema.New([]schema.FieldSchema{
		{Name: "region", Kind: schema.KindCategorical},
		{Name: "date", Kind: schema.KindDate},
		{Name: "revenue", Kind: schema.KindNumeric},
		{Name: "units", Kind: schema.KindNumeric},
		{Name: "margin", Kind: schema.KindNumeric},
		{Name: "channel", Kind: schema.KindCategorical},
	})
}

// TestFieldMapper_SuggestBar verifies bar defaults to first categorical x
// and first numeric y
func TestFieldMapper_SuggestBar(t *testing.T) {
	fm := NewFieldMapper()
	m := fm.Suggest(chart.TypeBar, retailSchema())

	if f, _ := m.Field(chart.RoleX); f != "region" {
		t.Errorf("bar x = %q, expected region", f)
	}
	if f, _ := m.Field(chart.RoleY); f != "revenue" {
		t.Errorf("bar y = %q, expected revenue", f)
	}
}

// TestFieldMapper_SuggestLine verifies line prefers a date x
func TestFieldMapper_SuggestLine(t *testing.T) {
	fm := NewFieldMapper()
	m := fm.Suggest(chart.TypeLine, retailSchema())

	if f, _ := m.Field(chart.RoleX); f != "date" {
		t.Errorf("line x = %q, expected date", f)
	}
	if f, _ := m.Field(chart.RoleY); f != "revenue" {
		t.Errorf("line y = %q, expected revenue", f)
	}
}

// TestFieldMapper_SuggestLineWithoutDates verifies the numeric fallback
func TestFieldMapper_SuggestLineWithoutDates(t *testing.T) {
	fm := NewFieldMapper()
	s := schema.New([]schema.FieldSchema{
		{Name: "label", Kind: schema.KindCategorical},
		{Name: "score", Kind: schema.KindNumeric},
	})
	m := fm.Suggest(chart.TypeLine, s)

	if f, _ := m.Field(chart.RoleX); f != "score" {
		t.Errorf("line x = %q, expected score (first numeric fallback)", f)
	}
}

// TestFieldMapper_SuggestScatter verifies distinct numeric x/y plus
// optional size and color
func TestFieldMapper_SuggestScatter(t *testing.T) {
	fm := NewFieldMapper()
	m := fm.Suggest(chart.TypeScatter, retailSchema())

	if f, _ := m.Field(chart.RoleX); f != "revenue" {
		t.Errorf("scatter x = %q, expected revenue", f)
	}
	if f, _ := m.Field(chart.RoleY); f != "units" {
		t.Errorf("scatter y = %q, expected units", f)
	}
	if f, _ := m.Field(chart.RoleSize); f != "margin" {
		t.Errorf("scatter size = %q, expected margin", f)
	}
	if f, _ := m.Field(chart.RoleColor); f != "region" {
		t.Errorf("scatter color = %q, expected region", f)
	}
}

// TestFieldMapper_SuggestScatterSingleNumeric verifies y stays unmapped
// when no second numeric field exists
func TestFieldMapper_SuggestScatterSingleNumeric(t *testing.T) {
	fm := NewFieldMapper()
	s := schema.New([]schema.FieldSchema{
		{Name: "name", Kind: schema.KindCategorical},
		{Name: "score", Kind: schema.KindNumeric},
	})
	m := fm.Suggest(chart.TypeScatter, s)

	if _, ok := m.Field(chart.RoleY); ok {
		t.Error("scatter y should stay unmapped with a single numeric field")
	}

	v := fm.Validate(chart.TypeScatter, m, s)
	if v.IsValid {
		t.Error("mapping without y should be invalid for scatter")
	}
}

// TestFieldMapper_SuggestPieAndHeatmap verifies the remaining defaults
func TestFieldMapper_SuggestPieAndHeatmap(t *testing.T) {
	fm := NewFieldMapper()
	s := retailSchema()

	pie := fm.Suggest(chart.TypePie, s)
	if f, _ := pie.Field(chart.RoleLabel); f != "region" {
		t.Errorf("pie label = %q, expected region", f)
	}
	if f, _ := pie.Field(chart.RoleValue); f != "revenue" {
		t.Errorf("pie value = %q, expected revenue", f)
	}

	hm := fm.Suggest(chart.TypeHeatmap, s)
	if f, _ := hm.Field(chart.RoleX); f != "region" {
		t.Errorf("heatmap x = %q, expected region", f)
	}
	if f, _ := hm.Field(chart.RoleY); f != "channel" {
		t.Errorf("heatmap y = %q, expected channel", f)
	}
	if f, _ := hm.Field(chart.RoleValue); f != "revenue" {
		t.Errorf("heatmap value = %q, expected revenue", f)
	}
}

// TestFieldMapper_SuggestEmptySchema verifies no roles are invented
func TestFieldMapper_SuggestEmptySchema(t *testing.T) {
	fm := NewFieldMapper()

	m := fm.Suggest(chart.TypeBar, schema.New(nil))
	if len(m) != 0 {
		t.Errorf("suggest on empty schema produced %v, expected empty mapping", m)
	}
}

// TestFieldMapper_ValidateMissingRequired verifies the exact error string
// for an unmapped required role
func TestFieldMapper_ValidateMissingRequired(t *testing.T) {
	fm := NewFieldMapper()
	s := retailSchema()

	v := fm.Validate(chart.TypeBar, chart.Mapping{chart.RoleX: "region"}, s)
	if v.IsValid {
		t.Error("mapping without y should be invalid")
	}
	if len(v.Errors) != 1 {
		t.Fatalf("got %d errors, expected 1: %v", len(v.Errors), v.Errors)
	}
	if v.Errors[0] != "y field is required for bar chart" {
		t.Errorf("error = %q, expected %q", v.Errors[0], "y field is required for bar chart")
	}
}

// TestFieldMapper_ValidateUnknownField verifies the exact error string for
// a field missing from the dataset
func TestFieldMapper_ValidateUnknownField(t *testing.T) {
	fm := NewFieldMapper()
	s := retailSchema()

	m := chart.Mapping{chart.RoleX: "region", chart.RoleY: "profit"}
	v := fm.Validate(chart.TypeBar, m, s)
	if v.IsValid {
		t.Error("mapping to a nonexistent field should be invalid")
	}
	if len(v.Errors) != 1 || v.Errors[0] != "Field 'profit' does not exist in dataset" {
		t.Errorf("errors = %v, expected [Field 'profit' does not exist in dataset]", v.Errors)
	}
}

// TestFieldMapper_ValidateKindMismatchWarns verifies kind mismatches warn
// without invalidating
func TestFieldMapper_ValidateKindMismatchWarns(t *testing.T) {
	fm := NewFieldMapper()
	s := retailSchema()

	// categorical y on a bar chart: usable, but worth flagging
	m := chart.Mapping{chart.RoleX: "region", chart.RoleY: "channel"}
	v := fm.Validate(chart.TypeBar, m, s)

	if !v.IsValid {
		t.Errorf("kind mismatch should not invalidate: %v", v.Errors)
	}
	if len(v.Warnings) != 1 {
		t.Fatalf("got %d warnings, expected 1: %v", len(v.Warnings), v.Warnings)
	}
}

// TestFieldMapper_ValidateHeatmapRequiresValue verifies the three-role
// requirement
func TestFieldMapper_ValidateHeatmapRequiresValue(t *testing.T) {
	fm := NewFieldMapper()
	s := retailSchema()

	m := chart.Mapping{chart.RoleX: "region", chart.RoleY: "channel"}
	v := fm.Validate(chart.TypeHeatmap, m, s)

	if v.IsValid {
		t.Error("heatmap without value should be invalid")
	}
	if len(v.Errors) != 1 || v.Errors[0] != "value field is required for heatmap chart" {
		t.Errorf("errors = %v", v.Errors)
	}
}

// TestFieldMapper_SuggestThenValidate verifies the self-consistency law:
// suggested mappings validate cleanly on a schema with suitable fields
func TestFieldMapper_SuggestThenValidate(t *testing.T) {
	fm := NewFieldMapper()
	s := retailSchema()

	for _, ct := range chart.Types() {
		m := fm.Suggest(ct, s)
		v := fm.Validate(ct, m, s)
		if !v.IsValid {
			t.Errorf("%s: suggested mapping failed validation: %v", ct, v.Errors)
		}
	}
}
