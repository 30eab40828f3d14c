package testkit

import (
	"testing"
)

// TestSampleGenerator_Deterministic verifies equal seeds produce equal
// datasets
func TestSampleGenerator_Deterministic(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Records = 50

	a := NewSampleGenerator(cfg).Generate()
	b := NewSampleGenerator(cfg).Generate()

	if a.Len() != b.Len() {
		t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Records {
		for _, col := range a.Columns {
			if !a.Records[i].Get(col).Equal(b.Records[i].Get(col)) {
				t.Fatalf("record %d field %s differs between runs", i, col)
			}
		}
	}
}

// TestSampleGenerator_Shape verifies column coverage and record count
func TestSampleGenerator_Shape(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Records = 120

	ds := NewSampleGenerator(cfg).Generate()
	if ds.Len() != 120 {
		t.Errorf("got %d records, expected 120", ds.Len())
	}
	if len(ds.Columns) != 7 {
		t.Errorf("got %d columns, expected 7", len(ds.Columns))
	}

	// The generator must produce every kind the charts need
	r := ds.Records[0]
	if !r.Get("date").IsDate() {
		t.Error("date column should hold dates")
	}
	if !r.Get("region").IsString() {
		t.Error("region column should hold strings")
	}
	hasNumber := false
	for _, rec := range ds.Records {
		if rec.Get("revenue").IsNumber() {
			hasNumber = true
			break
		}
	}
	if !hasNumber {
		t.Error("revenue column should hold numbers")
	}
}

// TestSampleGenerator_MissingRate verifies nulls appear but stay rare
func TestSampleGenerator_MissingRate(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Records = 2000
	cfg.MissingRate = 0.05

	ds := NewSampleGenerator(cfg).Generate()

	nulls := 0
	for _, r := range ds.Records {
		for _, col := range ds.Columns {
			if r.Get(col).IsNull() {
				nulls++
			}
		}
	}
	if nulls == 0 {
		t.Error("expected some null cells at a 5% missing rate")
	}
	if nulls > 2000 {
		t.Errorf("got %d nulls, expected at most one per record", nulls)
	}
}

// TestSampleGenerator_ZeroMissingRate verifies a clean dataset option
func TestSampleGenerator_ZeroMissingRate(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Records = 300
	cfg.MissingRate = 0

	ds := NewSampleGenerator(cfg).Generate()
	for i, r := range ds.Records {
		for _, col := range ds.Columns {
			if r.Get(col).IsNull() {
				t.Fatalf("record %d field %s is null with missing rate 0", i, col)
			}
		}
	}
}
