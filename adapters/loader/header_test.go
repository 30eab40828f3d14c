package loader

import (
	"reflect"
	"testing"
)

// TestAnalyzeHeader_DetectsHeaderRow verifies that a row of name-like
// fields is treated as a header
func TestAnalyzeHeader_DetectsHeaderRow(t *testing.T) {
	analysis := AnalyzeHeader([]string{"region", "revenue", "order date"})

	if analysis.FirstRowIsData {
		t.Error("Expected header row, got first-row-is-data")
	}
	want := []string{"region", "revenue", "order date"}
	if !reflect.DeepEqual(analysis.Headers, want) {
		t.Errorf("Expected headers %v, got %v", want, analysis.Headers)
	}
}

// TestAnalyzeHeader_FirstRowIsData verifies that a row of values gets
// generated column names and is kept as data
func TestAnalyzeHeader_FirstRowIsData(t *testing.T) {
	analysis := AnalyzeHeader([]string{"North", "120.5", "2023-01-15"})

	if !analysis.FirstRowIsData {
		t.Fatal("Expected first row to be treated as data")
	}
	want := []string{"column_1", "column_2", "column_3"}
	if !reflect.DeepEqual(analysis.Headers, want) {
		t.Errorf("Expected generated headers %v, got %v", want, analysis.Headers)
	}
}

// TestAnalyzeHeader_RepairsBlankNames verifies that blank fields in an
// otherwise name-like row get generated names
func TestAnalyzeHeader_RepairsBlankNames(t *testing.T) {
	analysis := AnalyzeHeader([]string{"region", "", "revenue"})

	if analysis.FirstRowIsData {
		t.Fatal("Expected header row, got first-row-is-data")
	}
	want := []string{"region", "column_2", "revenue"}
	if !reflect.DeepEqual(analysis.Headers, want) {
		t.Errorf("Expected headers %v, got %v", want, analysis.Headers)
	}
}

// TestAnalyzeHeader_DeduplicatesNames verifies that repeated column
// names get numeric suffixes
func TestAnalyzeHeader_DeduplicatesNames(t *testing.T) {
	analysis := AnalyzeHeader([]string{"value", "value", "value"})

	want := []string{"value", "value_2", "value_3"}
	if !reflect.DeepEqual(analysis.Headers, want) {
		t.Errorf("Expected deduped headers %v, got %v", want, analysis.Headers)
	}
}

// TestIsLikelyHeader exercises the name-likeness heuristic directly
func TestIsLikelyHeader(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"region", true},
		{"order date", true},
		{"Q1_revenue", true},
		{"", false},
		{"  ", false},
		{"42", false},
		{"-3.5", false},
		{"2023-01-15", false},
		{"01/15/2023", false},
		{"###", false},
	}

	for _, tc := range cases {
		if got := isLikelyHeader(tc.text); got != tc.want {
			t.Errorf("isLikelyHeader(%q): expected %v, got %v", tc.text, tc.want, got)
		}
	}
}
