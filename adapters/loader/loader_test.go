package loader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	apperrors "vizboard/internal/errors"
)

// TestLoader_CSVWithHeaders verifies that a headed CSV produces coerced
// records under the original column names
func TestLoader_CSVWithHeaders(t *testing.T) {
	csv := "region,revenue,date,note\n" +
		"North,120.5,2023-01-15,ok\n" +
		"South,80,2023-01-16,\n" +
		",40,bad-date,last\n"

	ds, err := New().LoadReader(strings.NewReader(csv), FormatCSV, "sales.csv")
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}

	wantCols := []string{"region", "revenue", "date", "note"}
	if !reflect.DeepEqual(ds.Columns, wantCols) {
		t.Errorf("Expected columns %v, got %v", wantCols, ds.Columns)
	}
	if ds.Len() != 3 {
		t.Fatalf("Expected 3 records, got %d", ds.Len())
	}

	first := ds.Records[0]
	if !first.Get("region").IsString() || first.Get("region").Str != "North" {
		t.Errorf("Expected region 'North', got %+v", first.Get("region"))
	}
	if !first.Get("revenue").IsNumber() || first.Get("revenue").Num != 120.5 {
		t.Errorf("Expected revenue 120.5, got %+v", first.Get("revenue"))
	}
	if !first.Get("date").IsDate() {
		t.Errorf("Expected date cell, got %+v", first.Get("date"))
	}

	if !ds.Records[1].Get("note").IsNull() {
		t.Error("Expected empty note to coerce to null")
	}
	if !ds.Records[2].Get("region").IsNull() {
		t.Error("Expected empty region to coerce to null")
	}
	if !ds.Records[2].Get("date").IsString() {
		t.Errorf("Expected invalid date to stay a string, got %+v", ds.Records[2].Get("date"))
	}
}

// TestLoader_CSVFirstRowIsData verifies that a headerless CSV keeps its
// first row and generates column names
func TestLoader_CSVFirstRowIsData(t *testing.T) {
	csv := "North,120.5,2023-01-15\nSouth,80,2023-01-16\n"

	ds, err := New().LoadReader(strings.NewReader(csv), FormatCSV, "raw.csv")
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}

	wantCols := []string{"column_1", "column_2", "column_3"}
	if !reflect.DeepEqual(ds.Columns, wantCols) {
		t.Errorf("Expected generated columns %v, got %v", wantCols, ds.Columns)
	}
	if ds.Len() != 2 {
		t.Errorf("Expected both rows kept as records, got %d", ds.Len())
	}
	if !ds.Records[0].Get("column_2").IsNumber() {
		t.Errorf("Expected column_2 to be numeric, got %+v", ds.Records[0].Get("column_2"))
	}
}

// TestLoader_CSVRaggedRows verifies that short rows read missing cells
// as null
func TestLoader_CSVRaggedRows(t *testing.T) {
	csv := "region,revenue,note\nNorth,10\n"

	ds, err := New().LoadReader(strings.NewReader(csv), FormatCSV, "ragged.csv")
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("Expected 1 record, got %d", ds.Len())
	}
	if !ds.Records[0].Get("note").IsNull() {
		t.Errorf("Expected missing trailing cell to read null, got %+v", ds.Records[0].Get("note"))
	}
}

// TestLoader_CSVStripsBOM verifies that a UTF-8 byte order mark does not
// leak into the first column name
func TestLoader_CSVStripsBOM(t *testing.T) {
	csv := "\uFEFFregion,revenue\nNorth,10\n"

	ds, err := New().LoadReader(strings.NewReader(csv), FormatCSV, "bom.csv")
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if ds.Columns[0] != "region" {
		t.Errorf("Expected first column 'region', got %q", ds.Columns[0])
	}
}

// TestLoader_JSONArray verifies column order, typed values, and the
// handling of missing and extra keys
func TestLoader_JSONArray(t *testing.T) {
	payload := `[
		{"region": "North", "revenue": 120.5, "when": "2023-01-15", "flag": true, "note": null},
		{"revenue": 80, "region": "South", "extra": 1}
	]`

	ds, err := New().LoadReader(strings.NewReader(payload), FormatJSON, "sales.json")
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}

	wantCols := []string{"region", "revenue", "when", "flag", "note"}
	if !reflect.DeepEqual(ds.Columns, wantCols) {
		t.Errorf("Expected first-object column order %v, got %v", wantCols, ds.Columns)
	}
	if ds.Len() != 2 {
		t.Fatalf("Expected 2 records, got %d", ds.Len())
	}

	first := ds.Records[0]
	if !first.Get("revenue").IsNumber() || first.Get("revenue").Num != 120.5 {
		t.Errorf("Expected typed number 120.5, got %+v", first.Get("revenue"))
	}
	if !first.Get("when").IsDate() {
		t.Errorf("Expected date-shaped string to become a date, got %+v", first.Get("when"))
	}
	if !first.Get("flag").IsString() || first.Get("flag").Str != "true" {
		t.Errorf("Expected bool to become string 'true', got %+v", first.Get("flag"))
	}
	if !first.Get("note").IsNull() {
		t.Errorf("Expected json null to read null, got %+v", first.Get("note"))
	}

	second := ds.Records[1]
	if !second.Get("when").IsNull() {
		t.Error("Expected omitted key to read null")
	}
	if _, ok := second["extra"]; ok {
		t.Error("Expected key absent from the first object to be ignored")
	}
}

// TestLoader_JSONEmptyArray verifies that an empty array yields an
// empty dataset rather than an error
func TestLoader_JSONEmptyArray(t *testing.T) {
	ds, err := New().LoadReader(strings.NewReader("[]"), FormatJSON, "empty.json")
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if !ds.IsEmpty() {
		t.Errorf("Expected empty dataset, got %d records", ds.Len())
	}
}

// TestLoader_JSONRejectsNonArray verifies that a top-level object is an
// error
func TestLoader_JSONRejectsNonArray(t *testing.T) {
	_, err := New().LoadReader(strings.NewReader(`{"a": 1}`), FormatJSON, "bad.json")
	if err == nil {
		t.Fatal("Expected an error for a non-array payload")
	}
	if apperrors.GetCode(err) != apperrors.CodeLoadError {
		t.Errorf("Expected load error code, got %s", apperrors.GetCode(err))
	}
}

// TestLoader_MaxBytes verifies that oversized sources are rejected
func TestLoader_MaxBytes(t *testing.T) {
	csv := "region,revenue\nNorth,10\nSouth,20\n"

	_, err := New(WithMaxBytes(10)).LoadReader(strings.NewReader(csv), FormatCSV, "big.csv")
	if err == nil {
		t.Fatal("Expected an error for a source over the byte limit")
	}
	if apperrors.GetCode(err) != apperrors.CodeLoadError {
		t.Errorf("Expected load error code, got %s", apperrors.GetCode(err))
	}
}

// TestLoader_LoadFileRejectsUnknownExtension verifies the extension
// check fires before any file IO
func TestLoader_LoadFileRejectsUnknownExtension(t *testing.T) {
	_, err := New().LoadFile("data.parquet")
	if err == nil {
		t.Fatal("Expected an error for an unsupported extension")
	}
}

// TestDetectFormat covers extension and content-type resolution
func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		want        Format
	}{
		{"sales.csv", "", FormatCSV},
		{"sales.tsv", "", FormatCSV},
		{"report.XLSX", "", FormatExcel},
		{"data.json", "", FormatJSON},
		{"data", "text/csv; charset=utf-8", FormatCSV},
		{"data", "application/json", FormatJSON},
		{"data", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatExcel},
		{"data", "application/octet-stream", FormatUnknown},
		{"", "", FormatUnknown},
	}

	for _, tc := range cases {
		if got := DetectFormat(tc.name, tc.contentType); got != tc.want {
			t.Errorf("DetectFormat(%q, %q): expected %q, got %q", tc.name, tc.contentType, tc.want, got)
		}
	}
}

// TestLoader_FetchURL verifies remote CSV ingestion end to end against
// a local test server
func TestLoader_FetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "region,revenue\nNorth,10\nSouth,20\n")
	}))
	defer srv.Close()

	ds, name, err := New().FetchURL(context.Background(), srv.URL+"/sales.csv", FormatUnknown)
	if err != nil {
		t.Fatalf("Expected fetch to succeed, got %v", err)
	}
	if name != "sales.csv" {
		t.Errorf("Expected display name 'sales.csv', got %q", name)
	}
	if ds.Len() != 2 {
		t.Errorf("Expected 2 records, got %d", ds.Len())
	}
	if !ds.Records[0].Get("revenue").IsNumber() {
		t.Errorf("Expected numeric revenue, got %+v", ds.Records[0].Get("revenue"))
	}
}

// TestLoader_FetchURLRejectsBadScheme verifies that non-http schemes
// are refused
func TestLoader_FetchURLRejectsBadScheme(t *testing.T) {
	_, _, err := New().FetchURL(context.Background(), "ftp://example.com/data.csv", FormatUnknown)
	if err == nil {
		t.Fatal("Expected an error for an ftp url")
	}
	if apperrors.GetCode(err) != apperrors.CodeLoadError {
		t.Errorf("Expected load error code, got %s", apperrors.GetCode(err))
	}
}

// TestLoader_FetchURLSurfacesHTTPErrors verifies that a non-200 status
// fails the load
func TestLoader_FetchURLSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := New().FetchURL(context.Background(), srv.URL+"/missing.csv", FormatUnknown)
	if err == nil {
		t.Fatal("Expected an error for a 404 response")
	}
}

// TestLoader_EmptyCSV verifies that an empty stream yields an empty
// dataset
func TestLoader_EmptyCSV(t *testing.T) {
	ds, err := New().LoadReader(strings.NewReader(""), FormatCSV, "empty.csv")
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if !ds.IsEmpty() {
		t.Errorf("Expected empty dataset, got %d records", ds.Len())
	}
}
