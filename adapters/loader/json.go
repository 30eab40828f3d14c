package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"vizboard/domain/table"
)

// readJSON parses a top-level array of flat objects. Column order
// follows the key order of the first object; keys that only appear in
// later objects are ignored, and keys an object omits read as null.
func (l *Loader) readJSON(r io.Reader) (*table.Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected a top-level json array of objects")
	}

	var (
		columns []string
		records []table.Record
	)
	known := make(map[string]bool)

	first := true
	for dec.More() {
		record, err := l.readJSONRecord(dec, first, &columns, known)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		first = false
	}

	// closing bracket
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing json: %w", err)
	}

	return table.NewDataset(columns, records), nil
}

func (l *Loader) readJSONRecord(dec *json.Decoder, first bool, columns *[]string, known map[string]bool) (table.Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a json object, got %v", tok)
	}

	record := make(table.Record)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key, got %v", keyTok)
		}

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing json value for %q: %w", key, err)
		}

		if !known[key] {
			if !first {
				continue
			}
			known[key] = true
			*columns = append(*columns, key)
		}
		record[key] = l.coerceJSONValue(raw)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	return record, nil
}

// coerceJSONValue maps a decoded scalar onto a cell. Already-typed
// numbers stay numbers; strings go through the full coercion rules so
// date shapes are recognized; nested structures don't fit the flat
// record model and read as null.
func (l *Loader) coerceJSONValue(v interface{}) table.Cell {
	switch val := v.(type) {
	case nil:
		return table.NullCell()
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return l.coercer.Coerce(val.String())
		}
		return table.NewNumberCell(f)
	case string:
		return l.coercer.Coerce(val)
	case bool:
		if val {
			return table.NewStringCell("true")
		}
		return table.NewStringCell("false")
	default:
		return table.NullCell()
	}
}
