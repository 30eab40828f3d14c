package coercer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vizboard/domain/table"
)

// TypeCoercer converts raw field values into typed cells. Coercion is
// deterministic with a fixed priority: finite number first, then one of
// the supported date patterns, then trimmed string. A bare "2023" is a
// number, never a year.
type TypeCoercer struct{}

// New creates a coercer
func New() *TypeCoercer {
	return &TypeCoercer{}
}

// datePattern pairs a shape gate with the layout used to parse it. The
// layouts use non-padded month/day so both "01/05/2023" and "1/5/2023"
// parse; time.Parse still rejects impossible calendar dates.
type datePattern struct {
	shape  *regexp.Regexp
	layout string
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`), "2006-1-2"},   // YYYY-MM-DD
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), "1/2/2006"},   // MM/DD/YYYY
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), "1-2-2006"},   // MM-DD-YYYY
	{regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`), "2006/1/2"},   // YYYY/MM/DD
}

// Coerce converts one raw string value to a typed cell. Empty and
// whitespace-only input becomes the null cell.
func (c *TypeCoercer) Coerce(raw string) table.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return table.NullCell()
	}

	if cell, ok := c.tryParseNumber(trimmed); ok {
		return cell
	}

	if cell, ok := c.tryParseDate(trimmed); ok {
		return cell
	}

	// Trimmed, case preserved
	return table.NewStringCell(trimmed)
}

// CoerceAny converts an already-decoded value (JSON, spreadsheet cell) to
// a typed cell. Native numbers and times pass through; strings run the
// full coercion path.
func (c *TypeCoercer) CoerceAny(raw interface{}) table.Cell {
	switch v := raw.(type) {
	case nil:
		return table.NullCell()
	case table.Cell:
		return v
	case string:
		return c.Coerce(v)
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return table.NullCell()
		}
		return table.NewNumberCell(v)
	case float32:
		return c.CoerceAny(float64(v))
	case int:
		return table.NewNumberCell(float64(v))
	case int32:
		return table.NewNumberCell(float64(v))
	case int64:
		return table.NewNumberCell(float64(v))
	case bool:
		return table.NewStringCell(strconv.FormatBool(v))
	case time.Time:
		return table.NewDateCell(v)
	default:
		return c.Coerce(fmt.Sprintf("%v", v))
	}
}

// tryParseNumber parses the trimmed value as a finite number
func (c *TypeCoercer) tryParseNumber(trimmed string) (table.Cell, bool) {
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return table.Cell{}, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return table.Cell{}, false
	}
	return table.NewNumberCell(val), true
}

// tryParseDate matches the trimmed value against the supported date
// shapes and accepts only real calendar dates
func (c *TypeCoercer) tryParseDate(trimmed string) (table.Cell, bool) {
	for _, p := range datePatterns {
		if !p.shape.MatchString(trimmed) {
			continue
		}
		if t, err := time.Parse(p.layout, trimmed); err == nil {
			return table.NewDateCell(t), true
		}
	}
	return table.Cell{}, false
}
