package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CellKind discriminates the typed payload of a Cell
type CellKind string

const (
	KindNull   CellKind = "null"
	KindNumber CellKind = "number"
	KindDate   CellKind = "date"
	KindString CellKind = "string"
)

// Cell is a single coerced data value: number, date, string, or null.
// The zero value is the null cell.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Time time.Time
}

// NullCell returns the null cell
func NullCell() Cell {
	return Cell{Kind: KindNull}
}

// NewNumberCell creates a number cell
func NewNumberCell(n float64) Cell {
	return Cell{Kind: KindNumber, Num: n}
}

// NewDateCell creates a date cell normalized to UTC
func NewDateCell(t time.Time) Cell {
	return Cell{Kind: KindDate, Time: t.UTC()}
}

// NewStringCell creates a string cell; the empty string is the null cell
func NewStringCell(s string) Cell {
	if s == "" {
		return NullCell()
	}
	return Cell{Kind: KindString, Str: s}
}

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool {
	return c.Kind == KindNull || c.Kind == ""
}

// IsNumber reports whether the cell holds a number
func (c Cell) IsNumber() bool {
	return c.Kind == KindNumber
}

// IsDate reports whether the cell holds a date
func (c Cell) IsDate() bool {
	return c.Kind == KindDate
}

// IsString reports whether the cell holds a string
func (c Cell) IsString() bool {
	return c.Kind == KindString
}

// AsFloat64 returns the numeric value, or 0 for non-number cells
func (c Cell) AsFloat64() float64 {
	if c.Kind == KindNumber {
		return c.Num
	}
	return 0
}

// AsString returns the string value, or empty for non-string cells
func (c Cell) AsString() string {
	if c.Kind == KindString {
		return c.Str
	}
	return ""
}

// AsTime returns the date value, or the zero time for non-date cells
func (c Cell) AsTime() time.Time {
	if c.Kind == KindDate {
		return c.Time
	}
	return time.Time{}
}

// Label returns the user-facing representation of the cell. Null cells
// label as "(missing)" so they can head their own aggregation group.
func (c Cell) Label() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindDate:
		return c.Time.Format("2006-01-02")
	case KindString:
		return c.Str
	default:
		return "(missing)"
	}
}

// Key returns a canonical grouping key. Distinct values map to distinct
// keys across kinds; dates key by epoch millisecond.
func (c Cell) Key() string {
	switch c.Kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindDate:
		return "d:" + strconv.FormatInt(c.Time.UnixMilli(), 10)
	case KindString:
		return "s:" + c.Str
	default:
		return "null"
	}
}

// Equal reports value equality; dates compare by epoch millisecond
func (c Cell) Equal(o Cell) bool {
	if c.IsNull() || o.IsNull() {
		return c.IsNull() && o.IsNull()
	}
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindNumber:
		return c.Num == o.Num
	case KindDate:
		return c.Time.UnixMilli() == o.Time.UnixMilli()
	default:
		return c.Str == o.Str
	}
}

// String implements fmt.Stringer
func (c Cell) String() string {
	return c.Label()
}

// MarshalJSON encodes the cell as its natural JSON scalar: null, number,
// RFC 3339 string for dates, or plain string.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindNumber:
		return json.Marshal(c.Num)
	case KindDate:
		return json.Marshal(c.Time.Format(time.RFC3339))
	case KindString:
		return json.Marshal(c.Str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar back into a cell. Strings that parse
// as RFC 3339 timestamps become date cells; everything else stays a string.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*c = NullCell()
	case float64:
		*c = NewNumberCell(val)
	case bool:
		*c = NewStringCell(strconv.FormatBool(val))
	case string:
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			*c = NewDateCell(t)
		} else {
			*c = NewStringCell(val)
		}
	default:
		return fmt.Errorf("unsupported cell payload %T", v)
	}
	return nil
}
