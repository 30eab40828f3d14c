// Package chart defines the chart-type vocabulary shared by the mapper,
// the aggregation engine, and the rendering adapters: chart types, roles,
// field mappings, and the per-chart aggregate structures.
package chart

import (
	"fmt"
	"strings"
)

// Type identifies one of the supported chart types
type Type string

const (
	TypeBar     Type = "bar"
	TypeLine    Type = "line"
	TypeScatter Type = "scatter"
	TypePie     Type = "pie"
	TypeHeatmap Type = "heatmap"
)

// Types lists the supported chart types in display order
func Types() []Type {
	return []Type{TypeBar, TypeLine, TypeScatter, TypePie, TypeHeatmap}
}

// ParseType validates a chart-type identifier. Unknown types are a caller
// error, not a data error.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeBar, TypeLine, TypeScatter, TypePie, TypeHeatmap:
		return t, nil
	default:
		return "", fmt.Errorf("unknown chart type %q", s)
	}
}

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// Role names a chart-specific slot a field can be assigned to
type Role string

const (
	RoleX     Role = "x"
	RoleY     Role = "y"
	RoleSize  Role = "size"
	RoleColor Role = "color"
	RoleLabel Role = "label"
	RoleValue Role = "value"
	RoleGroup Role = "group"
)

// Mapping assigns roles to field names. An absent role is unmapped.
type Mapping map[Role]string

// Field returns the field assigned to a role, if any
func (m Mapping) Field(role Role) (string, bool) {
	if m == nil {
		return "", false
	}
	f, ok := m[role]
	if !ok || f == "" {
		return "", false
	}
	return f, true
}

// With returns a copy of the mapping with one role reassigned. An empty
// field name clears the role.
func (m Mapping) With(role Role, field string) Mapping {
	out := make(Mapping, len(m)+1)
	for r, f := range m {
		out[r] = f
	}
	if field == "" {
		delete(out, role)
	} else {
		out[role] = field
	}
	return out
}

// Clone returns an independent copy of the mapping
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for r, f := range m {
		out[r] = f
	}
	return out
}

// Validation is the outcome of checking a mapping against a chart type.
// Warnings never block usage; IsValid is false only when Errors is
// non-empty.
type Validation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
