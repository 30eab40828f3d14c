package mapping

import (
	"fmt"
	"strings"

	"vizboard/domain/chart"
	"vizboard/domain/schema"
)

// FieldMapper suggests default role assignments per chart type and
// validates user-edited mappings against chart-type requirements.
type FieldMapper struct{}

// NewFieldMapper creates a mapper
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{}
}

// Suggest produces deterministic default assignments for a chart type.
// Roles with no suitable field stay unmapped; validation reports them.
func (fm *FieldMapper) Suggest(t chart.Type, s *schema.Schema) chart.Mapping {
	m := chart.Mapping{}
	if s == nil || s.Len() == 0 {
		return m
	}

	switch t {
	case chart.TypeBar:
		fm.assign(m, chart.RoleX, fm.firstOfKind(s, schema.KindCategorical), fm.nthField(s, 0))
		fm.assign(m, chart.RoleY, fm.firstOfKind(s, schema.KindNumeric), fm.nthField(s, 1))

	case chart.TypeLine:
		fm.assign(m, chart.RoleX, fm.firstOfKind(s, schema.KindDate), fm.firstOfKind(s, schema.KindNumeric), fm.nthField(s, 0))
		fm.assign(m, chart.RoleY, fm.firstOfKind(s, schema.KindNumeric), fm.nthField(s, 1))

	case chart.TypeScatter:
		fm.assign(m, chart.RoleX, fm.nthOfKind(s, schema.KindNumeric, 0))
		fm.assign(m, chart.RoleY, fm.nthOfKind(s, schema.KindNumeric, 1))
		fm.assign(m, chart.RoleSize, fm.nthOfKind(s, schema.KindNumeric, 2))
		fm.assign(m, chart.RoleColor, fm.firstOfKind(s, schema.KindCategorical))

	case chart.TypePie:
		fm.assign(m, chart.RoleLabel, fm.firstOfKind(s, schema.KindCategorical), fm.nthField(s, 0))
		fm.assign(m, chart.RoleValue, fm.firstOfKind(s, schema.KindNumeric), fm.nthField(s, 1))

	case chart.TypeHeatmap:
		fm.assign(m, chart.RoleX, fm.nthOfKind(s, schema.KindCategorical, 0))
		fm.assign(m, chart.RoleY, fm.nthOfKind(s, schema.KindCategorical, 1))
		fm.assign(m, chart.RoleValue, fm.firstOfKind(s, schema.KindNumeric), fm.nthField(s, 2))
	}

	return m
}

// Validate checks a mapping against a chart type's required roles. Kind
// mismatches against the recommended set are warnings only; the mapping
// stays usable.
func (fm *FieldMapper) Validate(t chart.Type, m chart.Mapping, s *schema.Schema) chart.Validation {
	result := chart.Validation{
		Errors:   []string{},
		Warnings: []string{},
	}

	for _, role := range chart.RequiredRoles(t) {
		field, ok := m.Field(role)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("%s field is required for %s chart", role, t))
			continue
		}
		fm.checkField(t, role, field, s, &result)
	}

	for _, role := range chart.OptionalRoles(t) {
		if field, ok := m.Field(role); ok {
			fm.checkField(t, role, field, s, &result)
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// checkField verifies a mapped field exists and matches the role's
// recommended kinds
func (fm *FieldMapper) checkField(t chart.Type, role chart.Role, field string, s *schema.Schema, result *chart.Validation) {
	f, ok := s.Field(field)
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("Field '%s' does not exist in dataset", field))
		return
	}
	if !chart.KindRecommended(t, role, f.Kind) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%s field '%s' is %s, expected %s for %s chart",
			role, field, f.Kind, fm.kindList(chart.RecommendedKinds(t, role)), t))
	}
}

// assign maps a role to the first non-empty candidate
func (fm *FieldMapper) assign(m chart.Mapping, role chart.Role, candidates ...string) {
	for _, c := range candidates {
		if c != "" {
			m[role] = c
			return
		}
	}
}

func (fm *FieldMapper) firstOfKind(s *schema.Schema, kind schema.FieldKind) string {
	return fm.nthOfKind(s, kind, 0)
}

func (fm *FieldMapper) nthOfKind(s *schema.Schema, kind schema.FieldKind, n int) string {
	if f, ok := s.NthOfKind(kind, n); ok {
		return f.Name
	}
	return ""
}

func (fm *FieldMapper) nthField(s *schema.Schema, n int) string {
	if f, ok := s.NthField(n); ok {
		return f.Name
	}
	return ""
}

func (fm *FieldMapper) kindList(kinds []schema.FieldKind) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, string(k))
	}
	return strings.Join(parts, " or ")
}
