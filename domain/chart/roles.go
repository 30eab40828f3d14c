package chart

import "vizboard/domain/schema"

// requiredRoles lists the roles a mapping must fill per chart type
var requiredRoles = map[Type][]Role{
	TypeBar:     {RoleX, RoleY},
	TypeLine:    {RoleX, RoleY},
	TypeScatter: {RoleX, RoleY},
	TypePie:     {RoleLabel, RoleValue},
	TypeHeatmap: {RoleX, RoleY, RoleValue},
}

// optionalRoles lists the roles a mapping may fill per chart type
var optionalRoles = map[Type][]Role{
	TypeLine:    {RoleGroup},
	TypeScatter: {RoleSize, RoleColor},
}

// recommendedKinds maps each (chart type, role) to the field kinds the
// role works best with. A mismatch is a warning, never an error.
var recommendedKinds = map[Type]map[Role][]schema.FieldKind{
	TypeBar: {
		RoleX: {schema.KindCategorical, schema.KindDate},
		RoleY: {schema.KindNumeric},
	},
	TypeLine: {
		RoleX:     {schema.KindDate, schema.KindNumeric},
		RoleY:     {schema.KindNumeric},
		RoleGroup: {schema.KindCategorical},
	},
	TypeScatter: {
		RoleX:     {schema.KindNumeric},
		RoleY:     {schema.KindNumeric},
		RoleSize:  {schema.KindNumeric},
		RoleColor: {schema.KindCategorical},
	},
	TypePie: {
		RoleLabel: {schema.KindCategorical, schema.KindDate},
		RoleValue: {schema.KindNumeric},
	},
	TypeHeatmap: {
		RoleX:     {schema.KindCategorical, schema.KindDate},
		RoleY:     {schema.KindCategorical, schema.KindDate},
		RoleValue: {schema.KindNumeric},
	},
}

// RequiredRoles returns the roles a chart type cannot render without
func RequiredRoles(t Type) []Role {
	return requiredRoles[t]
}

// OptionalRoles returns the roles a chart type can use but does not need
func OptionalRoles(t Type) []Role {
	return optionalRoles[t]
}

// AllRoles returns required then optional roles for a chart type
func AllRoles(t Type) []Role {
	out := append([]Role{}, requiredRoles[t]...)
	return append(out, optionalRoles[t]...)
}

// RecommendedKinds returns the field kinds recommended for a role on a
// chart type, or nil when any kind is acceptable
func RecommendedKinds(t Type, role Role) []schema.FieldKind {
	byRole, ok := recommendedKinds[t]
	if !ok {
		return nil
	}
	return byRole[role]
}

// KindRecommended reports whether a field kind is in the recommended set
// for a role. Roles with no recommendation accept every kind.
func KindRecommended(t Type, role Role, kind schema.FieldKind) bool {
	kinds := RecommendedKinds(t, role)
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
