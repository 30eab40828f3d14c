// Package provision loads dashboard definitions from YAML so a server
// can come up with a dataset and saved views already in place.
package provision

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"vizboard/domain/chart"
	"vizboard/domain/core"
	"vizboard/domain/table"
	"vizboard/domain/view"
	apperrors "vizboard/internal/errors"
)

// File is a parsed provisioning document
type File struct {
	Dataset DatasetSpec `yaml:"dataset"`
	Views   []ViewSpec  `yaml:"views"`
}

// DatasetSpec names the dataset to load at startup. Source is a local
// path or an http(s) URL; Sample generates the built-in sample data
// instead.
type DatasetSpec struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source,omitempty"`
	Format string `yaml:"format,omitempty"`
	Sample bool   `yaml:"sample,omitempty"`
}

// ViewSpec describes one saved view
type ViewSpec struct {
	Name    string            `yaml:"name"`
	Chart   string            `yaml:"chart"`
	Mapping map[string]string `yaml:"mapping"`
	Filters []FilterSpec      `yaml:"filters,omitempty"`
}

// FilterSpec describes one filter. Dates are written in the same
// shapes cell coercion accepts.
type FilterSpec struct {
	Field  string   `yaml:"field"`
	Op     string   `yaml:"op"`
	Values []string `yaml:"values,omitempty"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`
	From   string   `yaml:"from,omitempty"`
	To     string   `yaml:"to,omitempty"`
}

var roleNames = map[string]chart.Role{
	"x":     chart.RoleX,
	"y":     chart.RoleY,
	"size":  chart.RoleSize,
	"color": chart.RoleColor,
	"label": chart.RoleLabel,
	"value": chart.RoleValue,
	"group": chart.RoleGroup,
}

// Parse reads and validates a provisioning document
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse provisioning yaml")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseFile reads a provisioning document from disk
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read provisioning file")
	}
	return Parse(data)
}

// Validate checks the document before any loading happens
func (f *File) Validate() error {
	if f.Dataset.Name == "" {
		return apperrors.ValidationError("provisioning dataset needs a name")
	}
	if f.Dataset.Source == "" && !f.Dataset.Sample {
		return apperrors.ValidationError("provisioning dataset needs a source or sample: true")
	}
	for i, spec := range f.Views {
		if spec.Name == "" {
			return apperrors.ValidationError(fmt.Sprintf("view %d needs a name", i+1))
		}
		if _, err := chart.ParseType(spec.Chart); err != nil {
			return apperrors.ValidationError(fmt.Sprintf("view %q: %v", spec.Name, err))
		}
		for role := range spec.Mapping {
			if _, ok := roleNames[strings.ToLower(role)]; !ok {
				return apperrors.ValidationError(fmt.Sprintf("view %q maps unknown role %q", spec.Name, role))
			}
		}
		for _, filter := range spec.Filters {
			if err := filter.validate(spec.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s FilterSpec) validate(viewName string) error {
	if s.Field == "" {
		return apperrors.ValidationError(fmt.Sprintf("view %q has a filter without a field", viewName))
	}
	switch table.FilterOp(s.Op) {
	case table.FilterIn:
		if len(s.Values) == 0 {
			return apperrors.ValidationError(fmt.Sprintf("view %q: in filter on %q needs values", viewName, s.Field))
		}
	case table.FilterRange:
		if s.Min == nil && s.Max == nil {
			return apperrors.ValidationError(fmt.Sprintf("view %q: range filter on %q needs min or max", viewName, s.Field))
		}
	case table.FilterDateRange:
		if s.From == "" && s.To == "" {
			return apperrors.ValidationError(fmt.Sprintf("view %q: date_range filter on %q needs from or to", viewName, s.Field))
		}
		for _, raw := range []string{s.From, s.To} {
			if raw == "" {
				continue
			}
			if _, err := parseDate(raw); err != nil {
				return apperrors.ValidationError(fmt.Sprintf("view %q: %v", viewName, err))
			}
		}
	default:
		return apperrors.ValidationError(fmt.Sprintf("view %q: unknown filter op %q", viewName, s.Op))
	}
	return nil
}

// SavedViews converts the document's views into records bound to one
// dataset. Fresh IDs are assigned on every call.
func (f *File) SavedViews(datasetID core.DatasetID) ([]*view.SavedView, error) {
	now := core.Now()
	views := make([]*view.SavedView, 0, len(f.Views))
	for _, spec := range f.Views {
		t, err := chart.ParseType(spec.Chart)
		if err != nil {
			return nil, err
		}

		m := make(chart.Mapping, len(spec.Mapping))
		for role, field := range spec.Mapping {
			m[roleNames[strings.ToLower(role)]] = field
		}

		filters, err := buildFilters(spec.Filters)
		if err != nil {
			return nil, err
		}

		views = append(views, &view.SavedView{
			ID:        core.ViewID(core.NewID()),
			DatasetID: datasetID,
			Name:      spec.Name,
			ChartType: t,
			Mapping:   m,
			Filters:   filters,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return views, nil
}

func buildFilters(specs []FilterSpec) (table.FilterSet, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	filters := make(table.FilterSet, 0, len(specs))
	for _, s := range specs {
		filter := table.Filter{
			Field:  s.Field,
			Op:     table.FilterOp(s.Op),
			Values: s.Values,
			Min:    s.Min,
			Max:    s.Max,
		}
		if s.From != "" {
			t, err := parseDate(s.From)
			if err != nil {
				return nil, apperrors.ValidationError(err.Error())
			}
			filter.From = &t
		}
		if s.To != "" {
			t, err := parseDate(s.To)
			if err != nil {
				return nil, apperrors.ValidationError(err.Error())
			}
			filter.To = &t
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

var dateLayouts = []string{"2006-1-2", "1/2/2006", "1-2-2006", "2006/1/2"}

func parseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
