package view

import (
	"strings"

	"vizboard/domain/chart"
	"vizboard/domain/core"
	"vizboard/domain/table"
)

// SavedView is a named chart configuration over a dataset: chart type,
// field mapping, and the filters applied before aggregation.
type SavedView struct {
	ID        core.ViewID     `json:"id"`
	DatasetID core.DatasetID  `json:"datasetId"`
	Name      string          `json:"name"`
	ChartType chart.Type      `json:"chartType"`
	Mapping   chart.Mapping   `json:"mapping"`
	Filters   table.FilterSet `json:"filters,omitempty"`
	CreatedAt core.Timestamp  `json:"createdAt"`
	UpdatedAt core.Timestamp  `json:"updatedAt"`
}

// Validate checks structural integrity before persistence
func (v *SavedView) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return core.ErrViewNameRequired
	}
	if _, err := chart.ParseType(string(v.ChartType)); err != nil {
		return err
	}
	if v.DatasetID.String() == "" {
		return core.ErrViewDatasetRequired
	}
	return nil
}
