package ui

import (
	"net/http"
	"strings"

	"vizboard/domain/chart"
	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"
)

func (a *App) handleSchema(w http.ResponseWriter, r *http.Request) {
	if !a.store.HasDataset() {
		respondError(w, apperrors.NotFound("active dataset"))
		return
	}
	respondJSON(w, http.StatusOK, a.store.Schema())
}

// handleSuggest proposes a default field mapping for the requested chart
// type over the active dataset
func (a *App) handleSuggest(w http.ResponseWriter, r *http.Request) {
	t, err := chart.ParseType(r.URL.Query().Get("chart"))
	if err != nil {
		respondError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	if !a.store.HasDataset() {
		respondError(w, apperrors.NotFound("active dataset"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chartType": t,
		"mapping":   a.store.Suggest(t),
	})
}

func (a *App) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChartType string        `json:"chartType"`
		Mapping   chart.Mapping `json:"mapping"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	t, err := chart.ParseType(req.ChartType)
	if err != nil {
		respondError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	if !a.store.HasDataset() {
		respondError(w, apperrors.NotFound("active dataset"))
		return
	}
	respondJSON(w, http.StatusOK, a.store.Validate(t, req.Mapping))
}

// handleSetFilters replaces the session filter set
func (a *App) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filters table.FilterSet `json:"filters"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := validateFilters(req.Filters); err != nil {
		respondError(w, err)
		return
	}

	a.store.SetFilters(req.Filters)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"filterCount": len(req.Filters),
		"viewRows":    len(a.store.View()),
	})
}

func (a *App) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	a.store.ClearFilters()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"filterCount": 0,
		"viewRows":    len(a.store.View()),
	})
}

// handleChartData returns the full renderer payload: validation, the
// aggregate when the mapping is valid, and the scatter fit
func (a *App) handleChartData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChartType string        `json:"chartType"`
		Mapping   chart.Mapping `json:"mapping"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	data, err := a.store.ChartData(chart.Type(strings.TrimSpace(req.ChartType)), req.Mapping)
	if err != nil {
		respondError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func validateFilters(fs table.FilterSet) error {
	for _, f := range fs {
		if strings.TrimSpace(f.Field) == "" {
			return apperrors.InvalidInput("filter field is required")
		}
		switch f.Op {
		case table.FilterIn:
			if len(f.Values) == 0 {
				return apperrors.InvalidInput("in filter needs values")
			}
		case table.FilterRange:
			if f.Min == nil && f.Max == nil {
				return apperrors.InvalidInput("range filter needs min or max")
			}
		case table.FilterDateRange:
			if f.From == nil && f.To == nil {
				return apperrors.InvalidInput("date_range filter needs from or to")
			}
		default:
			return apperrors.InvalidInput("unknown filter op " + string(f.Op))
		}
	}
	return nil
}
