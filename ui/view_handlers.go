package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vizboard/adapters/render"
	"vizboard/domain/chart"
	"vizboard/domain/core"
	"vizboard/domain/table"
	"vizboard/domain/view"
	apperrors "vizboard/internal/errors"
)

// handleListViews lists saved views, optionally restricted to one dataset
// via the dataset query parameter
func (a *App) handleListViews(w http.ResponseWriter, r *http.Request) {
	var (
		views []*view.SavedView
		err   error
	)
	if datasetID := r.URL.Query().Get("dataset"); datasetID != "" {
		views, err = a.views.ListByDataset(r.Context(), core.DatasetID(datasetID))
	} else {
		views, err = a.views.List(r.Context())
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"views": views})
}

// handleSaveView persists a named chart configuration. When no dataset is
// named, the view binds to the active dataset.
func (a *App) handleSaveView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string          `json:"name"`
		DatasetID string          `json:"datasetId"`
		ChartType string          `json:"chartType"`
		Mapping   chart.Mapping   `json:"mapping"`
		Filters   table.FilterSet `json:"filters"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	datasetID := core.DatasetID(req.DatasetID)
	if datasetID == "" {
		datasetID = a.store.DatasetID()
	}
	if datasetID == "" {
		respondError(w, apperrors.InvalidInput("no active dataset to bind the view to"))
		return
	}
	if err := validateFilters(req.Filters); err != nil {
		respondError(w, err)
		return
	}

	t, err := chart.ParseType(req.ChartType)
	if err != nil {
		respondError(w, apperrors.ValidationError(err.Error()))
		return
	}

	now := core.Now()
	v := &view.SavedView{
		ID:        core.ViewID(core.NewID()),
		DatasetID: datasetID,
		Name:      req.Name,
		ChartType: t,
		Mapping:   req.Mapping,
		Filters:   req.Filters,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := v.Validate(); err != nil {
		respondError(w, apperrors.ValidationError(err.Error()))
		return
	}

	if err := a.views.Save(r.Context(), v); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (a *App) handleGetView(w http.ResponseWriter, r *http.Request) {
	v, err := a.views.Get(r.Context(), core.ViewID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (a *App) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	if err := a.views.Delete(r.Context(), core.ViewID(chi.URLParam(r, "id"))); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleViewPNG exports a saved view as a PNG. The view's dataset must be
// active; the view's own filters apply, not the session filters.
func (a *App) handleViewPNG(w http.ResponseWriter, r *http.Request) {
	v, err := a.views.Get(r.Context(), core.ViewID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	if v.DatasetID != a.store.DatasetID() {
		respondError(w, apperrors.InvalidInput("view belongs to a dataset that is not active; activate it first"))
		return
	}

	result, fit, err := a.viewChartData(v)
	if err != nil {
		respondError(w, err)
		return
	}

	request := render.BuildRequest(v.Name, v.ChartType, v.Mapping, result, fit,
		a.config.Render.Width, a.config.Render.Height)
	png, err := a.renderer.RenderPNG(r.Context(), request)
	if err != nil {
		respondError(w, err)
		return
	}
	writePNG(w, png)
}
