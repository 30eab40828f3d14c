package ui

import (
	"net/http"
	"strings"

	"vizboard/adapters/render"
	"vizboard/domain/chart"
	"vizboard/domain/view"
	"vizboard/internal/aggregate"
	apperrors "vizboard/internal/errors"
	"vizboard/internal/regress"
)

// handleRender exports the requested chart over the active dataset as a
// PNG image
func (a *App) handleRender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChartType string        `json:"chartType"`
		Mapping   chart.Mapping `json:"mapping"`
		Title     string        `json:"title"`
		Width     int           `json:"width"`
		Height    int           `json:"height"`
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
	if !data.Validation.IsValid {
		respondError(w, apperrors.ValidationError("mapping is invalid: "+strings.Join(data.Validation.Errors, "; ")))
		return
	}

	title := req.Title
	if title == "" {
		title = a.store.Info().Name
	}
	request := render.BuildRequest(title, data.ChartType, data.Mapping, data.Result, data.Fit,
		a.renderWidth(req.Width), a.renderHeight(req.Height))

	png, err := a.renderer.RenderPNG(r.Context(), request)
	if err != nil {
		respondError(w, err)
		return
	}
	writePNG(w, png)
}

func (a *App) renderWidth(requested int) int {
	if requested > 0 {
		return requested
	}
	return a.config.Render.Width
}

func (a *App) renderHeight(requested int) int {
	if requested > 0 {
		return requested
	}
	return a.config.Render.Height
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		// Client went away mid-write; nothing to recover
		return
	}
}

// viewChartData aggregates a saved view against the active dataset using
// the view's own filters, leaving the session filter set untouched
func (a *App) viewChartData(v *view.SavedView) (*aggregate.Result, *chart.RegressionFit, error) {
	ds := a.store.Dataset()
	if ds == nil {
		return nil, nil, apperrors.NotFound("active dataset")
	}

	records := v.Filters.Apply(ds.Records)
	result, err := aggregate.NewEngine().Aggregate(v.ChartType, records, v.Mapping)
	if err != nil {
		return nil, nil, err
	}

	var fit *chart.RegressionFit
	if v.ChartType == chart.TypeScatter {
		fit = regress.NewEngine().Fit(result.Points)
	}
	return result, fit, nil
}
