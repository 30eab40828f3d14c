package ui

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vizboard/adapters/loader"
	"vizboard/domain/core"
	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"
	"vizboard/internal/testkit"
	"vizboard/ports"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.store.Info())
}

func (a *App) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.datasets.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": summaries,
		"active":   a.store.DatasetID(),
	})
}

// handleUploadDataset ingests a multipart file upload and makes it the
// active dataset
func (a *App) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.Data.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, apperrors.InvalidInput(fmt.Sprintf("missing file upload: %v", err)))
		return
	}
	defer file.Close()

	format := loader.DetectFormat(header.Filename, header.Header.Get("Content-Type"))
	if format == loader.FormatUnknown {
		respondError(w, apperrors.InvalidInput(fmt.Sprintf("could not determine dataset format of %q", header.Filename)))
		return
	}

	ds, err := a.loader.LoadReader(file, format, header.Filename)
	if err != nil {
		respondError(w, err)
		return
	}

	stored, err := a.installDataset(r.Context(), header.Filename, ds)
	if err != nil {
		respondError(w, err)
		return
	}
	respondLoaded(w, http.StatusCreated, stored)
}

// handleFetchDataset ingests a dataset from a URL and makes it the
// active dataset
func (a *App) handleFetchDataset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL    string `json:"url"`
		Format string `json:"format"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.URL == "" {
		respondError(w, apperrors.InvalidInput("url is required"))
		return
	}

	ds, name, err := a.loader.FetchURL(r.Context(), req.URL, loader.Format(req.Format))
	if err != nil {
		respondError(w, err)
		return
	}

	stored, err := a.installDataset(r.Context(), name, ds)
	if err != nil {
		respondError(w, err)
		return
	}
	respondLoaded(w, http.StatusCreated, stored)
}

// handleSampleDataset generates the seeded sales sample and makes it the
// active dataset. The body is optional; it may override record count and
// seed.
func (a *App) handleSampleDataset(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Records int    `json:"records"`
		Seed    *int64 `json:"seed"`
	}{}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	sampleConfig := testkit.DefaultSampleConfig()
	sampleConfig.Records = a.config.Data.SampleRecords
	sampleConfig.Seed = a.config.Data.SampleSeed
	if req.Records > 0 {
		sampleConfig.Records = req.Records
	}
	if req.Seed != nil {
		sampleConfig.Seed = *req.Seed
	}

	ds := testkit.NewSampleGenerator(sampleConfig).Generate()
	stored, err := a.installDataset(r.Context(), "sample-sales", ds)
	if err != nil {
		respondError(w, err)
		return
	}
	respondLoaded(w, http.StatusCreated, stored)
}

// handleActivateDataset swaps a persisted dataset into the session store,
// keeping the identity its saved views point at
func (a *App) handleActivateDataset(w http.ResponseWriter, r *http.Request) {
	id := core.DatasetID(chi.URLParam(r, "id"))

	stored, err := a.datasets.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	a.store.LoadAs(stored.ID, stored.Name, stored.Dataset)
	respondLoaded(w, http.StatusOK, stored)
}

// handleDeleteDataset removes a persisted dataset and the saved views
// bound to it. The active in-memory copy, if any, stays loaded.
func (a *App) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := core.DatasetID(chi.URLParam(r, "id"))

	views, err := a.views.ListByDataset(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	for _, v := range views {
		if err := a.views.Delete(r.Context(), v.ID); err != nil && apperrors.GetCode(err) != apperrors.CodeNotFound {
			respondError(w, err)
			return
		}
	}

	if err := a.datasets.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "deleted",
		"viewsRemoved": len(views),
	})
}

// installDataset persists a freshly ingested dataset and activates it
func (a *App) installDataset(ctx context.Context, name string, ds *table.Dataset) (*ports.StoredDataset, error) {
	now := core.Now()
	stored := &ports.StoredDataset{
		ID:        core.DatasetID(core.NewID()),
		Name:      name,
		Dataset:   ds,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.datasets.Save(ctx, stored); err != nil {
		return nil, err
	}

	a.store.LoadAs(stored.ID, stored.Name, ds)
	return stored, nil
}

func respondLoaded(w http.ResponseWriter, status int, stored *ports.StoredDataset) {
	respondJSON(w, status, map[string]interface{}{
		"datasetId": stored.ID,
		"name":      stored.Name,
		"records":   stored.Dataset.Len(),
		"columns":   stored.Dataset.Columns,
	})
}
