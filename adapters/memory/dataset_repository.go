// Package memory provides in-process repository implementations used
// when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vizboard/domain/core"
	apperrors "vizboard/internal/errors"
	"vizboard/ports"
)

// DatasetRepository keeps stored datasets in a mutex-guarded map
type DatasetRepository struct {
	mu       sync.RWMutex
	datasets map[core.DatasetID]ports.StoredDataset
}

// NewDatasetRepository creates an empty in-memory dataset repository
func NewDatasetRepository() *DatasetRepository {
	return &DatasetRepository{
		datasets: make(map[core.DatasetID]ports.StoredDataset),
	}
}

// Save upserts a stored dataset keyed by its ID
func (r *DatasetRepository) Save(ctx context.Context, stored *ports.StoredDataset) error {
	if stored == nil || stored.ID == "" {
		return apperrors.InvalidInput("dataset id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets[stored.ID] = *stored
	return nil
}

// Get returns the stored dataset or a not-found error
func (r *DatasetRepository) Get(ctx context.Context, id core.DatasetID) (*ports.StoredDataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.datasets[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	return &stored, nil
}

// List returns summaries of all stored datasets, newest first
func (r *DatasetRepository) List(ctx context.Context) ([]ports.DatasetSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]ports.DatasetSummary, 0, len(r.datasets))
	for _, stored := range r.datasets {
		summary := ports.DatasetSummary{
			ID:        stored.ID,
			Name:      stored.Name,
			CreatedAt: stored.CreatedAt,
		}
		if stored.Dataset != nil {
			summary.Rows = stored.Dataset.Len()
			summary.Columns = len(stored.Dataset.Columns)
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Time().Equal(summaries[j].CreatedAt.Time()) {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[j].CreatedAt.Before(summaries[i].CreatedAt)
	})
	return summaries, nil
}

// Delete removes a stored dataset; deleting a missing ID is an error
func (r *DatasetRepository) Delete(ctx context.Context, id core.DatasetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.datasets[id]; !ok {
		return apperrors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	delete(r.datasets, id)
	return nil
}
