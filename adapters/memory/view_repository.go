package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vizboard/domain/core"
	"vizboard/domain/view"
	apperrors "vizboard/internal/errors"
)

// ViewRepository keeps saved views in a mutex-guarded map
type ViewRepository struct {
	mu    sync.RWMutex
	views map[core.ViewID]view.SavedView
}

// NewViewRepository creates an empty in-memory view repository
func NewViewRepository() *ViewRepository {
	return &ViewRepository{
		views: make(map[core.ViewID]view.SavedView),
	}
}

// Save upserts a saved view after validating it
func (r *ViewRepository) Save(ctx context.Context, v *view.SavedView) error {
	if v == nil || v.ID == "" {
		return apperrors.InvalidInput("view id is required")
	}
	if err := v.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.ID] = *v
	return nil
}

// Get returns the saved view or a not-found error
func (r *ViewRepository) Get(ctx context.Context, id core.ViewID) (*view.SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("view %s", id))
	}
	return &v, nil
}

// ListByDataset returns the views saved against one dataset, oldest
// first so dashboard order is stable
func (r *ViewRepository) ListByDataset(ctx context.Context, datasetID core.DatasetID) ([]*view.SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var views []*view.SavedView
	for id := range r.views {
		v := r.views[id]
		if v.DatasetID == datasetID {
			views = append(views, &v)
		}
	}
	sortViews(views)
	return views, nil
}

// List returns every saved view, oldest first
func (r *ViewRepository) List(ctx context.Context) ([]*view.SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]*view.SavedView, 0, len(r.views))
	for id := range r.views {
		v := r.views[id]
		views = append(views, &v)
	}
	sortViews(views)
	return views, nil
}

// Delete removes a saved view; deleting a missing ID is an error
func (r *ViewRepository) Delete(ctx context.Context, id core.ViewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.views[id]; !ok {
		return apperrors.NotFound(fmt.Sprintf("view %s", id))
	}
	delete(r.views, id)
	return nil
}

func sortViews(views []*view.SavedView) {
	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Time().Equal(views[j].CreatedAt.Time()) {
			return views[i].Name < views[j].Name
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
}
