package ports

import (
	"context"

	"vizboard/domain/core"
	"vizboard/domain/view"
)

// ViewRepository defines the interface for saved view persistence
type ViewRepository interface {
	Save(ctx context.Context, v *view.SavedView) error
	Get(ctx context.Context, id core.ViewID) (*view.SavedView, error)
	ListByDataset(ctx context.Context, datasetID core.DatasetID) ([]*view.SavedView, error)
	List(ctx context.Context) ([]*view.SavedView, error)
	Delete(ctx context.Context, id core.ViewID) error
}
