package ports

import (
	"context"

	"vizboard/domain/core"
	"vizboard/domain/table"
)

// DatasetRepository defines the interface for dataset persistence
type DatasetRepository interface {
	Save(ctx context.Context, stored *StoredDataset) error
	Get(ctx context.Context, id core.DatasetID) (*StoredDataset, error)
	List(ctx context.Context) ([]DatasetSummary, error)
	Delete(ctx context.Context, id core.DatasetID) error
}

// StoredDataset is a persisted dataset with its payload
type StoredDataset struct {
	ID        core.DatasetID `json:"id"`
	Name      string         `json:"name"`
	Dataset   *table.Dataset `json:"dataset"`
	CreatedAt core.Timestamp `json:"created_at"`
	UpdatedAt core.Timestamp `json:"updated_at"`
}

// DatasetSummary is the listing shape, payload omitted
type DatasetSummary struct {
	ID        core.DatasetID `json:"id"`
	Name      string         `json:"name"`
	Rows      int            `json:"rows"`
	Columns   int            `json:"columns"`
	CreatedAt core.Timestamp `json:"created_at"`
}
