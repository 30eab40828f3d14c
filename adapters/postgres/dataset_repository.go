package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vizboard/domain/core"
	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"
	"vizboard/ports"
)

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// Save upserts a stored dataset. Columns and records travel as JSONB.
func (r *datasetRepository) Save(ctx context.Context, stored *ports.StoredDataset) error {
	if stored == nil || stored.ID == "" {
		return apperrors.InvalidInput("dataset id is required")
	}
	ds := stored.Dataset
	if ds == nil {
		ds = table.NewDataset(nil, nil)
	}

	columnsJSON, err := json.Marshal(ds.Columns)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal columns")
	}
	recordsJSON, err := json.Marshal(ds.Records)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal records")
	}

	query := `INSERT INTO datasets (
		id, name, columns, records, record_count, field_count, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	) ON CONFLICT (id) DO UPDATE SET
		name = $2, columns = $3, records = $4, record_count = $5,
		field_count = $6, updated_at = $8`

	_, err = r.db.ExecContext(ctx, query,
		stored.ID, stored.Name, columnsJSON, recordsJSON, ds.Len(), len(ds.Columns),
		stored.CreatedAt.Time(), stored.UpdatedAt.Time(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save dataset")
	}
	return nil
}

// Get retrieves a stored dataset with its payload
func (r *datasetRepository) Get(ctx context.Context, id core.DatasetID) (*ports.StoredDataset, error) {
	query := `SELECT id, name, columns, records, created_at, updated_at
		FROM datasets WHERE id = $1`

	var (
		stored      ports.StoredDataset
		columnsJSON []byte
		recordsJSON []byte
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&stored.ID, &stored.Name, &columnsJSON, &recordsJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("dataset %s", id))
		}
		return nil, apperrors.Wrap(err, "failed to get dataset")
	}

	var columns []string
	if err := json.Unmarshal(columnsJSON, &columns); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal columns")
	}
	var records []table.Record
	if err := json.Unmarshal(recordsJSON, &records); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal records")
	}

	stored.Dataset = table.NewDataset(columns, records)
	stored.CreatedAt = core.NewTimestamp(createdAt)
	stored.UpdatedAt = core.NewTimestamp(updatedAt)
	return &stored, nil
}

// List returns dataset summaries newest first, payloads untouched
func (r *datasetRepository) List(ctx context.Context) ([]ports.DatasetSummary, error) {
	query := `SELECT id, name, record_count, field_count, created_at
		FROM datasets ORDER BY created_at DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list datasets")
	}
	defer rows.Close()

	summaries := make([]ports.DatasetSummary, 0)
	for rows.Next() {
		var (
			summary   ports.DatasetSummary
			createdAt time.Time
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Rows, &summary.Columns, &createdAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan dataset summary")
		}
		summary.CreatedAt = core.NewTimestamp(createdAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to read dataset summaries")
	}
	return summaries, nil
}

// Delete removes a dataset; saved views cascade at the schema level
func (r *datasetRepository) Delete(ctx context.Context, id core.DatasetID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete dataset")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return apperrors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	return nil
}
