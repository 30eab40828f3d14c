package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vizboard/domain/chart"
	"vizboard/domain/core"
	"vizboard/domain/table"
	"vizboard/domain/view"
	apperrors "vizboard/internal/errors"
	"vizboard/ports"
)

// viewRepository implements the ViewRepository interface
type viewRepository struct {
	db *sqlx.DB
}

// NewViewRepository creates a new saved view repository
func NewViewRepository(db *sqlx.DB) ports.ViewRepository {
	return &viewRepository{db: db}
}

// Save upserts a saved view after validating it
func (r *viewRepository) Save(ctx context.Context, v *view.SavedView) error {
	if v == nil || v.ID == "" {
		return apperrors.InvalidInput("view id is required")
	}
	if err := v.Validate(); err != nil {
		return err
	}

	mappingJSON, err := json.Marshal(v.Mapping)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal mapping")
	}
	filtersJSON, err := json.Marshal(v.Filters)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal filters")
	}

	query := `INSERT INTO saved_views (
		id, dataset_id, name, chart_type, mapping, filters, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	) ON CONFLICT (id) DO UPDATE SET
		dataset_id = $2, name = $3, chart_type = $4, mapping = $5,
		filters = $6, updated_at = $8`

	_, err = r.db.ExecContext(ctx, query,
		v.ID, v.DatasetID, v.Name, v.ChartType, mappingJSON, filtersJSON,
		v.CreatedAt.Time(), v.UpdatedAt.Time(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save view")
	}
	return nil
}

// Get retrieves a saved view by ID
func (r *viewRepository) Get(ctx context.Context, id core.ViewID) (*view.SavedView, error) {
	query := `SELECT id, dataset_id, name, chart_type, mapping, filters, created_at, updated_at
		FROM saved_views WHERE id = $1`

	v, err := r.scanView(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("view %s", id))
		}
		return nil, apperrors.Wrap(err, "failed to get view")
	}
	return v, nil
}

// ListByDataset returns the views saved against one dataset, oldest
// first so dashboard order is stable
func (r *viewRepository) ListByDataset(ctx context.Context, datasetID core.DatasetID) ([]*view.SavedView, error) {
	query := `SELECT id, dataset_id, name, chart_type, mapping, filters, created_at, updated_at
		FROM saved_views WHERE dataset_id = $1 ORDER BY created_at ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list views by dataset")
	}
	defer rows.Close()

	return r.scanViews(rows)
}

// List returns every saved view, oldest first
func (r *viewRepository) List(ctx context.Context) ([]*view.SavedView, error) {
	query := `SELECT id, dataset_id, name, chart_type, mapping, filters, created_at, updated_at
		FROM saved_views ORDER BY created_at ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list views")
	}
	defer rows.Close()

	return r.scanViews(rows)
}

// Delete removes a saved view
func (r *viewRepository) Delete(ctx context.Context, id core.ViewID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_views WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete view")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return apperrors.NotFound(fmt.Sprintf("view %s", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *viewRepository) scanView(row rowScanner) (*view.SavedView, error) {
	var (
		v           view.SavedView
		chartType   string
		mappingJSON []byte
		filtersJSON []byte
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&v.ID, &v.DatasetID, &v.Name, &chartType, &mappingJSON, &filtersJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	v.ChartType = chart.Type(chartType)
	if len(mappingJSON) > 0 {
		if err := json.Unmarshal(mappingJSON, &v.Mapping); err != nil {
			return nil, fmt.Errorf("failed to unmarshal mapping: %w", err)
		}
	}
	if len(filtersJSON) > 0 {
		var filters table.FilterSet
		if err := json.Unmarshal(filtersJSON, &filters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal filters: %w", err)
		}
		v.Filters = filters
	}
	v.CreatedAt = core.NewTimestamp(createdAt)
	v.UpdatedAt = core.NewTimestamp(updatedAt)
	return &v, nil
}

func (r *viewRepository) scanViews(rows *sql.Rows) ([]*view.SavedView, error) {
	var views []*view.SavedView
	for rows.Next() {
		v, err := r.scanView(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan view")
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to read views")
	}
	return views, nil
}
