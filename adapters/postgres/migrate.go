package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	apperrors "vizboard/internal/errors"
)

// Migrate creates the schema if it does not exist. Statements are
// idempotent so startup can run this unconditionally.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if err := createDatasetsTable(ctx, db); err != nil {
		return apperrors.Wrap(err, "failed to create datasets table")
	}
	if err := createSavedViewsTable(ctx, db); err != nil {
		return apperrors.Wrap(err, "failed to create saved_views table")
	}
	if err := createIndexes(ctx, db); err != nil {
		return apperrors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func createDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			columns JSONB NOT NULL,
			records JSONB NOT NULL,
			record_count INTEGER NOT NULL DEFAULT 0,
			field_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func createSavedViewsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS saved_views (
			id UUID PRIMARY KEY,
			dataset_id UUID NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			chart_type VARCHAR(20) NOT NULL,
			mapping JSONB NOT NULL,
			filters JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_saved_views_dataset_id ON saved_views(dataset_id)
	`)
	return err
}
