// Package postgres persists datasets and saved views when DATABASE_URL
// is configured. Payloads ride in JSONB columns so the schema stays
// stable as datasets vary.
package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"vizboard/internal/config"
	apperrors "vizboard/internal/errors"
)

// Connect opens a pooled connection using the configured limits
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}
