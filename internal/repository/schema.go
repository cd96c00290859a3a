// internal/repository/schema.go
package repository

import (
	"context"
	"database/sql"

	apperrors "insurance-intake/internal/common/errors"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id             UUID PRIMARY KEY,
		zip_code       TEXT,
		full_name      TEXT,
		email          TEXT,
		license_type   TEXT,
		license_status TEXT,
		current_state  TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id                 UUID PRIMARY KEY,
		conversation_id    UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		position           INTEGER NOT NULL,
		vin                TEXT,
		year               INTEGER,
		make               TEXT,
		body_type          TEXT,
		vehicle_use        TEXT,
		blind_spot_warning BOOLEAN,
		days_per_week      INTEGER,
		one_way_miles      INTEGER,
		annual_mileage     INTEGER,
		UNIQUE (conversation_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              UUID PRIMARY KEY,
		conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		role            TEXT NOT NULL,
		content         TEXT NOT NULL,
		seq             INTEGER NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL,
		UNIQUE (conversation_id, seq)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewDatabaseQueryFailed("ensure schema", err)
		}
	}
	return nil
}
