package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash BYTEA NOT NULL,
    clearance_level INT NOT NULL DEFAULT 0 CHECK (clearance_level BETWEEN 0 AND 3)
);

CREATE TABLE IF NOT EXISTS records (
    id UUID PRIMARY KEY,
    seq BIGSERIAL,
    clearance_level INT NOT NULL CHECK (clearance_level BETWEEN 0 AND 3),
    description TEXT NOT NULL,
    tags TEXT[] NOT NULL DEFAULT '{}',
    info TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    owner_id UUID NOT NULL REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS saved_records (
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    record_id UUID NOT NULL REFERENCES records(id) ON DELETE CASCADE,
    saved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, record_id)
);
`

// InitPostgres opens a PostgreSQL connection for the given DSN, verifies it
// with a ping, and creates the schema if it does not exist yet. The
// saved_records primary key keeps saved sets duplicate-free, and its
// foreign key cascades prune saved references when a record is deleted.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
