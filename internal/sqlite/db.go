package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations are applied from the embedded migrations package
func (db *DB) RunMigrations() error {
	migration := `
-- Users: identity lookup for bearer-token resolution
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    token_hash TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Plans: resources and collaborators are JSON documents, mirroring the
-- document-store shape the UI writes
CREATE TABLE plans (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    center_lat REAL NOT NULL DEFAULT 0,
    center_lng REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'draft',
    resources TEXT NOT NULL DEFAULT '[]',
    user_id TEXT NOT NULL,
    user_email TEXT NOT NULL,
    collaborators TEXT NOT NULL DEFAULT '[]',
    is_public INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    last_modified TIMESTAMP NOT NULL,
    last_modified_by TEXT
);
CREATE INDEX idx_plan_owner ON plans(user_id);

-- Public house registry: raw documents so legacy field aliases
-- survive round-trips
CREATE TABLE houses (
    house_id TEXT PRIMARY KEY,
    doc TEXT NOT NULL
);

-- Private registries: uploaded record arrays kept whole as JSON
CREATE TABLE registries (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    user_id TEXT NOT NULL,
    user_email TEXT NOT NULL,
    collaborators TEXT NOT NULL DEFAULT '[]',
    data TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    last_modified TIMESTAMP NOT NULL
);
CREATE INDEX idx_registry_owner ON registries(user_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
