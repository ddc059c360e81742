package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS survivors (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    name_key          TEXT NOT NULL,
    age               INTEGER NOT NULL CHECK (age >= 0),
    gender            TEXT NOT NULL,
    inventory_version INTEGER NOT NULL DEFAULT 0,
    seq               INTEGER NOT NULL UNIQUE,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_survivors_name_key ON survivors(name_key);

CREATE TABLE IF NOT EXISTS locations (
    survivor_id TEXT PRIMARY KEY REFERENCES survivors(id) ON DELETE CASCADE,
    latitude    REAL NOT NULL,
    longitude   REAL NOT NULL,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id    TEXT PRIMARY KEY,
    label TEXT NOT NULL UNIQUE,
    worth INTEGER NOT NULL CHECK (worth >= 0)
);

CREATE TABLE IF NOT EXISTS inventory (
    survivor_id TEXT NOT NULL REFERENCES survivors(id) ON DELETE CASCADE,
    item_id     TEXT NOT NULL REFERENCES items(id),
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    PRIMARY KEY (survivor_id, item_id)
);

CREATE TABLE IF NOT EXISTS infection_reports (
    id          TEXT PRIMARY KEY,
    reporter_id TEXT REFERENCES survivors(id) ON DELETE SET NULL,
    reported_id TEXT NOT NULL REFERENCES survivors(id) ON DELETE CASCADE,
    created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_infection_reports_reported ON infection_reports(reported_id);

CREATE TABLE IF NOT EXISTS trades (
    id          TEXT PRIMARY KEY,
    survivor_a  TEXT NOT NULL,
    survivor_b  TEXT NOT NULL,
    worth       INTEGER NOT NULL,
    settled_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_lines (
    trade_id    TEXT NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
    giver_id    TEXT NOT NULL,
    item_id     TEXT NOT NULL REFERENCES items(id),
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    PRIMARY KEY (trade_id, giver_id, item_id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
