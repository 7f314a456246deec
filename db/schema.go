// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// SQL dialects
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var schema string
	switch dialect {
	case DialectSQLite:
		schema = sqliteSchema
	case DialectPostgres:
		schema = postgresSchema
	default:
		return fmt.Errorf("unknown dialect %q", dialect)
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Vote tallies
CREATE TABLE IF NOT EXISTS vote_tally (
    feature_id TEXT PRIMARY KEY,
    low BIGINT NOT NULL DEFAULT 0 CHECK (low >= 0),
    medium BIGINT NOT NULL DEFAULT 0 CHECK (medium >= 0),
    high BIGINT NOT NULL DEFAULT 0 CHECK (high >= 0)
);

-- Subscription keys (may exist with no emails)
CREATE TABLE IF NOT EXISTS subscription_list (
    subscription_key TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Subscriptions, ordered by id
CREATE TABLE IF NOT EXISTS subscription (
    id BIGSERIAL PRIMARY KEY,
    subscription_key TEXT NOT NULL REFERENCES subscription_list(subscription_key) ON DELETE CASCADE,
    email TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (subscription_key, email)
);

CREATE INDEX IF NOT EXISTS idx_subscription_key ON subscription(subscription_key);
`

const sqliteSchema = `
-- Vote tallies
CREATE TABLE IF NOT EXISTS vote_tally (
    feature_id TEXT PRIMARY KEY,
    low INTEGER NOT NULL DEFAULT 0 CHECK (low >= 0),
    medium INTEGER NOT NULL DEFAULT 0 CHECK (medium >= 0),
    high INTEGER NOT NULL DEFAULT 0 CHECK (high >= 0)
);

-- Subscription keys (may exist with no emails)
CREATE TABLE IF NOT EXISTS subscription_list (
    subscription_key TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Subscriptions, ordered by id
CREATE TABLE IF NOT EXISTS subscription (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subscription_key TEXT NOT NULL REFERENCES subscription_list(subscription_key) ON DELETE CASCADE,
    email TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (subscription_key, email)
);

CREATE INDEX IF NOT EXISTS idx_subscription_key ON subscription(subscription_key);
`
