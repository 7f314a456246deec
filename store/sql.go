// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/memojo/db"
	"github.com/danielhkuo/memojo/models"
)

// SQLStore keeps tallies and subscriptions in PostgreSQL or SQLite.
// Increments are single upsert statements, so concurrent votes never race.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// OpenSQLStore connects to the database and creates the schema
func OpenSQLStore(ctx context.Context, dialect, databaseURL string) (*SQLStore, error) {
	conn, err := sql.Open(dialect, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// SQLite allows one writer at a time; a single connection also keeps
	// ":memory:" databases shared across calls
	if dialect == db.DialectSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s, err := NewSQLStore(conn, dialect)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open connection and creates the schema
func NewSQLStore(conn *sql.DB, dialect string) (*SQLStore, error) {
	if err := db.CreateSchema(conn, dialect); err != nil {
		return nil, err
	}
	slog.Info("Database schema ready", "dialect", dialect)
	return &SQLStore{db: conn, dialect: dialect}, nil
}

func (s *SQLStore) RecordVote(ctx context.Context, featureID, level string) (models.VoteTally, error) {
	// level is interpolated as a column name, so it must be one of the
	// known vote types
	if !models.IsValidVoteType(level) {
		return models.VoteTally{}, models.ErrInvalidVoteType
	}

	query := fmt.Sprintf(`
		INSERT INTO vote_tally (feature_id, %[1]s)
		VALUES ($1, 1)
		ON CONFLICT (feature_id) DO UPDATE SET %[1]s = vote_tally.%[1]s + 1
		RETURNING low, medium, high
	`, level)

	var tally models.VoteTally
	err := s.db.QueryRowContext(ctx, query, featureID).Scan(&tally.Low, &tally.Medium, &tally.High)
	if err != nil {
		return models.VoteTally{}, fmt.Errorf("failed to record vote: %w", err)
	}
	return tally, nil
}

func (s *SQLStore) RecordSubscription(ctx context.Context, key, email string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureList(ctx, tx, key); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO subscription (subscription_key, email)
		VALUES ($1, $2)
		ON CONFLICT (subscription_key, email) DO NOTHING
	`, key, email)
	if err != nil {
		return false, fmt.Errorf("failed to insert subscription: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) Snapshot(ctx context.Context) (models.Database, error) {
	data := models.NewDatabase()

	rows, err := s.db.QueryContext(ctx, `SELECT feature_id, low, medium, high FROM vote_tally`)
	if err != nil {
		return models.Database{}, fmt.Errorf("failed to query tallies: %w", err)
	}
	for rows.Next() {
		var featureID string
		var tally models.VoteTally
		if err := rows.Scan(&featureID, &tally.Low, &tally.Medium, &tally.High); err != nil {
			rows.Close()
			return models.Database{}, fmt.Errorf("failed to scan tally: %w", err)
		}
		data.Votes[featureID] = tally
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Database{}, fmt.Errorf("failed to iterate tallies: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT subscription_key FROM subscription_list`)
	if err != nil {
		return models.Database{}, fmt.Errorf("failed to query subscription lists: %w", err)
	}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return models.Database{}, fmt.Errorf("failed to scan subscription list: %w", err)
		}
		data.Subscriptions[key] = []string{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Database{}, fmt.Errorf("failed to iterate subscription lists: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT subscription_key, email
		FROM subscription
		ORDER BY id
	`)
	if err != nil {
		return models.Database{}, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, email string
		if err := rows.Scan(&key, &email); err != nil {
			return models.Database{}, fmt.Errorf("failed to scan subscription: %w", err)
		}
		data.Subscriptions[key] = append(data.Subscriptions[key], email)
	}
	if err := rows.Err(); err != nil {
		return models.Database{}, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}

	return data, nil
}

func (s *SQLStore) Seed(ctx context.Context, initial models.Database) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM vote_tally) + (SELECT COUNT(*) FROM subscription_list)
	`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count rows: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for featureID, tally := range initial.Votes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vote_tally (feature_id, low, medium, high)
			VALUES ($1, $2, $3, $4)
		`, featureID, tally.Low, tally.Medium, tally.High)
		if err != nil {
			return false, fmt.Errorf("failed to seed tally %s: %w", featureID, err)
		}
	}

	for key, emails := range initial.Subscriptions {
		if err := ensureList(ctx, tx, key); err != nil {
			return false, err
		}
		for _, email := range emails {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO subscription (subscription_key, email)
				VALUES ($1, $2)
				ON CONFLICT (subscription_key, email) DO NOTHING
			`, key, email)
			if err != nil {
				return false, fmt.Errorf("failed to seed subscription %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func ensureList(ctx context.Context, tx *sql.Tx, key string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO subscription_list (subscription_key)
		VALUES ($1)
		ON CONFLICT (subscription_key) DO NOTHING
	`, key)
	if err != nil {
		return fmt.Errorf("failed to create subscription list: %w", err)
	}
	return nil
}
