// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/memojo/cliparse"
	"github.com/danielhkuo/memojo/db"
	"github.com/danielhkuo/memojo/models"
)

//go:generate mockgen -destination=../mocks/mock_store.go -package=mocks github.com/danielhkuo/memojo/store Store

// Store persists vote tallies and subscription lists.
//
// Every implementation serializes its read-modify-write cycles, so concurrent
// votes for the same feature are never lost within one process.
type Store interface {
	// RecordVote increments level for featureID, creating the tally if needed,
	// and returns the updated tally. level must be a valid vote type.
	RecordVote(ctx context.Context, featureID, level string) (models.VoteTally, error)

	// RecordSubscription appends email under key. It returns false if the
	// email was already subscribed under that key.
	RecordSubscription(ctx context.Context, key, email string) (bool, error)

	// Snapshot returns the whole document.
	Snapshot(ctx context.Context) (models.Database, error)

	// Seed writes initial when the store holds no votes and no subscriptions.
	// It reports whether anything was written.
	Seed(ctx context.Context, initial models.Database) (bool, error)

	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*JSONFileStore)(nil)
	_ Store = (*SQLStore)(nil)
	_ Store = (*BadgerStore)(nil)
)

// Open creates the backend selected by cfg.StoreType
func Open(ctx context.Context, cfg cliparse.Config) (Store, error) {
	switch cfg.StoreType {
	case cliparse.StoreJSON, "":
		return NewJSONFileStore(cfg.StorePath), nil
	case cliparse.StoreMemory:
		return NewMemoryStore(models.NewDatabase()), nil
	case cliparse.StoreSQLite:
		return OpenSQLStore(ctx, db.DialectSQLite, cfg.DatabaseURL)
	case cliparse.StorePostgres:
		return OpenSQLStore(ctx, db.DialectPostgres, cfg.DatabaseURL)
	case cliparse.StoreBadger:
		return NewBadgerStore(cfg.StorePath)
	}
	return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
}
