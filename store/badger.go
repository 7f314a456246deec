// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"os"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/danielhkuo/memojo/models"
)

const (
	votePrefix         = "vote/"
	subscriptionPrefix = "sub/"

	// maxConflictRetries bounds how often a transaction is replayed after
	// badger reports a write conflict
	maxConflictRetries = 16
)

// BadgerStore keeps one key per tally and per subscription list in BadgerDB.
// Mutations run in transactions; conflicting transactions are retried.
type BadgerStore struct {
	db *badger.DB
	mu sync.Mutex // serializes writers within this process
}

// NewBadgerStore opens a store at path. An empty path opens an in-memory store.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrap(err, "create badger directory")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger db")
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) RecordVote(ctx context.Context, featureID, level string) (models.VoteTally, error) {
	if !models.IsValidVoteType(level) {
		return models.VoteTally{}, models.ErrInvalidVoteType
	}

	var tally models.VoteTally
	err := s.update(ctx, func(txn *badger.Txn) error {
		tally = models.VoteTally{}
		key := []byte(votePrefix + featureID)
		if err := getJSON(txn, key, &tally); err != nil && !stdErrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tally.Increment(level); err != nil {
			return err
		}
		return setJSON(txn, key, tally)
	})
	if err != nil {
		return models.VoteTally{}, errors.Wrapf(err, "record vote for %s", featureID)
	}
	return tally, nil
}

func (s *BadgerStore) RecordSubscription(ctx context.Context, key, email string) (bool, error) {
	var added bool
	err := s.update(ctx, func(txn *badger.Txn) error {
		added = false
		k := []byte(subscriptionPrefix + key)
		emails := []string{}
		if err := getJSON(txn, k, &emails); err != nil && !stdErrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		for _, existing := range emails {
			if existing == email {
				return nil
			}
		}
		added = true
		return setJSON(txn, k, append(emails, email))
	})
	if err != nil {
		return false, errors.Wrapf(err, "record subscription for %s", key)
	}
	return added, nil
}

func (s *BadgerStore) Snapshot(_ context.Context) (models.Database, error) {
	data := models.NewDatabase()

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			switch {
			case strings.HasPrefix(key, votePrefix):
				var tally models.VoteTally
				if err := json.Unmarshal(raw, &tally); err != nil {
					return errors.Wrapf(err, "decode tally %s", key)
				}
				data.Votes[strings.TrimPrefix(key, votePrefix)] = tally
			case strings.HasPrefix(key, subscriptionPrefix):
				emails := []string{}
				if err := json.Unmarshal(raw, &emails); err != nil {
					return errors.Wrapf(err, "decode subscriptions %s", key)
				}
				data.Subscriptions[strings.TrimPrefix(key, subscriptionPrefix)] = emails
			}
		}
		return nil
	})
	if err != nil {
		return models.Database{}, errors.Wrap(err, "snapshot")
	}

	data.Normalize()
	return data, nil
}

func (s *BadgerStore) Seed(ctx context.Context, initial models.Database) (bool, error) {
	var seeded bool
	err := s.update(ctx, func(txn *badger.Txn) error {
		seeded = false
		if hasPrefix(txn, votePrefix) || hasPrefix(txn, subscriptionPrefix) {
			return nil
		}
		for featureID, tally := range initial.Votes {
			if err := setJSON(txn, []byte(votePrefix+featureID), tally); err != nil {
				return err
			}
		}
		for key, emails := range initial.Subscriptions {
			if emails == nil {
				emails = []string{}
			}
			if err := setJSON(txn, []byte(subscriptionPrefix+key), emails); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "seed")
	}
	return seeded, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// update runs fn in a read-write transaction, replaying it on write conflicts
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !stdErrors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func getJSON(txn *badger.Txn, key []byte, dest interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, raw)
}

func hasPrefix(txn *badger.Txn, prefix string) bool {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()
	it.Rewind()
	return it.Valid()
}
