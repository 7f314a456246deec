// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"

	"github.com/danielhkuo/memojo/models"
)

// MemoryStore keeps the document in process memory. Used by demo mode and tests.
type MemoryStore struct {
	mu   sync.Mutex
	data models.Database
}

func NewMemoryStore(initial models.Database) *MemoryStore {
	data := initial.Clone()
	return &MemoryStore{data: data}
}

func (s *MemoryStore) RecordVote(_ context.Context, featureID, level string) (models.VoteTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ApplyVote(featureID, level)
}

func (s *MemoryStore) RecordSubscription(_ context.Context, key, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AddSubscription(key, email), nil
}

func (s *MemoryStore) Snapshot(_ context.Context) (models.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone(), nil
}

func (s *MemoryStore) Seed(_ context.Context, initial models.Database) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.data.IsEmpty() {
		return false, nil
	}
	s.data = initial.Clone()
	return true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
