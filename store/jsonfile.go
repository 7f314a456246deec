// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/memojo/models"
)

// JSONFileStore keeps the whole document in one JSON file, read in full and
// rewritten in full on every mutation.
//
// Read failures are logged and replaced by an empty document. Write failures
// are logged and swallowed, so a caller may see success for a mutation that
// was not persisted. The mutex only covers this process.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the file backing the store
func (s *JSONFileStore) Path() string {
	return s.path
}

func (s *JSONFileStore) RecordVote(_ context.Context, featureID, level string) (models.VoteTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.read()
	tally, err := data.ApplyVote(featureID, level)
	if err != nil {
		return models.VoteTally{}, err
	}
	s.write(data)
	return tally, nil
}

func (s *JSONFileStore) RecordSubscription(_ context.Context, key, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.read()
	if !data.AddSubscription(key, email) {
		return false, nil
	}
	s.write(data)
	return true, nil
}

func (s *JSONFileStore) Snapshot(_ context.Context) (models.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(), nil
}

func (s *JSONFileStore) Seed(_ context.Context, initial models.Database) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data := s.read(); !data.IsEmpty() {
		return false, nil
	}
	seed := initial.Clone()
	if err := s.writeFile(seed); err != nil {
		return false, err
	}
	return true, nil
}

func (s *JSONFileStore) Close() error {
	return nil
}

// read loads the document, falling back to an empty one on any failure
func (s *JSONFileStore) read() models.Database {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("store file missing, using empty document", "path", s.path)
		} else {
			slog.Error("failed to read store file", "path", s.path, "error", err)
		}
		return models.NewDatabase()
	}

	var data models.Database
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Error("failed to parse store file", "path", s.path, "size", humanize.Bytes(uint64(len(raw))), "error", err)
		return models.NewDatabase()
	}
	data.Normalize()
	return data
}

// write persists the document, logging instead of returning failures
func (s *JSONFileStore) write(data models.Database) {
	if err := s.writeFile(data); err != nil {
		slog.Error("failed to write store file", "path", s.path, "error", err)
	}
}

// writeFile replaces the file through a temp file and rename, so readers
// never observe a half-written document
func (s *JSONFileStore) writeFile(data models.Database) error {
	data.Normalize()
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	slog.Debug("store written", "path", s.path, "size", humanize.Bytes(uint64(len(raw))))
	return nil
}
