// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists saved aesthetics in a single JSON file mapping
// name to record. The whole file is rewritten on every save; the expected
// record count is small, so the simplicity beats an indexed store.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Aesthetic is a named, persisted aesthetic embedding.
type Aesthetic struct {
	Name      string    `json:"name"`
	Embedding string    `json:"embedding"`
	Created   time.Time `json:"created"`
}

// Store is a file-backed mapping from aesthetic name to record. A save
// holds the write lock for the full read-modify-write-persist cycle, so
// concurrent saves are serialized; reads are never blocked by each other.
type Store struct {
	mu    sync.RWMutex
	path  string
	items map[string]Aesthetic
}

// Open loads the store from path. A missing, unreadable, or corrupt file
// initializes an empty store instead of failing the process; the condition
// is logged only.
func Open(path string) *Store {
	s := &Store{
		path:  path,
		items: make(map[string]Aesthetic),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("aesthetic store unreadable, starting empty", "path", path, "error", err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.items); err != nil {
		slog.Warn("aesthetic store corrupt, starting empty", "path", path, "error", err)
		s.items = make(map[string]Aesthetic)
		return s
	}

	slog.Info("aesthetic store loaded", "path", path, "count", len(s.items))
	return s
}

// Save upserts a record under name with Created set to the current time —
// an overwrite resets it — and synchronously rewrites the backing file.
// On a write failure the in-memory state stays updated and the error is
// returned: the save is best-effort durable, not transactional.
func (s *Store) Save(name, embedding string) (Aesthetic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Aesthetic{
		Name:      name,
		Embedding: embedding,
		Created:   time.Now().UTC(),
	}
	s.items[name] = rec

	if err := s.persist(); err != nil {
		return rec, fmt.Errorf("store save %q: %w", name, err)
	}
	return rec, nil
}

// Get returns the record for name. The second return value reports whether
// it exists; a missing name is not an error.
func (s *Store) Get(name string) (Aesthetic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[name]
	return rec, ok
}

// List returns all saved records. Order is unspecified.
func (s *Store) List() []Aesthetic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Aesthetic, 0, len(s.items))
	for _, rec := range s.items {
		out = append(out, rec)
	}
	return out
}

// Len returns the number of saved records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// persist rewrites the whole backing file. Caller must hold the write lock.
func (s *Store) persist() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
