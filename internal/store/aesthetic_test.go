// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "aesthetics.json"))
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := testStore(t)

	text := "warm rustic farmhouse: oak textures, cream whites, soft morning light"
	if _, err := s.Save("farmhouse", text); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}

	rec, ok := s.Get("farmhouse")
	if !ok {
		t.Fatal("Get: record not found after Save")
	}
	if rec.Embedding != text {
		t.Errorf("embedding: got %q, want %q", rec.Embedding, text)
	}
	if rec.Name != "farmhouse" {
		t.Errorf("name: got %q, want %q", rec.Name, "farmhouse")
	}
	if rec.Created.IsZero() {
		t.Error("created timestamp is zero")
	}
}

func TestSaveOverwritesLastWriteWins(t *testing.T) {
	s := testStore(t)

	if _, err := s.Save("x", "a"); err != nil {
		t.Fatalf("Save(a): %v", err)
	}
	first, _ := s.Get("x")

	if _, err := s.Save("x", "b"); err != nil {
		t.Fatalf("Save(b): %v", err)
	}

	rec, ok := s.Get("x")
	if !ok {
		t.Fatal("record missing after overwrite")
	}
	if rec.Embedding != "b" {
		t.Errorf("embedding after overwrite: got %q, want %q", rec.Embedding, "b")
	}
	if rec.Created.Before(first.Created) {
		t.Error("created should be reset on overwrite, not preserved")
	}

	if got := len(s.List()); got != 1 {
		t.Errorf("List length: got %d, want 1", got)
	}
}

func TestGetMissingIsNotAnError(t *testing.T) {
	s := testStore(t)

	if _, ok := s.Get("unknown"); ok {
		t.Error("Get(unknown): got ok=true, want false")
	}
}

func TestListReturnsAllRecords(t *testing.T) {
	s := testStore(t)

	for _, name := range []string{"one", "two", "three"} {
		if _, err := s.Save(name, "vibe "+name); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("List length: got %d, want 3", len(list))
	}
	seen := make(map[string]bool)
	for _, rec := range list {
		seen[rec.Name] = true
	}
	for _, name := range []string{"one", "two", "three"} {
		if !seen[name] {
			t.Errorf("List missing record %q", name)
		}
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aesthetics.json")

	s1 := Open(path)
	if _, err := s1.Save("kept", "survives restarts"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s2 := Open(path)
	rec, ok := s2.Get("kept")
	if !ok {
		t.Fatal("record missing after reopen")
	}
	if rec.Embedding != "survives restarts" {
		t.Errorf("embedding: got %q, want %q", rec.Embedding, "survives restarts")
	}
}

func TestOpenCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aesthetics.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0 for corrupt file", s.Len())
	}

	// The store must still accept writes afterwards.
	if _, err := s.Save("fresh", "new"); err != nil {
		t.Fatalf("Save after corrupt open: %v", err)
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "does", "not", "exist.json"))
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0 for missing file", s.Len())
	}
}

func TestFileLayoutIsNameKeyedObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aesthetics.json")

	s := Open(path)
	if _, err := s.Save("magazine_style", "sleek minimalist magazine layout"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}

	var onDisk map[string]struct {
		Name      string    `json:"name"`
		Embedding string    `json:"embedding"`
		Created   time.Time `json:"created"`
	}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("backing file is not a name-keyed object: %v", err)
	}

	rec, ok := onDisk["magazine_style"]
	if !ok {
		t.Fatal("backing file missing key magazine_style")
	}
	if rec.Embedding != "sleek minimalist magazine layout" {
		t.Errorf("on-disk embedding: got %q", rec.Embedding)
	}
}

func TestConcurrentSavesSerialize(t *testing.T) {
	s := testStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Save("shared", "value"); err != nil {
				t.Errorf("Save: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(s.List()); got != 1 {
		t.Errorf("List length after concurrent saves: got %d, want 1", got)
	}
}
