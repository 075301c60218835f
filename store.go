package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// storeJSON sorts map keys on marshal, which keeps the persisted file
// byte-stable across load/save round trips.
var storeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Database is the aggregate of the three mutually referencing
// collections. It is exclusively owned by an AtomicStore; entries are
// held by value and cross-collection references are copied key
// strings, never pointers.
type Database struct {
	Books      Books      `json:"books"`
	Categories Categories `json:"categories"`
	Users      Users      `json:"users"`
}

// NewDatabase returns an empty aggregate.
func NewDatabase() *Database {
	return &Database{
		Books:      Books{},
		Categories: Categories{},
		Users:      Users{},
	}
}

// AtomicStore guards the aggregate with multiple-reader/single-writer
// semantics and persists it durably on every write guard release. It
// is process local: concurrent external writers of the same file are
// out of scope.
type AtomicStore struct {
	mu   sync.RWMutex
	path string
	db   *Database
}

// CreateStore initializes a fresh store file at path. It fails when
// the file already exists.
func CreateStore(path string) (*AtomicStore, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("store: file %s already exists", path)
	}
	store := &AtomicStore{path: path, db: NewDatabase()}
	if err := store.save(); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadStore reads a previously persisted aggregate from path.
func LoadStore(path string) (*AtomicStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: failed to read %s: %w", path, err)
	}
	db := NewDatabase()
	if err := storeJSON.Unmarshal(raw, db); err != nil {
		return nil, fmt.Errorf("store: failed to decode %s: %w", path, err)
	}
	return &AtomicStore{path: path, db: db}, nil
}

// Path returns the location of the persisted file.
func (s *AtomicStore) Path() string {
	return s.path
}

// Read acquires a shared guard. Any number of read guards may be held
// concurrently; an active write guard excludes them all.
func (s *AtomicStore) Read() *ReadGuard {
	s.mu.RLock()
	return &ReadGuard{store: s}
}

// Write acquires the exclusive guard.
func (s *AtomicStore) Write() *WriteGuard {
	s.mu.Lock()
	return &WriteGuard{store: s}
}

// ReadGuard grants shared access to the aggregate.
type ReadGuard struct {
	store *AtomicStore
	once  sync.Once
}

// DB exposes the aggregate for read-only operations.
func (g *ReadGuard) DB() *Database {
	return g.store.db
}

// Close releases the shared guard.
func (g *ReadGuard) Close() {
	g.once.Do(g.store.mu.RUnlock)
}

// WriteGuard grants exclusive access to the aggregate.
type WriteGuard struct {
	store *AtomicStore
	once  sync.Once
}

// DB exposes the aggregate for mutation.
func (g *WriteGuard) DB() *Database {
	return g.store.db
}

// Close persists the aggregate and releases the exclusive guard. The
// save happens even when the wrapped operation failed; a failed rename
// already mutated the aggregate and must stay observable on disk.
func (g *WriteGuard) Close() error {
	var err error
	g.once.Do(func() {
		err = g.store.save()
		g.store.mu.Unlock()
	})
	return err
}

// save serializes the aggregate to a temporary file in the target
// directory and renames it over the store file, so a crash mid-write
// never corrupts the previous valid state.
func (s *AtomicStore) save() error {
	raw, err := storeJSON.MarshalIndent(s.db, "", "  ")
	if err != nil {
		return fmt.Errorf("store: failed to encode aggregate: %w", err)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".slib-*.json")
	if err != nil {
		return fmt.Errorf("store: failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("store: failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: failed to replace %s: %w", s.path, err)
	}
	return nil
}

// sortedKeys returns the keys of m in ascending order. The collections
// iterate through it wherever ordering is observable.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
