// Package store is a small persisted key-value store backing the overlay UI
// state (last anchor, expanded flag) across launches.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Well-known keys.
const (
	KeyOverlayAnchor   = "overlay.anchor"
	KeyOverlayExpanded = "overlay.expanded"
	KeyOverlayVisible  = "overlay.visible"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("store: key not found")

// Store is a sqlite-backed string key-value store. Safe for concurrent use;
// database/sql serializes access to the single connection.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Single writer; modernc sqlite handles WAL-less desktop workloads fine
	// but concurrent connections would contend on the file lock.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get %q: %w", key, err)
	}
	return value, nil
}

// Set writes value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return errors.New("store: key required")
	}
	if _, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
		return fmt.Errorf("store: set %q: %w", key, err)
	}
	return nil
}

// GetBool reads a boolean value. Missing keys return (false, ErrNotFound).
func (s *Store) GetBool(key string) (bool, error) {
	raw, err := s.Get(key)
	if err != nil {
		return false, err
	}
	value, parseErr := strconv.ParseBool(raw)
	if parseErr != nil {
		return false, fmt.Errorf("store: %q holds non-boolean value %q", key, raw)
	}
	return value, nil
}

// SetBool writes a boolean value.
func (s *Store) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DefaultPath returns the store location next to the config file.
func DefaultPath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." || dir == "" {
		slog.Warn("[store] config path has no directory, using temp dir")
		dir = os.TempDir()
	}
	return filepath.Join(dir, "state.db")
}
