package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	backendJSON   = "json"
	backendSQLite = "sqlite"
	backendMemory = "memory"
)

// KVStore is the local key-value storage the dashboard persists into.
// Values are opaque strings. Any call may fail; callers treat the store as
// best-effort.
type KVStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// openStore opens the store for the given backend. path is ignored for memory.
func openStore(backend, path string) (KVStore, error) {
	switch backend {
	case backendJSON, "":
		s, err := openFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case backendSQLite:
		s, err := openSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case backendMemory:
		return newMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil && !os.IsExist(err) {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return nil
}

// fileStore keeps every key in one JSON object on disk. The file is re-read on
// every access so several processes can share it.
type fileStore struct {
	mu   sync.Mutex
	path string
}

func openFileStore(path string) (*fileStore, error) {
	if path == "" {
		return nil, errors.New("json store: empty path")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &fileStore{path: path}, nil
}

func (s *fileStore) load() (map[string]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer f.Close()
	entries := map[string]string{}
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

func (s *fileStore) save(entries map[string]string) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// Set overwrites key. A corrupt file is replaced rather than left blocking
// every future write.
func (s *fileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		entries = map[string]string{}
	}
	entries[key] = value
	return s.save(entries)
}

func (s *fileStore) Close() error { return nil }

type sqliteStore struct {
	db *sql.DB
}

func openSQLiteStore(path string) (*sqliteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: empty path")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *sqliteStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]string{}}
}

func (s *memoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *memoryStore) Set(key, value string) error {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error { return nil }
