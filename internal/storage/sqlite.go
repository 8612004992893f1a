// Package storage provides the client's durable local state: a SQLite
// key/value table partitioned by API origin, the terminal counterpart of
// browser localStorage.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection with initialization logic.
type DB struct {
	*sql.DB
}

// Open creates or opens the SQLite database at the given path and runs schema
// initialization.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS local_storage (
		origin     TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (origin, key)
	)`)
	return err
}

// Origin returns the store scoped to the origin of rawURL
// (scheme://host[:port]). Paths and queries do not affect the scope.
func (db *DB) Origin(rawURL string) (*LocalStore, error) {
	origin, err := OriginOf(rawURL)
	if err != nil {
		return nil, err
	}
	return &LocalStore{db: db, origin: origin}, nil
}

// OriginOf normalizes rawURL to its origin
func OriginOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("parse origin: %q is not an absolute URL", rawURL)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// LocalStore is a key/value view restricted to one origin
type LocalStore struct {
	db     *DB
	origin string
}

// Origin returns the scope of this store
func (s *LocalStore) Origin() string {
	return s.origin
}

// Get returns the value for key. The bool is false when the key is absent.
func (s *LocalStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM local_storage WHERE origin = ? AND key = ?`,
		s.origin, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *LocalStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO local_storage (origin, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(origin, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.origin, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *LocalStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM local_storage WHERE origin = ? AND key = ?`, s.origin, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key of this origin
func (s *LocalStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM local_storage WHERE origin = ?`, s.origin); err != nil {
		return fmt.Errorf("clear %s: %w", s.origin, err)
	}
	return nil
}
