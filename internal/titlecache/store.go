// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package titlecache persists vision model responses in SQLite so that an
// interrupted or repeated extraction does not call the model again for an
// image it has already seen.
package titlecache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Kind separates responses produced by different instructions.
type Kind string

const (
	KindTitle   Kind = "title"
	KindOutline Kind = "outline"
)

// Key identifies a cached response: image content, model and instruction kind.
type Key struct {
	ImageHash string
	Model     string
	Kind      Kind
}

// Entry is a cached model response.
type Entry struct {
	Key
	Image     string
	Raw       string
	CreatedAt time.Time
}

// Store manages the response cache database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// DefaultPath returns <user cache dir>/slidedeck/cache.db.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(dir, "slidedeck", "cache.db"), nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		image_hash TEXT NOT NULL,
		model TEXT NOT NULL,
		kind TEXT NOT NULL,
		image TEXT,
		raw TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (image_hash, model, kind)
	)`)
	return err
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached raw response for key. The boolean is false when
// nothing is cached.
func (s *Store) Get(key Key) (string, bool, error) {
	var raw string
	err := s.db.QueryRow(
		`SELECT raw FROM responses WHERE image_hash = ? AND model = ? AND kind = ?`,
		key.ImageHash, key.Model, string(key.Kind),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache: %w", err)
	}
	return raw, true, nil
}

// Put stores or replaces the raw response for key. image is kept for
// inspection only.
func (s *Store) Put(key Key, image, raw string) error {
	_, err := s.db.Exec(
		`INSERT INTO responses (image_hash, model, kind, image, raw, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (image_hash, model, kind) DO UPDATE SET
		   image = excluded.image, raw = excluded.raw, created_at = excluded.created_at`,
		key.ImageHash, key.Model, string(key.Kind), image, raw,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Entries lists every cached response, most recent first.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT image_hash, model, kind, image, raw, created_at FROM responses ORDER BY created_at DESC, image`)
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, created string
		var image sql.NullString
		if err := rows.Scan(&e.ImageHash, &e.Model, &kind, &image, &e.Raw, &created); err != nil {
			return nil, fmt.Errorf("scanning cache row: %w", err)
		}
		e.Kind = Kind(kind)
		e.Image = image.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every cached response and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
