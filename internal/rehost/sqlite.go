package rehost

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Schema creates the image table.
const Schema = `CREATE TABLE IF NOT EXISTS images (
	id           TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	data         BLOB NOT NULL,
	created_at   INTEGER NOT NULL
)`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=10000",
	"PRAGMA synchronous=NORMAL",
}

// SQLiteStore keeps images in a SQLite database, addressed by the SHA-256 of
// their content, and serves them under baseURL.
type SQLiteStore struct {
	db      *sql.DB
	baseURL string
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for a
// process-local store.
func OpenSQLite(ctx context.Context, path, baseURL string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrStore, path, err)
	}
	if path == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrStore, p, err)
		}
	}
	s, err := NewSQLiteStore(ctx, db, baseURL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open database, creating the schema if needed.
func NewSQLiteStore(ctx context.Context, db *sql.DB, baseURL string) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return nil, fmt.Errorf("%w: creating schema: %v", ErrStore, err)
	}
	return &SQLiteStore{db: db, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put stores data and returns its URL. Storing the same bytes twice yields
// the same URL.
func (s *SQLiteStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyData
	}
	sum := sha256.Sum256(data)
	id := hex.EncodeToString(sum[:])
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO images (id, content_type, data, created_at) VALUES (?, ?, ?, ?)`,
		id, contentType, data, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("%w: insert: %v", ErrStore, err)
	}
	return s.baseURL + "/images/" + id, nil
}

// Get returns the image stored under id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Image, error) {
	var img Image
	err := s.db.QueryRowContext(ctx,
		`SELECT content_type, data FROM images WHERE id = ?`, id).Scan(&img.ContentType, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return Image{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Image{}, fmt.Errorf("%w: select: %v", ErrStore, err)
	}
	return img, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
