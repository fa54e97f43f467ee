package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_blobs (
	user_id    TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, key)
);`

// SQLite is a file-backed Adapter. One row per (user, key) blob.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer at a time matches the engine's concurrency model.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Get(ctx context.Context, userID, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM user_blobs WHERE user_id = ? AND key = ?`, userID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s/%s: %w", userID, key, err)
	}
	return value, nil
}

func (s *SQLite) Put(ctx context.Context, userID, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_blobs (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, userID, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put blob %s/%s: %w", userID, key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, userID, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM user_blobs WHERE user_id = ? AND key = ?`, userID, key); err != nil {
		return fmt.Errorf("delete blob %s/%s: %w", userID, key, err)
	}
	return nil
}

func (s *SQLite) Keys(ctx context.Context, userID string) ([]string, error) {
	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		`SELECT key FROM user_blobs WHERE user_id = ? ORDER BY key`, userID)
	if err != nil {
		return nil, fmt.Errorf("list keys %s: %w", userID, err)
	}
	return keys, nil
}
