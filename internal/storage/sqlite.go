// Package storage provides the SQLite Adapter variant.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteAdapter persists serialized indices and metadata in a single
// SQLite file under WAL journaling, so concurrent readers don't block the
// periodic auto-save writer.
type SQLiteAdapter struct {
	db *sql.DB
}

// NewSQLiteAdapter opens or creates a SQLite database at dbPath and
// initializes its schema. Parent directories are created if absent.
func NewSQLiteAdapter(dbPath string) (*SQLiteAdapter, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: enable WAL: %w", err)
	}
	if err := sqliteInitSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: initialize schema: %w", err)
	}
	return &SQLiteAdapter{db: db}, nil
}

func sqliteInitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_indices (
		name TEXT PRIMARY KEY,
		blob TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_search_indices_updated_at ON search_indices(updated_at);

	CREATE TABLE IF NOT EXISTS metadata (
		name TEXT PRIMARY KEY,
		config TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_metadata_updated_at ON metadata(updated_at);

	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteAdapter) Initialize(ctx context.Context) error { return nil }

func (s *SQLiteAdapter) StoreIndex(ctx context.Context, name string, serialized *SerializedIndex) error {
	blob, err := json.Marshal(serialized)
	if err != nil {
		return fmt.Errorf("storage: marshal index %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_indices (name, blob, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		name, string(blob), time.Now(),
	)
	return err
}

func (s *SQLiteAdapter) GetIndex(ctx context.Context, name string) (*SerializedIndex, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM search_indices WHERE name = ?`, name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out SerializedIndex
	if err := json.Unmarshal([]byte(blob), &out); err != nil {
		return nil, fmt.Errorf("storage: unmarshal index %q: %w", name, err)
	}
	return &out, nil
}

func (s *SQLiteAdapter) UpdateMetadata(ctx context.Context, name string, cfg IndexConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("storage: marshal metadata %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO metadata (name, config, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`,
		name, string(blob), time.Now(),
	)
	return err
}

func (s *SQLiteAdapter) GetMetadata(ctx context.Context, name string) (*IndexConfig, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT config FROM metadata WHERE name = ?`, name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg IndexConfig
	if err := json.Unmarshal([]byte(blob), &cfg); err != nil {
		return nil, fmt.Errorf("storage: unmarshal metadata %q: %w", name, err)
	}
	return &cfg, nil
}

func (s *SQLiteAdapter) RemoveIndex(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_indices WHERE name = ?`, name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE name = ?`, name)
	return err
}

func (s *SQLiteAdapter) ClearIndices(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_indices`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata`)
	return err
}

func (s *SQLiteAdapter) HasIndex(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_indices WHERE name = ?`, name).Scan(&count)
	return count > 0, err
}

func (s *SQLiteAdapter) ListIndices(ctx context.Context) ([]IndexMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT si.name, si.updated_at, COALESCE(m.config, '') FROM search_indices si
		 LEFT JOIN metadata m ON m.name = si.name ORDER BY si.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IndexMetadata
	for rows.Next() {
		var name, configBlob string
		var updatedAt time.Time
		if err := rows.Scan(&name, &updatedAt, &configBlob); err != nil {
			return nil, err
		}
		meta := IndexMetadata{Name: name, UpdatedAt: updatedAt}
		if configBlob != "" {
			_ = json.Unmarshal([]byte(configBlob), &meta.Config)
		}
		out = append(out, meta)
	}
	return out, rows.Err()
}

func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}

// Get, Set, Remove, and Keys give SQLiteAdapter the optional KeyValue
// capability, backing the result cache in a single persistent file
// alongside the index data.
func (s *SQLiteAdapter) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLiteAdapter) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv_store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *SQLiteAdapter) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv_store WHERE key = ?`, key)
	return err
}

func (s *SQLiteAdapter) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv_store`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
