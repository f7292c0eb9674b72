// Package storage implements the persistence boundary: the StorageAdapter
// contract, its in-memory/SQLite/Redis variants, and PersistenceManager's
// read-through blob cache with automatic fallback (spec §4.7).
package storage

import (
	"context"
	"time"

	"github.com/corvidlabs/lexidex/internal/models"
	"github.com/corvidlabs/lexidex/internal/trie"
)

// IndexConfig is the subset of SearchEngineConfig that gets persisted
// alongside a serialized index, so a reload can validate compatibility.
type IndexConfig struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Fields  []string `json:"fields"`
}

// DocumentEntry is one (id, document) pair in a serialized index's
// document table.
type DocumentEntry struct {
	Key   string           `json:"key"`
	Value *models.Document `json:"value"`
}

// SerializedIndex is the language-neutral, JSON-shaped wire format
// described in spec §4.7/§6: documents, trie state, and config together.
type SerializedIndex struct {
	Version    int                  `json:"version"`
	Documents  []DocumentEntry      `json:"documents"`
	IndexState *trie.SerializedNode `json:"indexState"`
	Config     IndexConfig          `json:"config"`
}

// IndexMetadata pairs a persisted index's config with its last-write time,
// returned by ListIndices for secondary-index-style queries.
type IndexMetadata struct {
	Name      string
	Config    IndexConfig
	UpdatedAt time.Time
}

// Adapter is the mandatory index-store capability every storage backend
// implements (spec §9: mandatory index-store capability, separated from
// the optional key-value one below).
type Adapter interface {
	Initialize(ctx context.Context) error
	StoreIndex(ctx context.Context, name string, serialized *SerializedIndex) error
	GetIndex(ctx context.Context, name string) (*SerializedIndex, error)
	UpdateMetadata(ctx context.Context, name string, cfg IndexConfig) error
	GetMetadata(ctx context.Context, name string) (*IndexConfig, error)
	RemoveIndex(ctx context.Context, name string) error
	ClearIndices(ctx context.Context) error
	HasIndex(ctx context.Context, name string) (bool, error)
	ListIndices(ctx context.Context) ([]IndexMetadata, error)
	Close() error
}

// KeyValue is the optional capability some adapters additionally expose,
// for backing a secondary cache. It is not part of Adapter: callers probe
// for it with a type assertion, matching spec §9's guidance to verify
// supported capabilities at construction rather than force every adapter
// to stub out methods it cannot implement.
type KeyValue interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Keys() ([]string, error)
}
