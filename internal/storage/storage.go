package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryAdapter is the process-local Adapter variant: index blobs and
// metadata live in plain maps, with a separate namespace for the optional
// key-value capability used to back the result cache (spec §4.7).
type MemoryAdapter struct {
	mu        sync.RWMutex
	indices   map[string]*SerializedIndex
	metadata  map[string]IndexConfig
	updatedAt map[string]time.Time
	kv        map[string][]byte
}

// NewMemoryAdapter returns a ready-to-use in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		indices:   make(map[string]*SerializedIndex),
		metadata:  make(map[string]IndexConfig),
		updatedAt: make(map[string]time.Time),
		kv:        make(map[string][]byte),
	}
}

func (m *MemoryAdapter) Initialize(ctx context.Context) error { return nil }

func (m *MemoryAdapter) StoreIndex(ctx context.Context, name string, serialized *SerializedIndex) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indices[name] = serialized
	m.updatedAt[name] = time.Now()
	return nil
}

func (m *MemoryAdapter) GetIndex(ctx context.Context, name string) (*SerializedIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indices[name]
	if !ok {
		return nil, nil
	}
	return idx, nil
}

func (m *MemoryAdapter) UpdateMetadata(ctx context.Context, name string, cfg IndexConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[name] = cfg
	m.updatedAt[name] = time.Now()
	return nil
}

func (m *MemoryAdapter) GetMetadata(ctx context.Context, name string) (*IndexConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.metadata[name]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (m *MemoryAdapter) RemoveIndex(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indices, name)
	delete(m.metadata, name)
	delete(m.updatedAt, name)
	return nil
}

func (m *MemoryAdapter) ClearIndices(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indices = make(map[string]*SerializedIndex)
	m.metadata = make(map[string]IndexConfig)
	m.updatedAt = make(map[string]time.Time)
	return nil
}

func (m *MemoryAdapter) HasIndex(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.indices[name]
	return ok, nil
}

func (m *MemoryAdapter) ListIndices(ctx context.Context) ([]IndexMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]IndexMetadata, 0, len(m.indices))
	for name := range m.indices {
		out = append(out, IndexMetadata{Name: name, Config: m.metadata[name], UpdatedAt: m.updatedAt[name]})
	}
	return out, nil
}

func (m *MemoryAdapter) Close() error { return nil }

// Get, Set, Remove, and Keys give MemoryAdapter the optional KeyValue
// capability, so it can double as the cache package's persistent backing
// in tests or single-process deployments.
func (m *MemoryAdapter) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	return v, ok, nil
}

func (m *MemoryAdapter) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

func (m *MemoryAdapter) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *MemoryAdapter) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.kv))
	for k := range m.kv {
		keys = append(keys, k)
	}
	return keys, nil
}
