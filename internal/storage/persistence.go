package storage

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// PersistenceManager wraps one Adapter, adding a read-through cache of
// serialized index blobs and an automatic fallback to an in-memory
// adapter if the configured one fails to initialize (spec §4.7).
type PersistenceManager struct {
	mu          sync.RWMutex
	adapter     Adapter
	blobCache   map[string]*SerializedIndex
	autoFallback bool
	fellBack    bool
	logger      *zap.Logger
}

// PersistenceOption configures a PersistenceManager at construction.
type PersistenceOption func(*PersistenceManager)

// WithAutoFallback enables falling back to an in-memory adapter when the
// configured adapter fails to initialize, rather than surfacing the error.
func WithAutoFallback(enabled bool) PersistenceOption {
	return func(p *PersistenceManager) { p.autoFallback = enabled }
}

func WithPersistenceLogger(l *zap.Logger) PersistenceOption {
	return func(p *PersistenceManager) { p.logger = l }
}

// NewPersistenceManager wraps adapter, ready for Initialize.
func NewPersistenceManager(adapter Adapter, opts ...PersistenceOption) *PersistenceManager {
	p := &PersistenceManager{
		adapter:   adapter,
		blobCache: make(map[string]*SerializedIndex),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize initializes the wrapped adapter. On failure, if autoFallback
// is enabled, it substitutes an in-memory adapter and continues instead of
// surfacing the error.
func (p *PersistenceManager) Initialize(ctx context.Context) error {
	if err := p.adapter.Initialize(ctx); err != nil {
		if !p.autoFallback {
			return fmt.Errorf("storage: initialize: %w", err)
		}
		if p.logger != nil {
			p.logger.Warn("storage adapter init failed, falling back to memory", zap.Error(err))
		}
		p.mu.Lock()
		p.adapter = NewMemoryAdapter()
		p.fellBack = true
		p.mu.Unlock()
		return p.adapter.Initialize(ctx)
	}
	return nil
}

// FellBack reports whether Initialize substituted the in-memory adapter.
func (p *PersistenceManager) FellBack() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fellBack
}

// StoreIndex writes through to the adapter and refreshes the blob cache.
func (p *PersistenceManager) StoreIndex(ctx context.Context, name string, serialized *SerializedIndex) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.adapter.StoreIndex(ctx, name, serialized); err != nil {
		return err
	}
	p.blobCache[name] = serialized
	return nil
}

// GetIndex returns the blob-cached copy if present, otherwise reads
// through to the adapter and populates the cache.
func (p *PersistenceManager) GetIndex(ctx context.Context, name string) (*SerializedIndex, error) {
	p.mu.RLock()
	cached, ok := p.blobCache[name]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.blobCache[name]; ok {
		return cached, nil
	}
	idx, err := p.adapter.GetIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	if idx != nil {
		p.blobCache[name] = idx
	}
	return idx, nil
}

func (p *PersistenceManager) UpdateMetadata(ctx context.Context, name string, cfg IndexConfig) error {
	return p.adapter.UpdateMetadata(ctx, name, cfg)
}

func (p *PersistenceManager) GetMetadata(ctx context.Context, name string) (*IndexConfig, error) {
	return p.adapter.GetMetadata(ctx, name)
}

func (p *PersistenceManager) RemoveIndex(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.blobCache, name)
	return p.adapter.RemoveIndex(ctx, name)
}

func (p *PersistenceManager) ClearIndices(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blobCache = make(map[string]*SerializedIndex)
	return p.adapter.ClearIndices(ctx)
}

func (p *PersistenceManager) HasIndex(ctx context.Context, name string) (bool, error) {
	return p.adapter.HasIndex(ctx, name)
}

func (p *PersistenceManager) ListIndices(ctx context.Context) ([]IndexMetadata, error) {
	return p.adapter.ListIndices(ctx)
}

// Close closes the wrapped adapter.
func (p *PersistenceManager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.adapter.Close()
}
