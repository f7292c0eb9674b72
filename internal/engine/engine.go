// Package engine implements the SearchEngine facade from spec §4.4: it
// coordinates the tokenizer, trie-backed index, result cache, and storage
// layer, and emits the documented lifecycle events.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corvidlabs/lexidex/internal/cache"
	"github.com/corvidlabs/lexidex/internal/config"
	"github.com/corvidlabs/lexidex/internal/incremental"
	"github.com/corvidlabs/lexidex/internal/models"
	"github.com/corvidlabs/lexidex/internal/storage"
)

// Engine is the embeddable search facade: one corpus, one trie-backed
// index, one result cache, one persistence binding.
type Engine struct {
	mu sync.RWMutex

	cfg   *config.EngineConfig
	idx   *index
	cache *cache.Manager
	store *storage.PersistenceManager
	log   *zap.Logger

	incr     *incremental.Manager
	incrOn   bool
	incrOpts []incremental.Option

	listeners   map[string][]Listener
	initialized bool
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets a logger for debug/warn output. A nil logger (the
// default) means silence.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithCache overrides the default result cache.
func WithCache(c *cache.Manager) Option {
	return func(e *Engine) { e.cache = c }
}

// WithIncrementalIndexing switches the engine from synchronous
// persist-on-every-write to the batched IncrementalIndexManager (spec
// §4.8): writes are applied to the live index immediately but persisted
// in the background on a threshold/interval schedule.
func WithIncrementalIndexing(opts ...incremental.Option) Option {
	return func(e *Engine) {
		e.incrOn = true
		e.incrOpts = opts
	}
}

// New builds an Engine over cfg and adapter, ready for Initialize.
func New(cfg *config.EngineConfig, adapter storage.Adapter, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		idx:       newIndex(cfg.Fields),
		cache:     cache.New(),
		store:     storage.NewPersistenceManager(adapter, storage.WithAutoFallback(true)),
		listeners: make(map[string][]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.incrOn {
		idxCfg := storage.IndexConfig{Name: cfg.Name, Version: cfg.Version, Fields: cfg.Fields}
		e.incr = incremental.New(
			newIndexAdapter(e.idx, idxCfg),
			newPersisterAdapter(e.store, idxCfg),
			cfg.Name, cfg.Version,
			e.incrOpts...,
		)
	}
	return e
}

// Initialize prepares storage and imports any previously persisted index
// under the configured name. Idempotent: a second call is a no-op.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	if err := e.store.Initialize(ctx); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	serialized, err := e.store.GetIndex(ctx, e.cfg.Name)
	if err != nil {
		if e.log != nil {
			e.log.Warn("engine: load persisted index failed", zap.Error(err))
		}
	} else if serialized != nil {
		if err := e.idx.LoadSerialized(serialized); err != nil {
			return fmt.Errorf("%w: %v", models.ErrIndex, err)
		}
	}

	if e.incr != nil {
		e.incr.Start(context.Background())
	}

	e.mu.Lock()
	e.initialized = true
	e.mu.Unlock()
	e.emit(EventEngineInitialized, nil)
	return nil
}

func (e *Engine) ensureInitialized(ctx context.Context) error {
	e.mu.RLock()
	ready := e.initialized
	e.mu.RUnlock()
	if ready {
		return nil
	}
	return e.Initialize(ctx)
}

// AddDocument normalizes, validates, indexes, and caches-invalidates doc.
// Emits index:complete or index:error.
func (e *Engine) AddDocument(ctx context.Context, doc *models.Document) error {
	if err := e.ensureInitialized(ctx); err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	models.NormalizeDocument(doc, time.Now())
	if err := validateDocument(doc); err != nil {
		e.emit(EventIndexError, map[string]interface{}{"id": doc.ID, "error": err.Error()})
		return err
	}

	if err := e.applyAdd(ctx, doc); err != nil {
		e.emit(EventIndexError, map[string]interface{}{"id": doc.ID, "error": err.Error()})
		return err
	}
	e.cache.Clear()
	e.emit(EventIndexComplete, map[string]interface{}{"id": doc.ID})
	return nil
}

func (e *Engine) applyAdd(ctx context.Context, doc *models.Document) error {
	if e.incr != nil {
		return e.incr.AddDocument(doc)
	}
	if err := e.idx.AddDocument(doc); err != nil {
		return err
	}
	e.persistBestEffort(ctx)
	return nil
}

// AddDocuments adds each document in list order, emitting index:start
// before and bulk:update:complete after.
func (e *Engine) AddDocuments(ctx context.Context, docs []*models.Document) error {
	e.emit(EventIndexStart, map[string]interface{}{"count": len(docs)})
	for _, doc := range docs {
		if err := e.AddDocument(ctx, doc); err != nil {
			return err
		}
	}
	e.emit(EventBulkUpdateComplete, map[string]interface{}{"count": len(docs)})
	return nil
}

// UpdateDocument replaces an existing document's content, pushing the
// prior content onto its version history when versioning is enabled and
// the content actually changed.
func (e *Engine) UpdateDocument(ctx context.Context, doc *models.Document) error {
	if err := e.ensureInitialized(ctx); err != nil {
		return err
	}
	models.NormalizeDocument(doc, time.Now())
	if err := validateDocument(doc); err != nil {
		e.emit(EventIndexError, map[string]interface{}{"id": doc.ID, "error": err.Error()})
		return err
	}

	if existing, ok := e.idx.Get(doc.ID); ok && e.cfg.DocumentSupport.Versioning.Enabled {
		prevContent := existing.FieldString("content")
		newContent := doc.FieldString("content")
		if prevContent != newContent {
			doc.Versions = append(append([]models.DocumentVersion(nil), existing.Versions...), models.DocumentVersion{
				Version:    len(existing.Versions) + 1,
				Content:    prevContent,
				ModifiedAt: existing.Metadata.LastModified,
			})
			max := e.cfg.DocumentSupport.Versioning.MaxVersions
			if max > 0 && len(doc.Versions) > max {
				doc.Versions = doc.Versions[len(doc.Versions)-max:]
			}
			if v, ok := doc.Fields["version"].(int); ok {
				doc.Fields["version"] = v + 1
			} else {
				doc.Fields["version"] = 1
			}
		}
	}

	if err := e.applyUpdate(ctx, doc); err != nil {
		e.emit(EventIndexError, map[string]interface{}{"id": doc.ID, "error": err.Error()})
		return err
	}
	e.cache.Clear()
	e.emit(EventIndexComplete, map[string]interface{}{"id": doc.ID})
	return nil
}

func (e *Engine) applyUpdate(ctx context.Context, doc *models.Document) error {
	if e.incr != nil {
		return e.incr.UpdateDocument(doc)
	}
	if err := e.idx.UpdateDocument(doc); err != nil {
		return err
	}
	e.persistBestEffort(ctx)
	return nil
}

// RemoveDocument removes id, erroring if it does not exist.
func (e *Engine) RemoveDocument(ctx context.Context, id string) error {
	if err := e.ensureInitialized(ctx); err != nil {
		return err
	}
	if err := e.applyRemove(ctx, id); err != nil {
		e.emit(EventRemoveError, map[string]interface{}{"id": id, "error": err.Error()})
		return err
	}
	e.cache.Clear()
	e.emit(EventRemoveComplete, map[string]interface{}{"id": id})
	return nil
}

func (e *Engine) applyRemove(ctx context.Context, id string) error {
	if e.incr != nil {
		return e.incr.RemoveDocument(id)
	}
	if err := e.idx.RemoveDocument(id); err != nil {
		return err
	}
	e.persistBestEffort(ctx)
	return nil
}

// Clear empties the index and persisted state.
func (e *Engine) Clear(ctx context.Context) error {
	e.idx.Clear()
	e.cache.Clear()
	if err := e.store.ClearIndices(ctx); err != nil {
		e.emit(EventIndexClearError, map[string]interface{}{"error": err.Error()})
		return err
	}
	e.emit(EventIndexClear, nil)
	return nil
}

// Close flushes a final snapshot and closes the persistence layer.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	if e.incr != nil {
		err = e.incr.Close(ctx)
	} else {
		e.persistBestEffort(ctx)
		err = e.store.Close()
	}
	e.emit(EventEngineClosed, nil)
	return err
}

func (e *Engine) persistBestEffort(ctx context.Context) {
	cfg := storage.IndexConfig{Name: e.cfg.Name, Version: e.cfg.Version, Fields: e.cfg.Fields}
	serialized := e.idx.Serialize(cfg)
	if err := e.store.StoreIndex(ctx, e.cfg.Name, serialized); err != nil {
		e.emit(EventStorageError, map[string]interface{}{"error": err.Error()})
		if e.log != nil {
			e.log.Warn("engine: persist failed", zap.Error(err))
		}
		return
	}
	_ = e.store.UpdateMetadata(ctx, e.cfg.Name, cfg)
}

func validateDocument(doc *models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document id must be non-empty", models.ErrValidation)
	}
	if doc.Fields == nil {
		return fmt.Errorf("%w: document fields must be a mapping", models.ErrValidation)
	}
	return nil
}

