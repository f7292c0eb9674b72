// Package incremental implements the IncrementalIndexManager from spec
// §4.8: batched document mutations against an index, with dirty tracking
// and a periodic auto-save loop, grounded on the teacher's watcher
// run-loop/done-channel shape and its WithLogger option convention.
package incremental

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/corvidlabs/lexidex/internal/models"
)

const (
	defaultAutoSaveIntervalMs = 30_000
	defaultAutoSaveThreshold  = 100
	defaultBatchSize          = 100
)

// Index is what the manager needs from the live index: mutate it and
// produce the serialized snapshot persisted on save. The engine satisfies
// it with an adapter over its internal index.
type Index interface {
	AddDocument(doc *models.Document) error
	UpdateDocument(doc *models.Document) error
	RemoveDocument(id string) error
	Serialize() (interface{}, error)
}

// Persister is the subset of storage.PersistenceManager/Adapter the
// manager needs to write a save through.
type Persister interface {
	StoreIndex(ctx context.Context, name string, serialized interface{}) error
	UpdateMetadata(ctx context.Context, name string, version int) error
	Close() error
}

// Manager batches add/update/remove operations against an Index and
// periodically flushes them through a Persister.
type Manager struct {
	mu sync.Mutex

	index      Index
	persister  Persister
	indexName  string
	version    int
	logger     *zap.Logger

	autoSaveIntervalMs int
	autoSaveThreshold  int

	pendingChanges map[string]struct{}
	isSaving       bool
	lastSaved      time.Time

	cancel context.CancelFunc
	done   chan struct{}
	stopOnce sync.Once
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithAutoSaveInterval overrides the default 30s auto-save interval.
func WithAutoSaveInterval(ms int) Option {
	return func(m *Manager) { m.autoSaveIntervalMs = ms }
}

// WithAutoSaveThreshold overrides the default 100-change auto-save threshold.
func WithAutoSaveThreshold(n int) Option {
	return func(m *Manager) { m.autoSaveThreshold = n }
}

// WithLogger sets a logger for debug/warn output (auto-save fired, save
// error). A nil logger (the default) means silence.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New builds a Manager over index, persisting snapshots under indexName
// through persister.
func New(index Index, persister Persister, indexName string, version int, opts ...Option) *Manager {
	m := &Manager{
		index:              index,
		persister:          persister,
		indexName:          indexName,
		version:            version,
		autoSaveIntervalMs: defaultAutoSaveIntervalMs,
		autoSaveThreshold:  defaultAutoSaveThreshold,
		pendingChanges:     make(map[string]struct{}),
		lastSaved:          time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the periodic auto-save tick. It runs until ctx is
// cancelled or Close is called.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	tickCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run(tickCtx)
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)
	interval := time.Duration(m.autoSaveIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.maybeAutoSave(ctx)
		}
	}
}

// maybeAutoSave runs saveIndex if the pending-change count has reached the
// threshold or the interval has elapsed since the last save, and no save
// is already in flight.
func (m *Manager) maybeAutoSave(ctx context.Context) {
	m.mu.Lock()
	if m.isSaving {
		m.mu.Unlock()
		return
	}
	due := len(m.pendingChanges) >= m.autoSaveThreshold ||
		time.Since(m.lastSaved) >= time.Duration(m.autoSaveIntervalMs)*time.Millisecond
	m.mu.Unlock()
	if !due {
		return
	}
	if err := m.saveIndex(ctx); err != nil && m.logger != nil {
		m.logger.Warn("incremental: auto-save failed", zap.Error(err))
	}
}

// AddDocument adds doc to the index and marks it pending for save.
func (m *Manager) AddDocument(doc *models.Document) error {
	if err := m.index.AddDocument(doc); err != nil {
		return fmt.Errorf("incremental: add document: %w", err)
	}
	m.markPending(doc.ID)
	return nil
}

// AddDocuments adds each document in list order, stopping at the first
// error (documents already added remain indexed and pending).
func (m *Manager) AddDocuments(docs []*models.Document) error {
	for _, doc := range docs {
		if err := m.AddDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

// UpdateDocument updates doc in the index and marks it pending for save.
func (m *Manager) UpdateDocument(doc *models.Document) error {
	if err := m.index.UpdateDocument(doc); err != nil {
		return fmt.Errorf("incremental: update document: %w", err)
	}
	m.markPending(doc.ID)
	return nil
}

// RemoveDocument removes id from the index and marks it pending for save.
func (m *Manager) RemoveDocument(id string) error {
	if err := m.index.RemoveDocument(id); err != nil {
		return fmt.Errorf("incremental: remove document: %w", err)
	}
	m.markPending(id)
	return nil
}

func (m *Manager) markPending(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingChanges[id] = struct{}{}
}

// PendingCount reports how many documents have changed since the last save.
func (m *Manager) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pendingChanges)
}

// saveIndex serializes the index, writes it through the persister, bumps
// metadata, and clears pendingChanges. Re-entrant calls while a save is
// already in flight are no-ops.
func (m *Manager) saveIndex(ctx context.Context) error {
	m.mu.Lock()
	if m.isSaving {
		m.mu.Unlock()
		return nil
	}
	m.isSaving = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.isSaving = false
		m.mu.Unlock()
	}()

	serialized, err := m.index.Serialize()
	if err != nil {
		return fmt.Errorf("incremental: serialize: %w", err)
	}
	if err := m.persister.StoreIndex(ctx, m.indexName, serialized); err != nil {
		return fmt.Errorf("incremental: store index: %w", err)
	}
	if err := m.persister.UpdateMetadata(ctx, m.indexName, m.version); err != nil {
		return fmt.Errorf("incremental: update metadata: %w", err)
	}

	m.mu.Lock()
	m.pendingChanges = make(map[string]struct{})
	m.lastSaved = time.Now()
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Debug("incremental: index saved", zap.String("index", m.indexName))
	}
	return nil
}

// Save forces an immediate save regardless of pending-change thresholds.
func (m *Manager) Save(ctx context.Context) error {
	return m.saveIndex(ctx)
}

// Close stops the auto-save tick, performs a final save if there are
// pending changes, and closes the persistence layer.
func (m *Manager) Close(ctx context.Context) error {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		cancel := m.cancel
		done := m.done
		m.mu.Unlock()
		if cancel != nil {
			cancel()
			<-done
		}
	})

	if m.PendingCount() > 0 {
		if err := m.saveIndex(ctx); err != nil && m.logger != nil {
			m.logger.Warn("incremental: final save failed", zap.Error(err))
		}
	}
	return m.persister.Close()
}
