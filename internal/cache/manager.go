// Package cache implements the bounded, TTL-based search-result cache:
// a query fingerprint maps to a cached result list, evicted by LRU or MRU
// policy once the cache is full (spec §4.6).
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corvidlabs/lexidex/internal/models"
	"go.uber.org/zap"
)

// Strategy selects which entry is dropped when the cache is full.
type Strategy int

const (
	LRU Strategy = iota
	MRU
)

const (
	defaultMaxSize = 1000
	defaultTTLMs   = 5 * 60 * 1000
)

type item struct {
	key   string
	entry *models.CacheEntry
}

// Manager is a bounded map of query fingerprint to cached SearchResult
// list, with TTL expiry and configurable eviction.
type Manager struct {
	mu       sync.RWMutex
	maxSize  int
	ttlMs    int64
	strategy Strategy

	entries map[string]*list.Element
	order   *list.List // front = most-recently-accessed

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	backing Backing
	logger  *zap.Logger
}

// Backing is the optional persistent key-value side of the cache (spec
// §4.7's optional key-value capability on a StorageAdapter).
type Backing interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Keys() ([]string, error)
}

// Option configures a Manager at construction.
type Option func(*Manager)

func WithMaxSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxSize = n
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttlMs = ttl.Milliseconds()
		}
	}
}

func WithStrategy(s Strategy) Option {
	return func(m *Manager) { m.strategy = s }
}

func WithBacking(b Backing) Option {
	return func(m *Manager) { m.backing = b }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New returns an empty Manager configured with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		maxSize:  defaultMaxSize,
		ttlMs:    defaultTTLMs,
		strategy: LRU,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func nowMs() int64 { return time.Now().UnixMilli() }

// Set inserts or replaces the cached results for key, evicting one entry
// first if the cache is already at maxSize.
func (m *Manager) Set(key string, results []*models.SearchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := nowMs()
	if elem, ok := m.entries[key]; ok {
		it := elem.Value.(*item)
		it.entry = &models.CacheEntry{Results: results, CreatedAtMs: now, LastAccessMs: now, AccessCount: 1}
		m.order.MoveToFront(elem)
		m.persistEntry(key, it.entry)
		return
	}

	if len(m.entries) >= m.maxSize {
		m.evictOne()
	}

	entry := &models.CacheEntry{Results: results, CreatedAtMs: now, LastAccessMs: now, AccessCount: 1}
	elem := m.order.PushFront(&item{key: key, entry: entry})
	m.entries[key] = elem
	m.persistEntry(key, entry)
}

// Get returns the cached results for key, or (nil, false) on miss or
// expiry. A hit refreshes recency and bumps the access counter.
func (m *Manager) Get(key string) ([]*models.SearchResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		m.misses.Add(1)
		return nil, false
	}
	it := elem.Value.(*item)
	if m.expired(it.entry) {
		m.removeElem(key, elem)
		m.misses.Add(1)
		return nil, false
	}
	it.entry.LastAccessMs = nowMs()
	it.entry.AccessCount++
	m.order.MoveToFront(elem)
	m.hits.Add(1)
	return it.entry.Results, true
}

// Has reports whether key has a live (non-expired) entry, without
// mutating access bookkeeping. An expired entry is still removed.
func (m *Manager) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return false
	}
	it := elem.Value.(*item)
	if m.expired(it.entry) {
		m.removeElem(key, elem)
		return false
	}
	return true
}

// Remove drops key unconditionally.
func (m *Manager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if elem, ok := m.entries[key]; ok {
		m.removeElem(key, elem)
	}
}

// Clear drops every entry.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*list.Element)
	m.order = list.New()
}

// Prune sweeps every expired entry.
func (m *Manager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pruned int
	for key, elem := range m.entries {
		it := elem.Value.(*item)
		if m.expired(it.entry) {
			m.removeElem(key, elem)
			pruned++
		}
	}
	return pruned
}

// SetStrategy switches the eviction policy. The access-order list itself
// needs no rebuild: front/back already carry most/least-recent, and each
// policy simply reads the opposite end.
func (m *Manager) SetStrategy(s Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategy = s
}

func (m *Manager) expired(e *models.CacheEntry) bool {
	return nowMs()-e.CreatedAtMs > m.ttlMs
}

func (m *Manager) evictOne() {
	var victim *list.Element
	switch m.strategy {
	case MRU:
		victim = m.order.Front()
	default:
		victim = m.order.Back()
	}
	if victim == nil {
		return
	}
	key := victim.Value.(*item).key
	m.order.Remove(victim)
	delete(m.entries, key)
	m.evictions.Add(1)
}

func (m *Manager) removeElem(key string, elem *list.Element) {
	m.order.Remove(elem)
	delete(m.entries, key)
	if m.backing != nil {
		if err := m.backing.Remove(key); err != nil && m.logger != nil {
			m.logger.Debug("cache backing remove failed", zap.String("key", key), zap.Error(err))
		}
	}
}
