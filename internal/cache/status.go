package cache

import (
	"encoding/json"

	"github.com/dustin/go-humanize"
)

// perEntryOverheadBytes approximates the bookkeeping cost of one cache
// slot (map/list node, timestamps, counters) beyond its key and payload.
const perEntryOverheadBytes = 64

// Status is a point-in-time snapshot of cache metrics, suitable for
// exposing over a diagnostics endpoint or log line.
type Status struct {
	Size                 int
	MaxSize              int
	Strategy             Strategy
	Hits                 uint64
	Misses               uint64
	Evictions            uint64
	HitRate              float64
	EstimatedMemoryBytes int64
	EstimatedMemoryHuman string
}

// Status computes the current metrics snapshot, including a best-effort
// memory footprint estimate (spec §4.6: key length * 2 + per-entry
// overhead + serialized value estimate).
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := m.hits.Load()
	misses := m.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	var memBytes int64
	for key, elem := range m.entries {
		it := elem.Value.(*item)
		memBytes += int64(len(key))*2 + perEntryOverheadBytes
		if blob, err := json.Marshal(it.entry.Results); err == nil {
			memBytes += int64(len(blob))
		}
	}

	return Status{
		Size:                 len(m.entries),
		MaxSize:              m.maxSize,
		Strategy:             m.strategy,
		Hits:                 hits,
		Misses:               misses,
		Evictions:            m.evictions.Load(),
		HitRate:              hitRate,
		EstimatedMemoryBytes: memBytes,
		EstimatedMemoryHuman: humanize.Bytes(uint64(memBytes)),
	}
}
