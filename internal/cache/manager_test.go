package cache

import (
	"testing"
	"time"

	"github.com/corvidlabs/lexidex/internal/models"
)

func TestManagerSetGetRoundTrip(t *testing.T) {
	m := New(WithMaxSize(10))
	results := []*models.SearchResult{{DocumentID: "d1", Score: 1.0}}
	m.Set("q1", results)

	got, ok := m.Get("q1")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 1 || got[0].DocumentID != "d1" {
		t.Errorf("Get returned %+v", got)
	}
}

func TestManagerMissAndExpiry(t *testing.T) {
	m := New(WithMaxSize(10), WithTTL(time.Millisecond))
	m.Set("q1", []*models.SearchResult{{DocumentID: "d1"}})
	time.Sleep(5 * time.Millisecond)

	if _, ok := m.Get("q1"); ok {
		t.Error("expected expired entry to miss")
	}
	if _, ok := m.entries["q1"]; ok {
		t.Error("expired entry should have been removed")
	}
}

// TestManagerLRUEviction mirrors the spec's concrete cache scenario:
// maxSize=2, issue q1, q2, q3 in order; q1 is evicted, q2 survives a
// touch, and a subsequent insert evicts q3 rather than q2.
func TestManagerLRUEviction(t *testing.T) {
	m := New(WithMaxSize(2), WithTTL(time.Minute), WithStrategy(LRU))

	m.Set("q1", []*models.SearchResult{{DocumentID: "d1"}})
	m.Set("q2", []*models.SearchResult{{DocumentID: "d2"}})
	m.Set("q3", []*models.SearchResult{{DocumentID: "d3"}})

	if _, ok := m.Get("q1"); ok {
		t.Error("expected q1 to be evicted when q3 was inserted")
	}
	if _, ok := m.Get("q2"); !ok {
		t.Error("expected q2 to still be cached")
	}

	m.Set("q4", []*models.SearchResult{{DocumentID: "d4"}})

	if _, ok := m.Get("q3"); ok {
		t.Error("expected q3 to be evicted, not q2")
	}
	if _, ok := m.Get("q2"); !ok {
		t.Error("expected q2 to survive because it was touched most recently")
	}
}

func TestManagerHasDoesNotBumpAccessCount(t *testing.T) {
	m := New(WithMaxSize(10))
	m.Set("q1", []*models.SearchResult{{DocumentID: "d1"}})

	if !m.Has("q1") {
		t.Fatal("expected Has to report true")
	}
	elem := m.entries["q1"]
	before := elem.Value.(*item).entry.AccessCount
	if !m.Has("q1") {
		t.Fatal("expected Has to report true again")
	}
	after := elem.Value.(*item).entry.AccessCount
	if before != after {
		t.Errorf("Has mutated AccessCount: before=%d after=%d", before, after)
	}
}

func TestManagerSizeNeverExceedsMaxSize(t *testing.T) {
	m := New(WithMaxSize(3))
	for i := 0; i < 50; i++ {
		m.Set(string(rune('a'+i%26)), []*models.SearchResult{{DocumentID: "d"}})
		if m.Status().Size > 3 {
			t.Fatalf("cache size %d exceeds maxSize 3", m.Status().Size)
		}
	}
}

func TestManagerClearAndPrune(t *testing.T) {
	m := New(WithMaxSize(10), WithTTL(time.Millisecond))
	m.Set("q1", nil)
	m.Set("q2", nil)
	time.Sleep(5 * time.Millisecond)

	if pruned := m.Prune(); pruned != 2 {
		t.Errorf("Prune() = %d, want 2", pruned)
	}
	if m.Status().Size != 0 {
		t.Errorf("expected empty cache after prune, size = %d", m.Status().Size)
	}

	m.Set("q3", nil)
	m.Clear()
	if m.Status().Size != 0 {
		t.Errorf("expected empty cache after Clear, size = %d", m.Status().Size)
	}
}

func TestManagerHitRate(t *testing.T) {
	m := New(WithMaxSize(10))
	m.Set("q1", []*models.SearchResult{{DocumentID: "d1"}})
	m.Get("q1")
	m.Get("missing")

	status := m.Status()
	if status.Hits != 1 || status.Misses != 1 {
		t.Errorf("status = %+v, want 1 hit and 1 miss", status)
	}
	if status.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", status.HitRate)
	}
}
