package incremental

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/corvidlabs/lexidex/internal/models"
)

type fakeIndex struct {
	mu      sync.Mutex
	added   []string
	updated []string
	removed []string
	failAdd bool
}

func (f *fakeIndex) AddDocument(doc *models.Document) error {
	if f.failAdd {
		return errors.New("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, doc.ID)
	return nil
}

func (f *fakeIndex) UpdateDocument(doc *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, doc.ID)
	return nil
}

func (f *fakeIndex) RemoveDocument(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndex) Serialize() (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...), nil
}

type fakePersister struct {
	mu         sync.Mutex
	stores     int
	metaCalls  int
	closed     bool
	failStore  bool
}

func (f *fakePersister) StoreIndex(ctx context.Context, name string, serialized interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStore {
		return errors.New("store failed")
	}
	f.stores++
	return nil
}

func (f *fakePersister) UpdateMetadata(ctx context.Context, name string, version int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaCalls++
	return nil
}

func (f *fakePersister) Close() error {
	f.closed = true
	return nil
}

func (f *fakePersister) storeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stores
}

func TestAddDocumentMarksPending(t *testing.T) {
	idx := &fakeIndex{}
	p := &fakePersister{}
	m := New(idx, p, "corpus", 1)

	if err := m.AddDocument(&models.Document{ID: "d1"}); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if m.PendingCount() != 1 {
		t.Errorf("PendingCount() = %d, want 1", m.PendingCount())
	}
}

func TestAddDocumentsStopsOnFirstError(t *testing.T) {
	idx := &fakeIndex{failAdd: true}
	p := &fakePersister{}
	m := New(idx, p, "corpus", 1)

	err := m.AddDocuments([]*models.Document{{ID: "d1"}, {ID: "d2"}})
	if err == nil {
		t.Fatal("expected error from failing index")
	}
}

func TestSaveClearsPendingChanges(t *testing.T) {
	idx := &fakeIndex{}
	p := &fakePersister{}
	m := New(idx, p, "corpus", 1)
	_ = m.AddDocument(&models.Document{ID: "d1"})

	if err := m.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount() after save = %d, want 0", m.PendingCount())
	}
	if p.storeCount() != 1 {
		t.Errorf("storeCount() = %d, want 1", p.storeCount())
	}
}

func TestAutoSaveFiresOnThreshold(t *testing.T) {
	idx := &fakeIndex{}
	p := &fakePersister{}
	m := New(idx, p, "corpus", 1, WithAutoSaveInterval(50), WithAutoSaveThreshold(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	_ = m.AddDocument(&models.Document{ID: "d1"})
	_ = m.AddDocument(&models.Document{ID: "d2"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.storeCount() > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if p.storeCount() == 0 {
		t.Fatal("expected auto-save to have fired")
	}
}

func TestCloseFlushesPendingChangesAndClosesPersister(t *testing.T) {
	idx := &fakeIndex{}
	p := &fakePersister{}
	m := New(idx, p, "corpus", 1, WithAutoSaveInterval(60_000))
	_ = m.AddDocument(&models.Document{ID: "d1"})

	if err := m.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if p.storeCount() != 1 {
		t.Errorf("storeCount() = %d, want 1 from final save", p.storeCount())
	}
	if !p.closed {
		t.Error("expected persister to be closed")
	}
}

func TestSaveErrorDoesNotPanicAndLeavesPendingIntact(t *testing.T) {
	idx := &fakeIndex{}
	p := &fakePersister{failStore: true}
	m := New(idx, p, "corpus", 1)
	_ = m.AddDocument(&models.Document{ID: "d1"})

	if err := m.Save(context.Background()); err == nil {
		t.Fatal("expected error from failing persister")
	}
	if m.PendingCount() != 1 {
		t.Errorf("PendingCount() after failed save = %d, want 1 (unchanged)", m.PendingCount())
	}
}
