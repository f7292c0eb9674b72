package storage

import (
	"context"
	"testing"

	"github.com/corvidlabs/lexidex/internal/models"
)

func TestMemoryAdapterStoreAndGetIndex(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter()
	if err := a.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	serialized := &SerializedIndex{
		Version:   1,
		Documents: []DocumentEntry{{Key: "d1", Value: &models.Document{ID: "d1"}}},
		Config:    IndexConfig{Name: "n", Version: 1, Fields: []string{"content"}},
	}
	if err := a.StoreIndex(ctx, "n", serialized); err != nil {
		t.Fatalf("StoreIndex() error = %v", err)
	}

	got, err := a.GetIndex(ctx, "n")
	if err != nil {
		t.Fatalf("GetIndex() error = %v", err)
	}
	if got == nil || len(got.Documents) != 1 || got.Documents[0].Key != "d1" {
		t.Errorf("GetIndex() = %+v", got)
	}

	has, err := a.HasIndex(ctx, "n")
	if err != nil || !has {
		t.Errorf("HasIndex() = %v, %v, want true, nil", has, err)
	}

	missing, err := a.GetIndex(ctx, "absent")
	if err != nil || missing != nil {
		t.Errorf("GetIndex(absent) = %v, %v, want nil, nil", missing, err)
	}
}

func TestMemoryAdapterRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter()
	_ = a.StoreIndex(ctx, "n1", &SerializedIndex{Version: 1})
	_ = a.StoreIndex(ctx, "n2", &SerializedIndex{Version: 1})

	if err := a.RemoveIndex(ctx, "n1"); err != nil {
		t.Fatalf("RemoveIndex() error = %v", err)
	}
	if has, _ := a.HasIndex(ctx, "n1"); has {
		t.Error("expected n1 removed")
	}

	list, err := a.ListIndices(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("ListIndices() = %+v, %v, want 1 entry", list, err)
	}

	if err := a.ClearIndices(ctx); err != nil {
		t.Fatalf("ClearIndices() error = %v", err)
	}
	list, _ = a.ListIndices(ctx)
	if len(list) != 0 {
		t.Errorf("expected empty after ClearIndices, got %+v", list)
	}
}

func TestMemoryAdapterKeyValueCapability(t *testing.T) {
	a := NewMemoryAdapter()
	var _ KeyValue = a

	if err := a.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := a.Get("k")
	if err != nil || !ok || string(v) != "v" {
		t.Errorf("Get() = %q, %v, %v, want v, true, nil", v, ok, err)
	}
	if err := a.Remove("k"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := a.Get("k"); ok {
		t.Error("expected k removed")
	}
}

func TestPersistenceManagerAutoFallback(t *testing.T) {
	ctx := context.Background()
	p := NewPersistenceManager(&failingAdapter{}, WithAutoFallback(true))
	if err := p.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() with fallback enabled error = %v", err)
	}
	if !p.FellBack() {
		t.Error("expected FellBack() to report true")
	}
	if err := p.StoreIndex(ctx, "n", &SerializedIndex{Version: 1}); err != nil {
		t.Fatalf("StoreIndex() after fallback error = %v", err)
	}
}

func TestPersistenceManagerSurfacesErrorWithoutFallback(t *testing.T) {
	ctx := context.Background()
	p := NewPersistenceManager(&failingAdapter{})
	if err := p.Initialize(ctx); err == nil {
		t.Fatal("expected Initialize() to surface the adapter error")
	}
}

func TestPersistenceManagerBlobCacheAvoidsRepeatedReads(t *testing.T) {
	ctx := context.Background()
	counting := &countingAdapter{MemoryAdapter: NewMemoryAdapter()}
	p := NewPersistenceManager(counting)
	_ = p.Initialize(ctx)
	_ = p.StoreIndex(ctx, "n", &SerializedIndex{Version: 1})

	if _, err := p.GetIndex(ctx, "n"); err != nil {
		t.Fatalf("GetIndex() error = %v", err)
	}
	if _, err := p.GetIndex(ctx, "n"); err != nil {
		t.Fatalf("GetIndex() error = %v", err)
	}
	if counting.getCalls != 0 {
		t.Errorf("expected blob cache to avoid adapter reads, got %d adapter GetIndex calls", counting.getCalls)
	}
}

type failingAdapter struct{}

func (f *failingAdapter) Initialize(ctx context.Context) error { return errAlways }
func (f *failingAdapter) StoreIndex(ctx context.Context, name string, s *SerializedIndex) error {
	return errAlways
}
func (f *failingAdapter) GetIndex(ctx context.Context, name string) (*SerializedIndex, error) {
	return nil, errAlways
}
func (f *failingAdapter) UpdateMetadata(ctx context.Context, name string, cfg IndexConfig) error {
	return errAlways
}
func (f *failingAdapter) GetMetadata(ctx context.Context, name string) (*IndexConfig, error) {
	return nil, errAlways
}
func (f *failingAdapter) RemoveIndex(ctx context.Context, name string) error { return errAlways }
func (f *failingAdapter) ClearIndices(ctx context.Context) error             { return errAlways }
func (f *failingAdapter) HasIndex(ctx context.Context, name string) (bool, error) {
	return false, errAlways
}
func (f *failingAdapter) ListIndices(ctx context.Context) ([]IndexMetadata, error) {
	return nil, errAlways
}
func (f *failingAdapter) Close() error { return nil }

var errAlways = &staticError{"adapter unavailable"}

type staticError struct{ msg string }

func (e *staticError) Error() string { return e.msg }

type countingAdapter struct {
	*MemoryAdapter
	getCalls int
}

func (c *countingAdapter) GetIndex(ctx context.Context, name string) (*SerializedIndex, error) {
	c.getCalls++
	return c.MemoryAdapter.GetIndex(ctx, name)
}
