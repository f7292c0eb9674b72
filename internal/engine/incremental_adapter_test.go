package engine

import (
	"context"
	"testing"
	"time"

	"github.com/corvidlabs/lexidex/internal/config"
	"github.com/corvidlabs/lexidex/internal/incremental"
	"github.com/corvidlabs/lexidex/internal/storage"
)

func TestIncrementalIndexingPersistsOnThreshold(t *testing.T) {
	cfg, err := config.New("incr-corpus", config.WithFields("content"))
	if err != nil {
		t.Fatalf("config.New() error = %v", err)
	}
	adapter := storage.NewMemoryAdapter()
	e := New(cfg, adapter, WithIncrementalIndexing(
		incremental.WithAutoSaveThreshold(2),
		incremental.WithAutoSaveInterval(50),
	))
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer e.Close(context.Background())

	mustAdd(t, e, "d1", map[string]interface{}{"content": "first"})
	mustAdd(t, e, "d2", map[string]interface{}{"content": "second"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s, err := adapter.GetIndex(context.Background(), "incr-corpus"); err == nil && s != nil && len(s.Documents) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected incremental auto-save to persist both documents")
}

func TestIncrementalCloseFlushesPending(t *testing.T) {
	cfg, err := config.New("incr-close", config.WithFields("content"))
	if err != nil {
		t.Fatalf("config.New() error = %v", err)
	}
	adapter := storage.NewMemoryAdapter()
	e := New(cfg, adapter, WithIncrementalIndexing(incremental.WithAutoSaveInterval(60_000)))
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	mustAdd(t, e, "d1", map[string]interface{}{"content": "pending"})

	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	s, err := adapter.GetIndex(context.Background(), "incr-close")
	if err != nil {
		t.Fatalf("GetIndex() error = %v", err)
	}
	if s == nil || len(s.Documents) != 1 {
		t.Fatalf("GetIndex() = %+v, want one persisted document after Close", s)
	}
}
