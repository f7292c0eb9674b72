package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewAppliesDefaults(t *testing.T) {
	cfg, err := New("corpus")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if len(cfg.Fields) != 1 || cfg.Fields[0] != "content" {
		t.Errorf("Fields = %v, want [content]", cfg.Fields)
	}
	if cfg.Storage.Type != StorageMemory {
		t.Errorf("Storage.Type = %q, want memory", cfg.Storage.Type)
	}
	if cfg.Search.DefaultOptions.MaxResults != 10 {
		t.Errorf("DefaultOptions.MaxResults = %d, want 10", cfg.Search.DefaultOptions.MaxResults)
	}
}

func TestNewRejectsEmptyName(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestWithOptionsOverrideDefaults(t *testing.T) {
	cfg, err := New("corpus",
		WithVersion(3),
		WithFields("title", "body"),
		WithStorage(StorageSQLite, map[string]string{"path": "./db.sqlite"}),
		WithVersioning(5),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Version != 3 {
		t.Errorf("Version = %d, want 3", cfg.Version)
	}
	if len(cfg.Fields) != 2 {
		t.Errorf("Fields = %v, want 2 entries", cfg.Fields)
	}
	if cfg.Storage.Type != StorageSQLite {
		t.Errorf("Storage.Type = %q, want sqlite", cfg.Storage.Type)
	}
	if !cfg.DocumentSupport.Versioning.Enabled || cfg.DocumentSupport.Versioning.MaxVersions != 5 {
		t.Errorf("Versioning = %+v, want enabled with 5 versions", cfg.DocumentSupport.Versioning)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg, err := New("corpus", WithFields("content"), WithStorage(StorageSQLite, map[string]string{"path": "./index.db"}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Name != "corpus" {
		t.Errorf("Name = %q, want corpus", loaded.Name)
	}
	if loaded.Storage.Options["path"] == "./index.db" {
		t.Error("expected relative storage path to be expanded")
	}
}

func TestLoadRejectsMissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nfields: [content]\n"), 0600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for config missing name")
	}
}
