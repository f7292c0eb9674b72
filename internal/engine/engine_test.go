package engine

import (
	"context"
	"testing"

	"github.com/corvidlabs/lexidex/internal/config"
	"github.com/corvidlabs/lexidex/internal/models"
	"github.com/corvidlabs/lexidex/internal/storage"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg, err := config.New("test-corpus", config.WithFields("title", "content"))
	if err != nil {
		t.Fatalf("config.New() error = %v", err)
	}
	e := New(cfg, storage.NewMemoryAdapter())
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return e
}

func mustAdd(t *testing.T, e *Engine, id string, fields map[string]interface{}) {
	t.Helper()
	if err := e.AddDocument(context.Background(), &models.Document{ID: id, Fields: fields}); err != nil {
		t.Fatalf("AddDocument(%s) error = %v", id, err)
	}
}

func containsID(results []*models.SearchResult, id string) bool {
	for _, r := range results {
		if r.DocumentID == id {
			return true
		}
	}
	return false
}

// Scenario 1: exact and fuzzy search across three documents.
func TestScenarioExactAndFuzzySearch(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "d1", map[string]interface{}{"title": "JavaScript Programming", "content": "JavaScript Programming"})
	mustAdd(t, e, "d2", map[string]interface{}{"title": "Python Basics", "content": "Python Basics"})
	mustAdd(t, e, "d3", map[string]interface{}{"title": "Introduction to Python", "content": "Introduction to Python"})

	resp, err := e.Search(context.Background(), "javascript", models.SearchOptions{})
	if err != nil {
		t.Fatalf("Search(javascript) error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].DocumentID != "d1" {
		t.Fatalf("Search(javascript) = %+v, want [d1]", resp.Results)
	}

	resp, err = e.Search(context.Background(), "python", models.SearchOptions{})
	if err != nil {
		t.Fatalf("Search(python) error = %v", err)
	}
	if len(resp.Results) != 2 || !containsID(resp.Results, "d2") || !containsID(resp.Results, "d3") {
		t.Fatalf("Search(python) = %+v, want [d2, d3]", resp.Results)
	}

	resp, err = e.Search(context.Background(), "programing", models.SearchOptions{Fuzzy: true, MaxDistance: 1})
	if err != nil {
		t.Fatalf("Search(programing, fuzzy) error = %v", err)
	}
	if !containsID(resp.Results, "d1") {
		t.Fatalf("Search(programing, fuzzy) = %+v, want to include d1", resp.Results)
	}
}

// Scenario 2: matched terms and case sensitivity.
func TestScenarioMatchedTermsAndCaseSensitivity(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "d4", map[string]interface{}{"content": "Hello, world!"})

	resp, err := e.Search(context.Background(), "hello", models.SearchOptions{IncludeMatches: true})
	if err != nil {
		t.Fatalf("Search(hello) error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].DocumentID != "d4" {
		t.Fatalf("Search(hello) = %+v, want [d4]", resp.Results)
	}
	if len(resp.Results[0].MatchedTerms) != 1 || resp.Results[0].MatchedTerms[0] != "hello" {
		t.Fatalf("MatchedTerms = %v, want [hello]", resp.Results[0].MatchedTerms)
	}

	resp, err = e.Search(context.Background(), "world", models.SearchOptions{})
	if err != nil {
		t.Fatalf("Search(world) error = %v", err)
	}
	if !containsID(resp.Results, "d4") {
		t.Fatalf("Search(world) = %+v, want to include d4", resp.Results)
	}

	resp, err = e.Search(context.Background(), "HELLO", models.SearchOptions{CaseSensitive: true})
	if err != nil {
		t.Fatalf("Search(HELLO, caseSensitive) error = %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("Search(HELLO, caseSensitive) = %+v, want empty (corpus is lowercase-indexed)", resp.Results)
	}
}

// Scenario 3: a stop-word-only query returns nothing and never populates the cache.
func TestScenarioStopWordOnlyQuery(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "d1", map[string]interface{}{"content": "the quick fox"})

	resp, err := e.Search(context.Background(), "the a an", models.SearchOptions{})
	if err != nil {
		t.Fatalf("Search(the a an) error = %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("Search(the a an) = %+v, want empty", resp.Results)
	}
	if e.cache.Has(fingerprint(e.cfg.Name, "the a an", models.SearchOptions{}.Merge(e.cfg.Search.DefaultOptions))) {
		t.Fatal("stop-word-only query must not populate the cache")
	}
}

// Scenario 4: prefix suggestions are capped at maxResults.
func TestScenarioPrefixSuggestions(t *testing.T) {
	e := newTestEngine(t)
	for _, w := range []string{"apple", "application", "appreciate"} {
		for i := 0; i < 3; i++ {
			mustAdd(t, e, w+string(rune('0'+i)), map[string]interface{}{"content": w})
		}
	}

	suggestions := e.idx.trie.GetSuggestions("app", 2)
	if len(suggestions) != 2 {
		t.Fatalf("GetSuggestions(app, 2) = %v, want 2 results", suggestions)
	}
}

// Scenario 6: persistence round-trip across a reopened engine.
func TestScenarioPersistenceRoundTrip(t *testing.T) {
	adapter := storage.NewMemoryAdapter()
	cfg, err := config.New("roundtrip", config.WithFields("content"))
	if err != nil {
		t.Fatalf("config.New() error = %v", err)
	}

	e1 := New(cfg, adapter)
	if err := e1.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	for i := 0; i < 100; i++ {
		mustAdd(t, e1, docID(i), map[string]interface{}{"content": "document number " + docID(i)})
	}
	before, err := e1.Search(context.Background(), "document", models.SearchOptions{MaxResults: 100})
	if err != nil {
		t.Fatalf("Search() before close error = %v", err)
	}
	if err := e1.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	e2 := New(cfg, adapter)
	if err := e2.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() after reopen error = %v", err)
	}
	after, err := e2.Search(context.Background(), "document", models.SearchOptions{MaxResults: 100})
	if err != nil {
		t.Fatalf("Search() after reopen error = %v", err)
	}

	if before.Total != after.Total {
		t.Fatalf("Total before=%d after=%d, want equal", before.Total, after.Total)
	}
	scoreBefore := make(map[string]float64, len(before.Results))
	for _, r := range before.Results {
		scoreBefore[r.DocumentID] = r.Score
	}
	for _, r := range after.Results {
		want, ok := scoreBefore[r.DocumentID]
		if !ok {
			t.Fatalf("document %s present after reopen but not before", r.DocumentID)
		}
		if diff := want - r.Score; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("score for %s changed across reopen: before=%v after=%v", r.DocumentID, want, r.Score)
		}
	}
}

func docID(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "d0" + string(digits[i])
	}
	return "d" + string(digits[i/10]) + string(digits[i%10])
}

// Boundary: empty query returns empty without error.
func TestEmptyQueryReturnsEmpty(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "d1", map[string]interface{}{"content": "anything"})

	resp, err := e.Search(context.Background(), "   ", models.SearchOptions{})
	if err != nil {
		t.Fatalf("Search(empty) error = %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("Search(empty) = %+v, want empty", resp.Results)
	}
}

func TestRemoveDocumentThenSearchExcludesIt(t *testing.T) {
	e := newTestEngine(t)
	mustAdd(t, e, "d1", map[string]interface{}{"content": "removable term"})

	if err := e.RemoveDocument(context.Background(), "d1"); err != nil {
		t.Fatalf("RemoveDocument() error = %v", err)
	}
	resp, err := e.Search(context.Background(), "removable", models.SearchOptions{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("Search() after remove = %+v, want empty", resp.Results)
	}
}

func TestRemoveUnknownDocumentErrors(t *testing.T) {
	e := newTestEngine(t)
	if err := e.RemoveDocument(context.Background(), "missing"); err == nil {
		t.Fatal("expected error removing an unknown document")
	}
}

func TestUpdateDocumentTracksVersionHistory(t *testing.T) {
	cfg, err := config.New("versioned", config.WithFields("content"), config.WithVersioning(5))
	if err != nil {
		t.Fatalf("config.New() error = %v", err)
	}
	e := New(cfg, storage.NewMemoryAdapter())
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	mustAdd(t, e, "d1", map[string]interface{}{"content": "version one"})

	if err := e.UpdateDocument(context.Background(), &models.Document{ID: "d1", Fields: map[string]interface{}{"content": "version two"}}); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	doc, ok := e.idx.Get("d1")
	if !ok {
		t.Fatal("document d1 missing after update")
	}
	if len(doc.Versions) != 1 {
		t.Fatalf("Versions = %v, want 1 entry", doc.Versions)
	}
	if doc.Versions[0].Content != "version one" {
		t.Fatalf("Versions[0].Content = %q, want %q", doc.Versions[0].Content, "version one")
	}
}
