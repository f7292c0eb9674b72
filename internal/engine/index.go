package engine

import (
	"sync"

	"github.com/corvidlabs/lexidex/internal/models"
	"github.com/corvidlabs/lexidex/internal/storage"
	"github.com/corvidlabs/lexidex/internal/tokenizer"
	"github.com/corvidlabs/lexidex/internal/trie"
)

// index is the aggregate from spec §3: one trie root, one document table,
// one total-document counter kept in lockstep with the table's size.
type index struct {
	mu             sync.RWMutex
	trie           *trie.Trie
	documents      map[string]*models.Document
	fields         []string
	totalDocuments int
}

func newIndex(fields []string) *index {
	return &index{
		trie:      trie.New(),
		documents: make(map[string]*models.Document),
		fields:    fields,
	}
}

// insertTerms tokenizes every configured field of doc and inserts each term
// into the trie under doc.ID.
func (ix *index) insertTerms(doc *models.Document) {
	for _, field := range ix.fields {
		text := doc.FieldString(field)
		if text == "" {
			continue
		}
		for _, term := range tokenizer.Tokenize(text, false) {
			_ = ix.trie.Insert(term, doc.ID)
		}
	}
}

// AddDocument inserts doc into the document table and indexes its fields.
// Satisfies incremental.Index.
func (ix *index) AddDocument(doc *models.Document) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, exists := ix.documents[doc.ID]; !exists {
		ix.totalDocuments++
	}
	ix.documents[doc.ID] = doc
	ix.insertTerms(doc)
	return nil
}

// UpdateDocument replaces doc in the table, removing the previous term
// references before reindexing the new content.
func (ix *index) UpdateDocument(doc *models.Document) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, exists := ix.documents[doc.ID]; !exists {
		ix.totalDocuments++
	}
	ix.trie.RemoveDocumentRefs(doc.ID)
	ix.documents[doc.ID] = doc
	ix.insertTerms(doc)
	return nil
}

// RemoveDocument drops id from the table and the trie. Returns
// models.NotFoundError if id is absent.
func (ix *index) RemoveDocument(id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.documents[id]; !ok {
		return &models.NotFoundError{ID: id}
	}
	delete(ix.documents, id)
	ix.totalDocuments--
	ix.trie.RemoveDocumentRefs(id)
	return nil
}

// Get returns the document for id, or (nil, false) if absent.
func (ix *index) Get(id string) (*models.Document, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	doc, ok := ix.documents[id]
	return doc, ok
}

// Clear empties the table and the trie.
func (ix *index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.trie = trie.New()
	ix.documents = make(map[string]*models.Document)
	ix.totalDocuments = 0
}

// Len returns the number of indexed documents.
func (ix *index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.totalDocuments
}

// Serialize produces the spec §3/§4.7 SerializedIndex snapshot. The
// incremental manager reaches it through indexAdapter, which wraps the
// result as interface{} to keep that package leaf-level.
func (ix *index) Serialize(cfg storage.IndexConfig) *storage.SerializedIndex {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	entries := make([]storage.DocumentEntry, 0, len(ix.documents))
	for id, doc := range ix.documents {
		entries = append(entries, storage.DocumentEntry{Key: id, Value: doc})
	}
	return &storage.SerializedIndex{
		Version:    cfg.Version,
		Documents:  entries,
		IndexState: ix.trie.Serialize(),
		Config:     cfg,
	}
}

// LoadSerialized replaces ix's contents with a previously serialized index.
func (ix *index) LoadSerialized(s *storage.SerializedIndex) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	t := trie.New()
	if s.IndexState != nil {
		if err := t.Deserialize(s.IndexState); err != nil {
			return err
		}
	}
	ix.trie = t
	ix.documents = make(map[string]*models.Document, len(s.Documents))
	for _, entry := range s.Documents {
		ix.documents[entry.Key] = entry.Value
	}
	ix.totalDocuments = len(ix.documents)
	return nil
}
