package engine

import (
	"context"
	"errors"

	"github.com/corvidlabs/lexidex/internal/storage"
)

var errUnexpectedSnapshotType = errors.New("engine: snapshot is not a *storage.SerializedIndex")

// indexAdapter bridges the engine's concretely-typed index onto
// incremental.Index's interface{}-based Serialize, keeping internal/incremental
// free of a dependency on internal/storage's concrete types. AddDocument,
// UpdateDocument, and RemoveDocument are inherited unchanged from *index via
// embedding; only Serialize needs translating.
type indexAdapter struct {
	*index
	cfg storage.IndexConfig
}

func newIndexAdapter(idx *index, cfg storage.IndexConfig) *indexAdapter {
	return &indexAdapter{index: idx, cfg: cfg}
}

func (a *indexAdapter) Serialize() (interface{}, error) {
	return a.index.Serialize(a.cfg), nil
}

// persisterAdapter bridges storage.PersistenceManager onto
// incremental.Persister, translating its interface{} payload back to the
// concrete *storage.SerializedIndex type and its plain version int back to
// a storage.IndexConfig.
type persisterAdapter struct {
	store *storage.PersistenceManager
	cfg   storage.IndexConfig
}

func newPersisterAdapter(store *storage.PersistenceManager, cfg storage.IndexConfig) *persisterAdapter {
	return &persisterAdapter{store: store, cfg: cfg}
}

func (p *persisterAdapter) StoreIndex(ctx context.Context, name string, serialized interface{}) error {
	s, ok := serialized.(*storage.SerializedIndex)
	if !ok {
		return errUnexpectedSnapshotType
	}
	return p.store.StoreIndex(ctx, name, s)
}

func (p *persisterAdapter) UpdateMetadata(ctx context.Context, name string, version int) error {
	cfg := p.cfg
	cfg.Version = version
	return p.store.UpdateMetadata(ctx, name, cfg)
}

func (p *persisterAdapter) Close() error {
	return p.store.Close()
}
