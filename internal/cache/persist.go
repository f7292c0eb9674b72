package cache

import (
	"encoding/json"

	"github.com/corvidlabs/lexidex/internal/models"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// persistEntry best-effort writes entry to the optional backing store. A
// failure here never fails the caller's Set; it is logged and dropped, the
// same degrade-to-uncached policy the engine uses for cache errors.
func (m *Manager) persistEntry(key string, entry *models.CacheEntry) {
	if m.backing == nil {
		return
	}
	blob, err := json.Marshal(entry)
	if err != nil {
		if m.logger != nil {
			m.logger.Debug("cache entry marshal failed", zap.String("key", key), zap.Error(err))
		}
		return
	}
	if err := m.backing.Set(key, blob); err != nil && m.logger != nil {
		m.logger.Debug("cache backing set failed", zap.String("key", key), zap.Error(err))
	}
}

// BoltBacking implements Backing on top of a single bbolt bucket, giving
// the cache an optional on-disk tier that survives process restarts.
type BoltBacking struct {
	db     *bbolt.DB
	bucket []byte
}

// NewBoltBacking opens (creating if absent) bucket inside db.
func NewBoltBacking(db *bbolt.DB, bucket string) (*BoltBacking, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltBacking{db: db, bucket: []byte(bucket)}, nil
}

func (b *BoltBacking) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		raw := bucket.Get([]byte(key))
		if raw != nil {
			value = append([]byte(nil), raw...)
		}
		return nil
	})
	return value, value != nil, err
}

func (b *BoltBacking) Set(key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			var err error
			bucket, err = tx.CreateBucket(b.bucket)
			if err != nil {
				return err
			}
		}
		return bucket.Put([]byte(key), value)
	})
}

func (b *BoltBacking) Remove(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

func (b *BoltBacking) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
