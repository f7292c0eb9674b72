package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter persists serialized indices, metadata, and optional
// key-value entries in Redis, namespaced under name-derived keys so one
// Redis instance can back several named corpora.
type RedisAdapter struct {
	client    *redis.Client
	namespace string
}

// NewRedisAdapter wraps an already-constructed client. namespace prefixes
// every key RedisAdapter writes, so multiple adapters can share one Redis
// without colliding.
func NewRedisAdapter(client *redis.Client, namespace string) *RedisAdapter {
	return &RedisAdapter{client: client, namespace: namespace}
}

func (r *RedisAdapter) indexKey(name string) string { return fmt.Sprintf("%s:index:%s", r.namespace, name) }
func (r *RedisAdapter) metaKey(name string) string  { return fmt.Sprintf("%s:meta:%s", r.namespace, name) }
func (r *RedisAdapter) kvKey(key string) string      { return fmt.Sprintf("%s:kv:%s", r.namespace, key) }
func (r *RedisAdapter) indexSetKey() string          { return r.namespace + ":index:names" }

func (r *RedisAdapter) Initialize(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisAdapter) StoreIndex(ctx context.Context, name string, serialized *SerializedIndex) error {
	blob, err := json.Marshal(serialized)
	if err != nil {
		return fmt.Errorf("storage: marshal index %q: %w", name, err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.indexKey(name), blob, 0)
	pipe.SAdd(ctx, r.indexSetKey(), name)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisAdapter) GetIndex(ctx context.Context, name string) (*SerializedIndex, error) {
	blob, err := r.client.Get(ctx, r.indexKey(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out SerializedIndex
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("storage: unmarshal index %q: %w", name, err)
	}
	return &out, nil
}

func (r *RedisAdapter) UpdateMetadata(ctx context.Context, name string, cfg IndexConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("storage: marshal metadata %q: %w", name, err)
	}
	return r.client.Set(ctx, r.metaKey(name), blob, 0).Err()
}

func (r *RedisAdapter) GetMetadata(ctx context.Context, name string) (*IndexConfig, error) {
	blob, err := r.client.Get(ctx, r.metaKey(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg IndexConfig
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return nil, fmt.Errorf("storage: unmarshal metadata %q: %w", name, err)
	}
	return &cfg, nil
}

func (r *RedisAdapter) RemoveIndex(ctx context.Context, name string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.indexKey(name), r.metaKey(name))
	pipe.SRem(ctx, r.indexSetKey(), name)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisAdapter) ClearIndices(ctx context.Context) error {
	names, err := r.client.SMembers(ctx, r.indexSetKey()).Result()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := r.RemoveIndex(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisAdapter) HasIndex(ctx context.Context, name string) (bool, error) {
	n, err := r.client.Exists(ctx, r.indexKey(name)).Result()
	return n > 0, err
}

func (r *RedisAdapter) ListIndices(ctx context.Context) ([]IndexMetadata, error) {
	names, err := r.client.SMembers(ctx, r.indexSetKey()).Result()
	if err != nil {
		return nil, err
	}
	out := make([]IndexMetadata, 0, len(names))
	for _, name := range names {
		meta := IndexMetadata{Name: name}
		if cfg, err := r.GetMetadata(ctx, name); err == nil && cfg != nil {
			meta.Config = *cfg
		}
		out = append(out, meta)
	}
	return out, nil
}

func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

// Get, Set, Remove, and Keys give RedisAdapter the optional KeyValue
// capability. They use a background context with a short timeout since
// the cache package's Backing interface is synchronous.
func (r *RedisAdapter) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := r.client.Get(ctx, r.kvKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *RedisAdapter) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Set(ctx, r.kvKey(key), value, 0).Err()
}

func (r *RedisAdapter) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.client.Del(ctx, r.kvKey(key)).Err()
}

func (r *RedisAdapter) Keys() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	keys, err := r.client.Keys(ctx, r.kvKey("*")).Result()
	if err != nil {
		return nil, err
	}
	prefix := r.kvKey("")
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k[len(prefix):]
	}
	return out, nil
}
