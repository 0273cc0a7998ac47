package services

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// RedisCacheBackend implements CacheBackend on a redis database.
type RedisCacheBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisCacheBackend creates a redis cache backend. All keys are stored
// under the given prefix so Flush cannot touch foreign keys.
func NewRedisCacheBackend(client *redis.Client, prefix string) *RedisCacheBackend {
	return &RedisCacheBackend{client: client, prefix: prefix}
}

// Set stores a value with TTL.
func (r *RedisCacheBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Get retrieves a value; a missing key is a NOT_FOUND cache miss.
func (r *RedisCacheBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, domain.NewNotFoundError("CACHE_MISS", "cache miss")
	}
	if err != nil {
		return nil, domain.NewInternalError("CACHE_BACKEND_ERROR", "redis get failed", err)
	}
	return data, nil
}

// Delete removes a key.
func (r *RedisCacheBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// DeletePattern removes every key matching a glob pattern.
func (r *RedisCacheBackend) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, r.prefix+pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return domain.NewInternalError("CACHE_BACKEND_ERROR", "redis scan failed", err)
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

// Flush removes every key under the backend's prefix.
func (r *RedisCacheBackend) Flush(ctx context.Context) error {
	return r.DeletePattern(ctx, "*")
}

// MemoryCacheBackend implements CacheBackend in process memory. It serves
// single-instance deployments and tests.
type MemoryCacheBackend struct {
	mu   sync.RWMutex
	data map[string]memoryCacheItem
}

type memoryCacheItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCacheBackend creates an in-memory cache backend.
func NewMemoryCacheBackend() *MemoryCacheBackend {
	return &MemoryCacheBackend{data: make(map[string]memoryCacheItem)}
}

// Set stores a value with TTL.
func (m *MemoryCacheBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryCacheItem{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get retrieves a value; expired entries are evicted lazily.
func (m *MemoryCacheBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.data[key]
	if !ok {
		return nil, domain.NewNotFoundError("CACHE_MISS", "cache miss")
	}
	if time.Now().After(item.expiresAt) {
		delete(m.data, key)
		return nil, domain.NewNotFoundError("CACHE_MISS", "cache entry expired")
	}
	return item.value, nil
}

// Delete removes a key.
func (m *MemoryCacheBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// DeletePattern removes keys matching a glob pattern.
func (m *MemoryCacheBackend) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
		}
	}
	return nil
}

// Flush removes every entry.
func (m *MemoryCacheBackend) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]memoryCacheItem)
	return nil
}
