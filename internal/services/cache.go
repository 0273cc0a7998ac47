package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// CacheKind names the resource a cache entry holds.
type CacheKind string

const (
	// KindDashboard caches assembled dashboard data.
	KindDashboard CacheKind = "dashboard"
	// KindPeriods caches the academic period list.
	KindPeriods CacheKind = "periods"
	// KindReport caches computed report rows.
	KindReport CacheKind = "report"
)

// CacheKey is the structured cache key: resource kind, owning session, and
// academic period. It replaces string-concatenated session keys so that
// invalidation on logout can address everything a session cached.
type CacheKey struct {
	Kind      CacheKind
	SessionID string
	Period    domain.AcademicPeriod
}

// String renders the key for the backing store.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.Kind, k.SessionID, k.Period.Year, k.Period.Term)
}

// sessionPattern matches every entry owned by a session, across kinds.
func sessionPattern(sessionID string) string {
	return fmt.Sprintf("*:%s:*", sessionID)
}

// CacheBackend is the storage interface behind the cache manager.
type CacheBackend interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	Flush(ctx context.Context) error
}

// CacheManager caches per-session upstream-derived values for the lifetime
// of a session. Cache failures are never fatal: a failed write is logged
// and dropped, a failed read is a miss.
type CacheManager interface {
	Put(ctx context.Context, key CacheKey, value interface{}) error
	Fetch(ctx context.Context, key CacheKey, dest interface{}) error
	InvalidateSession(ctx context.Context, sessionID string) error
	Flush(ctx context.Context) error
}

type cacheManager struct {
	backend CacheBackend
	ttl     time.Duration
	logger  *slog.Logger
}

// NewCacheManager creates a cache manager with a single TTL for every
// entry; entries only need to survive within one session anyway.
func NewCacheManager(backend CacheBackend, ttl time.Duration, logger *slog.Logger) CacheManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &cacheManager{backend: backend, ttl: ttl, logger: logger}
}

func (cm *cacheManager) Put(ctx context.Context, key CacheKey, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return domain.NewInternalError("CACHE_MARSHAL_ERROR", "failed to marshal value for caching", err)
	}
	if err := cm.backend.Set(ctx, key.String(), data, cm.ttl); err != nil {
		cm.logger.Warn("cache write failed",
			"key", key.String(),
			"error", err.Error(),
		)
	}
	return nil
}

func (cm *cacheManager) Fetch(ctx context.Context, key CacheKey, dest interface{}) error {
	data, err := cm.backend.Get(ctx, key.String())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves like a miss after eviction.
		_ = cm.backend.Delete(ctx, key.String())
		return domain.NewNotFoundError("CACHE_MISS", "cached entry was not decodable")
	}
	return nil
}

func (cm *cacheManager) InvalidateSession(ctx context.Context, sessionID string) error {
	return cm.backend.DeletePattern(ctx, sessionPattern(sessionID))
}

func (cm *cacheManager) Flush(ctx context.Context) error {
	return cm.backend.Flush(ctx)
}
