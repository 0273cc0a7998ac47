package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ifportal/portal-estudante/internal/domain"
)

const sessionKeyPrefix = "session:"

// redisSessionRepository provides a redis-backed SessionRepository so
// sessions survive restarts and can be shared between instances. Expiry is
// delegated to redis key TTLs.
type redisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a redis-backed session repository.
func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client}
}

// Create stores a session with a TTL matching its expiry.
func (r *redisSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("SESSION_MARSHAL_ERROR", "failed to marshal session", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domain.NewValidationError("INVALID_SESSION", "session is already expired", nil)
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return domain.NewInternalError("SESSION_STORE_ERROR", "failed to store session", err)
	}
	return nil
}

// GetByID retrieves a session by ID. Redis TTL eviction covers expiry, but
// the expiry field is still checked in case of clock drift.
func (r *redisSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, domain.NewAuthenticationError(domain.CodeSessionInvalid, "session not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("SESSION_STORE_ERROR", "failed to load session", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, domain.NewInternalError("SESSION_UNMARSHAL_ERROR", "failed to decode session", err)
	}
	if session.IsExpired() {
		_ = r.client.Del(ctx, sessionKeyPrefix+id).Err()
		return nil, domain.NewAuthenticationError(domain.CodeSessionInvalid, "session expired")
	}
	return &session, nil
}

// DeleteByID removes a session by ID.
func (r *redisSessionRepository) DeleteByID(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// DeleteExpired is a no-op: redis evicts expired sessions by key TTL.
func (r *redisSessionRepository) DeleteExpired(_ context.Context) error {
	return nil
}
