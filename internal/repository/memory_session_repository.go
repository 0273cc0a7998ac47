package repository

import (
	"context"
	"sync"
	"time"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// memorySessionRepository provides an in-memory SessionRepository for
// single-instance deployments and tests.
type memorySessionRepository struct {
	sessions map[string]*domain.Session
	mutex    sync.RWMutex
}

// NewMemorySessionRepository creates a new in-memory session repository.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

// Create stores a new session, replacing any previous one under the same ID.
func (r *memorySessionRepository) Create(_ context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sessions[session.ID] = session
	return nil
}

// GetByID retrieves a session by ID. Expired sessions are evicted and
// reported as invalid.
func (r *memorySessionRepository) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.mutex.RLock()
	session, exists := r.sessions[id]
	r.mutex.RUnlock()

	if !exists {
		return nil, domain.NewAuthenticationError(domain.CodeSessionInvalid, "session not found")
	}
	if session.IsExpired() {
		r.mutex.Lock()
		delete(r.sessions, id)
		r.mutex.Unlock()
		return nil, domain.NewAuthenticationError(domain.CodeSessionInvalid, "session expired")
	}
	return session, nil
}

// DeleteByID removes a session by ID.
func (r *memorySessionRepository) DeleteByID(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.sessions, id)
	return nil
}

// DeleteExpired removes every expired session.
func (r *memorySessionRepository) DeleteExpired(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
		}
	}
	return nil
}
