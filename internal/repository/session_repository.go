// Package repository provides the session store behind the portal: a
// key-value mapping from session ID to the bearer token and cached profile.
package repository

import (
	"context"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// SessionRepository stores portal sessions. Implementations must treat an
// expired session as absent.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}
