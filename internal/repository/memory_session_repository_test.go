package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/repository"
	"github.com/ifportal/portal-estudante/internal/testutil"
)

func TestMemorySessionRepository_CreateAndGet(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx := context.Background()
	session := testutil.MockSession("sid-1", "token")

	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByID(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestMemorySessionRepository_CreateRejectsInvalid(t *testing.T) {
	repo := repository.NewMemorySessionRepository()

	err := repo.Create(context.Background(), &domain.Session{ID: "sid-1"})
	require.Error(t, err)
}

func TestMemorySessionRepository_GetUnknownID(t *testing.T) {
	repo := repository.NewMemorySessionRepository()

	_, err := repo.GetByID(context.Background(), "absent")
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.AuthenticationError, de.Type)
	assert.Equal(t, domain.CodeSessionInvalid, de.Code)
}

func TestMemorySessionRepository_ExpiredSessionEvictedOnRead(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx := context.Background()

	session := testutil.MockSession("sid-1", "token")
	require.NoError(t, repo.Create(ctx, session))
	session.ExpiresAt = time.Now().Add(-time.Minute)

	_, err := repo.GetByID(ctx, "sid-1")
	require.Error(t, err)

	// Evicted, so a second read fails the same way.
	_, err = repo.GetByID(ctx, "sid-1")
	require.Error(t, err)
}

func TestMemorySessionRepository_DeleteByID(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.MockSession("sid-1", "token")))
	require.NoError(t, repo.DeleteByID(ctx, "sid-1"))

	_, err := repo.GetByID(ctx, "sid-1")
	assert.Error(t, err)

	// Deleting an absent session is not an error.
	assert.NoError(t, repo.DeleteByID(ctx, "sid-1"))
}

func TestMemorySessionRepository_DeleteExpired(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx := context.Background()

	live := testutil.MockSession("live", "token")
	stale := testutil.MockSession("stale", "token")
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))
	stale.ExpiresAt = time.Now().Add(-time.Minute)

	require.NoError(t, repo.DeleteExpired(ctx))

	_, err := repo.GetByID(ctx, "live")
	assert.NoError(t, err)
	_, err = repo.GetByID(ctx, "stale")
	assert.Error(t, err)
}
