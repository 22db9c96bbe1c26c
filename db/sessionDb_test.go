package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	repo := NewInMemorySessionRepository()

	first, created := repo.GetOrCreate("")
	require.True(t, created)
	_, err := uuid.Parse(first.ID)
	assert.NoError(t, err, "session id should be a UUID")
	assert.Empty(t, first.Messages)
	assert.Nil(t, first.Agent)

	again, created := repo.GetOrCreate(first.ID)
	assert.False(t, created)
	assert.Same(t, first, again)

	other, created := repo.GetOrCreate("not-a-known-id")
	assert.True(t, created)
	assert.NotEqual(t, "not-a-known-id", other.ID)
	assert.Equal(t, 2, repo.Count())
}

func TestGetSession(t *testing.T) {
	repo := NewInMemorySessionRepository()
	session, _ := repo.GetOrCreate("")

	got, err := repo.GetSession(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = repo.GetSession("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepIdle(t *testing.T) {
	repo := NewInMemorySessionRepository()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	current := base
	repo.now = func() time.Time { return current }

	stale, _ := repo.GetOrCreate("")
	current = base.Add(90 * time.Minute)
	fresh, _ := repo.GetOrCreate("")

	removed := repo.SweepIdle(base.Add(time.Hour))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, repo.Count())

	_, err := repo.GetSession(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.GetSession(fresh.ID)
	assert.NoError(t, err)
}

func TestGetOrCreateRefreshesLastSeen(t *testing.T) {
	repo := NewInMemorySessionRepository()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	current := base
	repo.now = func() time.Time { return current }

	session, _ := repo.GetOrCreate("")
	current = base.Add(2 * time.Hour)
	repo.GetOrCreate(session.ID)

	assert.Equal(t, current, session.LastSeen)
	assert.Equal(t, 0, repo.SweepIdle(base.Add(time.Hour)))
}
