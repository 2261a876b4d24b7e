package workflow_test

import (
	"testing"

	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestManager_SessionLifecycle(t *testing.T) {
	manager := workflow.NewManager()
	owner := uuid.New()
	stranger := uuid.New()

	session := manager.Open(owner)
	require.NotEqual(t, uuid.Nil, session.ID)
	require.NotNil(t, session.Graph)

	fetched, err := manager.Get(session.ID, owner)
	require.NoError(t, err)
	require.Same(t, session, fetched)

	_, err = manager.Get(session.ID, stranger)
	require.ErrorIs(t, err, internal.ErrNotSessionOwner)

	_, err = manager.Get(uuid.New(), owner)
	require.ErrorIs(t, err, internal.ErrSessionNotFound)

	err = manager.Close(session.ID, stranger)
	require.ErrorIs(t, err, internal.ErrNotSessionOwner)

	require.NoError(t, manager.Close(session.ID, owner))
	_, err = manager.Get(session.ID, owner)
	require.ErrorIs(t, err, internal.ErrSessionNotFound)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	manager := workflow.NewManager()
	owner := uuid.New()

	first := manager.Open(owner)
	second := manager.Open(owner)
	require.NotEqual(t, first.ID, second.ID)

	firstStart := first.Graph.Snapshot().StartID
	secondStart := second.Graph.Snapshot().StartID
	require.NotEqual(t, firstStart, secondStart, "each session gets its own fresh graph")
}
