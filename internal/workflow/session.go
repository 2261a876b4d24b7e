package workflow

import (
	"sync"
	"time"

	"ClubHub/club-system-backend/internal"

	"github.com/google/uuid"
)

// Session is one user's open workflow editor: a fresh isolated graph that
// lives until the editor closes. Nothing about it is persisted.
type Session struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Graph     *Graph
	CreatedAt time.Time
}

// Manager tracks the open editor sessions. Each session's graph is
// independent; sessions never share state.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// Open creates a session owned by the given user. The graph starts with
// only its designated start node.
func (m *Manager) Open(ownerID uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := &Session{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Graph:     NewGraph(),
		CreatedAt: time.Now(),
	}
	m.sessions[session.ID] = session
	return session
}

// Get returns the session if it exists and is owned by the requester.
func (m *Manager) Get(id uuid.UUID, requesterID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, internal.ErrSessionNotFound
	}
	if session.OwnerID != requesterID {
		return nil, internal.ErrNotSessionOwner
	}
	return session, nil
}

// Close discards the session and its graph.
func (m *Manager) Close(id uuid.UUID, requesterID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return internal.ErrSessionNotFound
	}
	if session.OwnerID != requesterID {
		return internal.ErrNotSessionOwner
	}
	delete(m.sessions, id)
	return nil
}
