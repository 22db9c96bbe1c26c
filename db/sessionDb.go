package db

import (
	"errors"
	"sync"
	"time"

	"studybuddy/models"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	// GetOrCreate returns the session for id, creating a new one with a fresh
	// id when id is empty or unknown. created reports whether that happened.
	GetOrCreate(id string) (session *models.Session, created bool)
	GetSession(id string) (*models.Session, error)
	// SweepIdle drops sessions not seen since cutoff and returns how many went.
	SweepIdle(cutoff time.Time) int
	Count() int
}

// InMemorySessionRepository keeps sessions for the life of the process only.
type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

func (r *InMemorySessionRepository) GetOrCreate(id string) (*models.Session, bool) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if session, ok := r.sessions[id]; ok {
			session.LastSeen = now
			return session, false
		}
	}

	// Unknown ids are replaced rather than adopted so clients cannot pick them.
	session := &models.Session{
		ID:        uuid.New().String(),
		Messages:  []models.Message{},
		CreatedAt: now,
		LastSeen:  now,
	}
	r.sessions[session.ID] = session
	return session, true
}

func (r *InMemorySessionRepository) GetSession(id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *InMemorySessionRepository) SweepIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.LastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *InMemorySessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
