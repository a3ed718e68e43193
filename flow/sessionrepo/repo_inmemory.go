package sessionrepo

import (
	"errors"
	"sync"

	autherrors "github.com/jrsteele09/go-spotify-auth/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

var _ Repo = (*InMemoryRepo)(nil)

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

// Upsert stores or updates a session. The repo keeps its own copy.
func (r *InMemoryRepo) Upsert(session *Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = *session
	return nil
}

// Get returns a copy of the session with the given id
func (r *InMemoryRepo) Get(id string) (*Session, error) {
	if id == "" {
		return nil, errors.New("session id cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, autherrors.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes a session
func (r *InMemoryRepo) Delete(id string) error {
	if id == "" {
		return errors.New("session id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
