package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Session is one client's live outbound event channel. The router only ever
// pushes; a session that cannot keep up drops events.
type Session interface {
	Deliver(evt *Event)
}

// Registry maps a user id to its currently active session. One session per
// identity: a later connect for the same user overwrites the earlier entry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]Session)}
}

// Register binds userID to s, replacing any previous session for that user.
func (r *Registry) Register(userID uuid.UUID, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = s
}

// Lookup returns the active session for userID. Absence means the user is
// not currently reachable, not an error.
func (r *Registry) Lookup(userID uuid.UUID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Unregister removes the entry holding exactly s. Matching by session value
// rather than identity keeps a late disconnect for an old connection from
// evicting the entry of a user who already reconnected.
func (r *Registry) Unregister(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, active := range r.sessions {
		if active == s {
			delete(r.sessions, userID)
			return
		}
	}
}

// Len reports the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
