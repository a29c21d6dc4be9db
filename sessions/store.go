package sessions

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns all live sessions, keyed by the identifier carried in a
// cookie. Creation and lookup are guarded by a store-wide lock; per
// session attribute mutation is guarded by the session's own lock, so
// unrelated sessions never contend.
type Store struct {
	cookieName string

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates a session store using the given cookie attribute
// name for session transport.
func NewStore(cookieName string) *Store {
	return &Store{
		cookieName: cookieName,
		sessions:   make(map[string]*Session),
	}
}

// Find extracts the session identifier from the request's cookie header
// and returns the matching session. Absence of the cookie, an unknown
// identifier, or a cleared session all yield nil, which the engine
// treats as "not logged in".
func (st *Store) Find(r *http.Request) *Session {
	cookie, err := r.Cookie(st.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	st.mu.RLock()
	session := st.sessions[cookie.Value]
	st.mu.RUnlock()
	if session == nil || session.Cleared() {
		return nil
	}
	return session
}

// Create mints a new session and sets the response header instructing
// the user agent to persist its identifier. When explicitID is non-empty
// the session reuses that identifier (the authorize flow keeps the id
// the browser already carries); any prior session under the same id is
// replaced.
func (st *Store) Create(w http.ResponseWriter, explicitID string) *Session {
	id := explicitID
	if id == "" {
		id = uuid.New().String()
	}
	session := newSession(id)

	st.mu.Lock()
	st.sessions[id] = session
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     st.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return session
}

// CookieID returns the session identifier the request carries, if any,
// regardless of whether a session exists for it.
func (st *Store) CookieID(r *http.Request) string {
	cookie, err := r.Cookie(st.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Clear wipes a session's attributes and state. The entry stays in the
// table so the identifier cannot be resurrected with stale attributes;
// Find stops returning it.
func (st *Store) Clear(session *Session) {
	if session == nil {
		return
	}
	session.Clear()
}

// Remove drops a session from the table entirely.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of tracked sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Prune removes cleared sessions and unauthenticated sessions idle for
// longer than maxIdle. Authorized sessions are never pruned here; tokens
// live until explicitly revoked.
func (st *Store) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, session := range st.sessions {
		if session.Cleared() || (session.State() == Unauthenticated && session.LastTouched().Before(cutoff)) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
