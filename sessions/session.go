package sessions

import (
	"sync"
	"time"
)

// State is the authorization state of a session. It is explicit rather
// than derived from which attributes happen to be set, so transitions
// are auditable.
type State int

const (
	// Unauthenticated: the session exists but the user has not logged in
	Unauthenticated State = iota
	// PreAuthorized: login succeeded, code/token issuance still pending
	PreAuthorized
	// Authorized: a code or token has been issued at least once
	Authorized
)

func (s State) String() string {
	switch s {
	case PreAuthorized:
		return "pre_authorized"
	case Authorized:
		return "authorized"
	default:
		return "unauthenticated"
	}
}

// Attribute names with protocol meaning. Sessions accumulate these while
// an authorization attempt is in flight.
const (
	AttrClientID     = "client_id"
	AttrRedirectURI  = "redirect_uri"
	AttrResponseType = "response_type"
	AttrScope        = "scope"
	AttrScopeInvalid = "scope_invalid"
	AttrState        = "state"
	AttrUsername     = "username"
	AttrPassword     = "password"
	AttrClientSecret = "client_secret"
)

// Session is one user's in-progress or completed authorization, keyed by
// an identifier exchanged via a cookie header. All attribute access goes
// through the session's own lock, so a read-modify-write on one session
// is atomic with respect to other operations on the same session without
// serializing unrelated sessions.
type Session struct {
	id string

	mu      sync.Mutex
	state   State
	attrs   map[string]string
	touched time.Time
}

func newSession(id string) *Session {
	return &Session{
		id:      id,
		attrs:   make(map[string]string),
		touched: time.Now(),
	}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current authorization state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState transitions the session.
func (s *Session) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.touched = time.Now()
}

// Get returns a single attribute, empty if absent or the session has
// been cleared.
func (s *Session) Get(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs[name]
}

// Set stores a single attribute.
func (s *Session) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attrs == nil {
		return
	}
	s.attrs[name] = value
	s.touched = time.Now()
}

// SetAll merges the given parameters into the attribute map in one
// critical section, so a concurrent double submission observes either
// none or all of them.
func (s *Session) SetAll(params map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attrs == nil {
		return
	}
	for k, v := range params {
		s.attrs[k] = v
	}
	s.touched = time.Now()
}

// Snapshot returns a copy of the attribute map for lock-free reading.
func (s *Session) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]string, len(s.attrs))
	for k, v := range s.attrs {
		snapshot[k] = v
	}
	return snapshot
}

// PurgeCredentials removes raw credential attributes. Must be called
// before any response derived from the session is serialized.
func (s *Session) PurgeCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attrs, AttrPassword)
	delete(s.attrs, AttrClientSecret)
}

// Clear wipes the session. A cleared session reads as logged out: the
// store stops returning it and attribute writes become no-ops.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unauthenticated
	s.attrs = nil
}

// Cleared reports whether the session has been wiped.
func (s *Session) Cleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs == nil
}

// LastTouched returns the time of the last state or attribute change.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}
