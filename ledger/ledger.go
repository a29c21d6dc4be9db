// Package ledger provides the concurrent key-to-session tables behind
// authorization codes and access tokens. Codes are consumed exactly once
// via TakeOnce; tokens stay until revoked (no TTL is maintained here).
package ledger

import (
	"sync"

	"github.com/flowgate/oauth2server/sessions"
)

// Ledger is a mutex-guarded table from an opaque credential to the
// session it was issued for. One lock per ledger: every mutation and the
// combined lookup-and-delete are mutually exclusive across the whole key
// space.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]*sessions.Session
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*sessions.Session)}
}

// Put records the session a key was issued for.
func (l *Ledger) Put(key string, session *sessions.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = session
}

// Get returns the session bound to the key, or nil.
func (l *Ledger) Get(key string) *sessions.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[key]
}

// TakeOnce performs lookup-and-delete as a single atomic step. Under
// concurrent redemption attempts for the same key exactly one caller
// receives the session; all others receive nil. This is the anti-replay
// guarantee for authorization codes.
func (l *Ledger) TakeOnce(key string) *sessions.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	session, ok := l.entries[key]
	if !ok {
		return nil
	}
	delete(l.entries, key)
	return session
}

// Delete removes a key without returning it.
func (l *Ledger) Delete(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// Len returns the number of live entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
