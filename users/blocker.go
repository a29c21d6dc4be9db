package users

import "sync"

// Blocker counts failed login attempts per username and blocks further
// attempts once the limit is reached. A periodic sweep calls Reset so a
// lockout does not persist forever; the login flow tolerates state
// vanishing between calls.
type Blocker struct {
	mu       sync.Mutex
	failures map[string]int
	limit    int
}

// NewBlocker creates a blocker allowing limit failed attempts per user.
// A limit of zero disables blocking.
func NewBlocker(limit int) *Blocker {
	return &Blocker{
		failures: make(map[string]int),
		limit:    limit,
	}
}

// Fail records a failed attempt for the username.
func (b *Blocker) Fail(username string) {
	if b.limit <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[username]++
}

// Succeed clears the failure count after a successful login.
func (b *Blocker) Succeed(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, username)
}

// Blocked reports whether the username has exhausted its attempts.
func (b *Blocker) Blocked(username string) bool {
	if b.limit <= 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures[username] >= b.limit
}

// Reset forgets all recorded failures.
func (b *Blocker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]int)
}
