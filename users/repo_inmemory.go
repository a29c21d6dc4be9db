package users

import (
	"sync"

	"github.com/flowgate/oauth2server/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory user provider.
type InMemoryRepo struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{users: make(map[string]*User)}
}

// AddWithPassword hashes the password and stores the user.
func (r *InMemoryRepo) AddWithPassword(user *User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return r.Upsert(user)
}

func (r *InMemoryRepo) GetByUsername(username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return user, nil
}

func (r *InMemoryRepo) Upsert(user *User) error {
	if user == nil || user.Username == "" {
		return errors.ErrInvalidRequest
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = user
	return nil
}

// Remove deletes a user; the login flow tolerates accounts vanishing
// between requests.
func (r *InMemoryRepo) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, username)
}
