package fakeuserrepo

import (
	"sync"

	"github.com/flowgate/oauth2server/internal/errors"
	"github.com/flowgate/oauth2server/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is a test double that allows failures to be injected.
type FakeUserRepo struct {
	lock  sync.RWMutex
	users map[string]*users.User

	// GetErr is returned by GetByUsername for every lookup when set
	GetErr error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: make(map[string]*users.User)}
}

// AddWithPassword hashes the password and stores the user, a convenience
// for test setup.
func (r *FakeUserRepo) AddWithPassword(user *users.User, password string) error {
	hash, err := users.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return r.Upsert(user)
}

func (r *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	user, ok := r.users[username]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return user, nil
}

func (r *FakeUserRepo) Upsert(user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.users[user.Username] = user
	return nil
}
