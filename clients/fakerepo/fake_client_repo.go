package fakeclientrepo

import (
	"sync"

	"github.com/flowgate/oauth2server/clients"
	"github.com/flowgate/oauth2server/internal/errors"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

// FakeClientRepo is a test double that allows failures to be injected.
type FakeClientRepo struct {
	lock    sync.RWMutex
	clients map[string]*clients.Client

	// GetErr is returned by Get for every lookup when set
	GetErr error
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		clients: make(map[string]*clients.Client),
	}
}

func (r *FakeClientRepo) Upsert(clientData *clients.Client) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.clients[clientData.ID] = clientData
	return nil
}

func (r *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	client, ok := r.clients[clientID]
	if !ok {
		return nil, errors.ErrUnknownClient
	}
	return client, nil
}
