package clients

import (
	"sync"

	"github.com/flowgate/oauth2server/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory client registry. Registration happens at
// wiring time; request-time access is read-only.
type InMemoryRepo struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewInMemoryRepo creates a registry pre-loaded with the given clients.
func NewInMemoryRepo(registered ...*Client) *InMemoryRepo {
	r := &InMemoryRepo{clients: make(map[string]*Client, len(registered))}
	for _, c := range registered {
		r.clients[c.ID] = c
	}
	return r
}

func (r *InMemoryRepo) Get(clientID string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, errors.ErrUnknownClient
	}
	return client, nil
}

func (r *InMemoryRepo) Upsert(client *Client) error {
	if client == nil || client.ID == "" {
		return errors.ErrInvalidRequest
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = client
	return nil
}
