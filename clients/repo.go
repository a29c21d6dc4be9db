package clients

// Repo defines the interface for client registry lookups
type Repo interface {
	// Get retrieves a registered client by its id. Returns
	// errors.ErrUnknownClient when the id is not registered.
	Get(clientID string) (*Client, error)

	// Upsert registers or replaces a client
	Upsert(client *Client) error
}
