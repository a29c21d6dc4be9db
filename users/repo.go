package users

// Repo is the user-data provider the login flow verifies credentials
// against. A provider may forget users at any time (an external cleanup
// job owns account lifecycle); callers treat a missing user as a failed
// login, not a fault.
type Repo interface {
	// GetByUsername retrieves a user, or errors.ErrNotFound
	GetByUsername(username string) (*User, error)

	// Upsert creates or replaces a user
	Upsert(user *User) error
}
