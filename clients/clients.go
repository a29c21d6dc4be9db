package clients

// Client is a registered OAuth2 application. Immutable once loaded: the
// engine looks clients up and compares against them, it never mutates
// them.
type Client struct {
	ID          string `json:"id"`
	Secret      string `json:"secret"`
	CallbackURL string `json:"callbackUrl"`
	Description string `json:"description,omitempty"`
}

// SecretMatches compares a presented secret with the registered one.
func (c *Client) SecretMatches(secret string) bool {
	return secret != "" && secret == c.Secret
}
