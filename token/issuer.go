// Package token issues and revokes access tokens. The issuer is a
// pluggable strategy: the engine only sees opaque strings and a
// token-type label. Issuer bookkeeping is independent of the engine's
// token-to-session ledger; the engine revokes in both places.
package token

// Issuer generates bearer tokens and invalidates them on revocation.
type Issuer interface {
	// Issue generates a new access token for the user/client pairing
	Issue(username, clientID, clientSecret string) (string, error)

	// TokenType returns the scheme label clients present the token
	// under, e.g. "Bearer"
	TokenType() string

	// Invalidate revokes a token. Fails with errors.ErrInvalidGrant when
	// the token/client pairing is not recognized by the issuer's own
	// bookkeeping.
	Invalidate(token, clientID, clientSecret string) error
}
