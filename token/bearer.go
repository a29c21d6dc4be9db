package token

import (
	"crypto/rand"
	"encoding/base64"
	"sync"

	oautherr "github.com/flowgate/oauth2server/internal/errors"
	"github.com/pkg/errors"
)

const tokenByteLength = 32

var _ Issuer = (*BearerIssuer)(nil)

// BearerIssuer issues opaque random bearer tokens and tracks their
// validity for revocation. Issued tokens do not expire; they live until
// Invalidate is called.
type BearerIssuer struct {
	mu     sync.Mutex
	issued map[string]string // token -> client id it was issued to
}

// NewBearerIssuer creates an issuer with empty bookkeeping.
func NewBearerIssuer() *BearerIssuer {
	return &BearerIssuer{issued: make(map[string]string)}
}

func (b *BearerIssuer) Issue(username, clientID, clientSecret string) (string, error) {
	bytes := make([]byte, tokenByteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "[BearerIssuer.Issue] rand.Read")
	}
	token := base64.RawURLEncoding.EncodeToString(bytes)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued[token] = clientID
	return token, nil
}

func (b *BearerIssuer) TokenType() string {
	return "Bearer"
}

func (b *BearerIssuer) Invalidate(token, clientID, clientSecret string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	issuedTo, ok := b.issued[token]
	if !ok || issuedTo != clientID {
		return errors.Wrap(oautherr.ErrInvalidGrant, "[BearerIssuer.Invalidate] unknown token/client pairing")
	}
	delete(b.issued, token)
	return nil
}
