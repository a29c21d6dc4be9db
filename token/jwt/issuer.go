// Package jwt provides an access-token issuer strategy that mints HS256
// signed JWTs instead of opaque strings. The engine still treats the
// result as an opaque bearer credential; this only changes what resource
// servers can do with it offline. OIDC id_token signing is a separate,
// unimplemented concern.
package jwt

import (
	"sync"
	"time"

	oautherr "github.com/flowgate/oauth2server/internal/errors"
	"github.com/flowgate/oauth2server/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var _ token.Issuer = (*Issuer)(nil)

// Issuer signs access tokens with a shared HMAC secret. Like the opaque
// issuer it keeps its own validity bookkeeping so revocation works
// without waiting for expiry; the claims carry no exp, matching the
// no-TTL behavior of the rest of the core.
type Issuer struct {
	secret     []byte
	issuerName string
	nowTime    func() time.Time

	mu     sync.Mutex
	issued map[string]string // jti -> client id
}

// Option configures the Issuer.
type Option func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

// NewIssuer creates a JWT issuer. The secret must be non-empty.
func NewIssuer(secret []byte, issuerName string, options ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("[jwt.NewIssuer] signing secret is required")
	}
	issuer := &Issuer{
		secret:     secret,
		issuerName: issuerName,
		nowTime:    time.Now,
		issued:     make(map[string]string),
	}
	for _, opt := range options {
		opt(issuer)
	}
	return issuer, nil
}

func (i *Issuer) Issue(username, clientID, clientSecret string) (string, error) {
	jti := uuid.New().String()
	claims := jwt.RegisteredClaims{
		Issuer:   i.issuerName,
		Subject:  username,
		Audience: jwt.ClaimStrings{clientID},
		IssuedAt: jwt.NewNumericDate(i.nowTime()),
		ID:       jti,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "[jwt.Issuer.Issue] SignedString")
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.issued[jti] = clientID
	return signed, nil
}

func (i *Issuer) TokenType() string {
	return "Bearer"
}

func (i *Issuer) Invalidate(rawToken, clientID, clientSecret string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return errors.Wrap(oautherr.ErrInvalidGrant, "[jwt.Issuer.Invalidate] token verification failed")
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	issuedTo, ok := i.issued[claims.ID]
	if !ok || issuedTo != clientID {
		return errors.Wrap(oautherr.ErrInvalidGrant, "[jwt.Issuer.Invalidate] unknown token/client pairing")
	}
	delete(i.issued, claims.ID)
	return nil
}
