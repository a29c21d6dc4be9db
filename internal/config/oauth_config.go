package config

import (
	"strconv"
	"time"
)

// TokenStrategy selects the access-token issuer implementation.
type TokenStrategy string

const (
	TokenStrategyOpaque TokenStrategy = "opaque"
	TokenStrategyJWT    TokenStrategy = "jwt"
)

type OAuthConfig interface {
	GetLoginPath() string
	GetSessionCookieName() string
	GetTokenStrategy() TokenStrategy
	GetJWTSecret() string
	GetIssuerName() string
	GetSweepInterval() time.Duration
	GetMaxLoginAttempts() int
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetLoginPath is the path of the interactive login dialog the authorization
// endpoint redirects to. The session cookie carries the flow across it.
func (OAuth) GetLoginPath() string {
	return GetEnv("LOGIN_PATH", "/login")
}

func (OAuth) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE", "SESSIONID")
}

func (OAuth) GetTokenStrategy() TokenStrategy {
	return TokenStrategy(GetEnv("TOKEN_STRATEGY", string(TokenStrategyOpaque)))
}

func (OAuth) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}

func (OAuth) GetIssuerName() string {
	return GetEnv("ISSUER", "http://localhost:8080")
}

func (OAuth) GetSweepInterval() time.Duration {
	d, err := time.ParseDuration(GetEnv("SWEEP_INTERVAL", "5m"))
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetMaxLoginAttempts is the failed-login limit per account; 0 disables
// blocking.
func (OAuth) GetMaxLoginAttempts() int {
	n, err := strconv.Atoi(GetEnv("MAX_LOGIN_ATTEMPTS", "5"))
	if err != nil || n < 0 {
		return 5
	}
	return n
}
