package errors

import (
	"errors"
	"fmt"
)

// Protocol error types for the OAuth2 authorization server.
// Each maps onto exactly one RFC 6749 wire code via Code.
var (
	// Request errors
	ErrInvalidRequest          = errors.New("invalid request")
	ErrUnsupportedResponseType = errors.New("unsupported response type")

	// Client errors
	ErrUnknownClient      = errors.New("unknown client")
	ErrUnauthorizedClient = errors.New("unauthorized client")
	ErrInvalidScope       = errors.New("invalid scope")

	// Grant errors
	ErrInvalidGrant  = errors.New("invalid grant")
	ErrInvalidToken  = errors.New("invalid token")
	ErrLoginRequired = errors.New("login required")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Code maps a protocol error onto its RFC 6749 error parameter value.
// Anything unrecognised is reported as invalid_request, the catch-all
// the authorization endpoint uses for malformed input.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedResponseType):
		return "unsupported_response_type"
	case errors.Is(err, ErrUnknownClient):
		return "invalid_client"
	case errors.Is(err, ErrUnauthorizedClient):
		return "unauthorized_client"
	case errors.Is(err, ErrInvalidScope):
		return "invalid_scope"
	case errors.Is(err, ErrInvalidGrant):
		return "invalid_grant"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrLoginRequired):
		return "login_required"
	default:
		return "invalid_request"
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
