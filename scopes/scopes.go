package scopes

import "strings"

// Scope is a named bundle of session attributes a client may request
// access to. The claim names listed here are the only attributes the
// userinfo endpoint will ever project for this scope.
type Scope struct {
	Name   string   `json:"name"`
	Claims []string `json:"claims"`
}

// HasClaim checks whether the scope exposes a specific attribute
func (s *Scope) HasClaim(name string) bool {
	for _, c := range s.Claims {
		if c == name {
			return true
		}
	}
	return false
}

// Split breaks a space-separated scope string into its names,
// dropping empty fragments.
func Split(scope string) []string {
	return strings.Fields(scope)
}

// Join reassembles scope names into the wire form.
func Join(names []string) string {
	return strings.Join(names, " ")
}
