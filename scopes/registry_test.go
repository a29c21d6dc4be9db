package scopes_test

import (
	"testing"

	"github.com/flowgate/oauth2server/scopes"
	"github.com/stretchr/testify/require"
)

func testRegistry() *scopes.Registry {
	return scopes.NewRegistry([]scopes.Scope{
		{Name: "profile", Claims: []string{"username", "name"}},
		{Name: "email", Claims: []string{"email"}},
	})
}

func TestRegistry_Valid(t *testing.T) {
	r := testRegistry()

	t.Run("all known", func(t *testing.T) {
		require.Equal(t, "profile email", r.Valid("profile email"))
	})

	t.Run("unknown scopes silently dropped", func(t *testing.T) {
		require.Equal(t, "profile", r.Valid("profile payments"))
		require.Equal(t, "payments", r.Rejected("profile payments"))
	})

	t.Run("nothing known", func(t *testing.T) {
		require.Empty(t, r.Valid("payments admin"))
		require.Equal(t, "payments admin", r.Rejected("payments admin"))
	})

	t.Run("empty request", func(t *testing.T) {
		require.Empty(t, r.Valid(""))
		require.Empty(t, r.Rejected(""))
	})
}

func TestRegistry_Claims(t *testing.T) {
	r := testRegistry()

	attrs := map[string]string{
		"username":      "john",
		"name":          "John Smith",
		"email":         "john@example.com",
		"password":      "secret",
		"client_secret": "abc",
	}

	t.Run("projects only entitled attributes", func(t *testing.T) {
		claims := r.Claims(attrs, []string{"profile"})
		require.Equal(t, map[string]string{"username": "john", "name": "John Smith"}, claims)
	})

	t.Run("union across scopes", func(t *testing.T) {
		claims := r.Claims(attrs, []string{"profile", "email"})
		require.Len(t, claims, 3)
		require.Equal(t, "john@example.com", claims["email"])
	})

	t.Run("credentials never projected", func(t *testing.T) {
		claims := r.Claims(attrs, []string{"profile", "email"})
		require.NotContains(t, claims, "password")
		require.NotContains(t, claims, "client_secret")
	})

	t.Run("unknown scope yields nothing", func(t *testing.T) {
		require.Empty(t, r.Claims(attrs, []string{"payments"}))
	})

	t.Run("missing attribute is omitted", func(t *testing.T) {
		claims := r.Claims(map[string]string{"username": "john"}, []string{"profile"})
		require.Equal(t, map[string]string{"username": "john"}, claims)
	})
}
