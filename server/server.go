package server

import (
	"net/http"
	"time"

	"github.com/flowgate/oauth2server/clients"
	"github.com/flowgate/oauth2server/internal/cleanup"
	"github.com/flowgate/oauth2server/internal/config"
	"github.com/flowgate/oauth2server/ledger"
	"github.com/flowgate/oauth2server/scopes"
	"github.com/flowgate/oauth2server/sessions"
	"github.com/flowgate/oauth2server/token"
	"github.com/flowgate/oauth2server/users"
	"github.com/pkg/errors"
)

// Deps holds the collaborators the authorization server engine is built
// from. Clients, Scopes and Users are mandatory; the rest default to the
// in-memory implementations.
type Deps struct {
	Clients clients.Repo    // registered OAuth2 clients
	Scopes  *scopes.Registry // scope catalog
	Users   users.Repo      // user-data provider for the login dialog
	Issuer  token.Issuer    // access-token strategy (default: opaque bearer)
	Login   LoginBridge     // login dialog boundary (default: credential bridge)
}

// Server is the OAuth2 authorization server engine. It holds no
// per-request state, only shared references to the ledgers, registries
// and the session store, so one instance serves many concurrent
// requests.
type Server struct {
	env    string
	mux    *http.ServeMux
	config config.Config

	clients clients.Repo
	scopes  *scopes.Registry
	users   users.Repo
	issuer  token.Issuer
	login   LoginBridge
	blocker *users.Blocker

	store  *sessions.Store
	codes  *ledger.Ledger // one-time authorization codes
	tokens *ledger.Ledger // issued access tokens

	responseTypes map[string]struct{}
}

// New wires the engine. Missing mandatory collaborators are a
// construction error: the engine refuses to initialize rather than fail
// at request time.
func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Clients == nil {
		return nil, errors.New("[server.New] client registry is required")
	}
	if deps.Scopes == nil {
		return nil, errors.New("[server.New] scope registry is required")
	}
	if deps.Users == nil {
		return nil, errors.New("[server.New] user-data provider is required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		clients: deps.Clients,
		scopes:  deps.Scopes,
		users:   deps.Users,
		issuer:  deps.Issuer,
		login:   deps.Login,
		blocker: users.NewBlocker(cfg.GetMaxLoginAttempts()),
		store:   sessions.NewStore(cfg.GetSessionCookieName()),
		codes:   ledger.New(),
		tokens:  ledger.New(),
		responseTypes: map[string]struct{}{
			ResponseTypeCode:  {},
			ResponseTypeToken: {},
		},
	}
	if s.issuer == nil {
		s.issuer = token.NewBearerIssuer()
	}
	if s.login == nil {
		s.login = NewCredentialBridge(s.users, s.blocker)
	}

	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Sessions exposes the session store for wiring (sweeper, tests).
func (s *Server) Sessions() *sessions.Store {
	return s.store
}

// SweepTasks returns the housekeeping steps the periodic sweeper should
// run: pruning stale unauthenticated sessions and resetting login
// lockouts. The engine tolerates either clearing state concurrently with
// requests.
func (s *Server) SweepTasks(maxSessionIdle time.Duration) []cleanup.Task {
	return []cleanup.Task{
		func() { s.store.Prune(maxSessionIdle) },
		s.blocker.Reset,
	}
}
