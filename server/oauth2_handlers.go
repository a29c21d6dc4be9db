package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/flowgate/oauth2server/scopes"
	"github.com/flowgate/oauth2server/sessions"
	"github.com/rs/zerolog/log"
)

const (
	codeByteLength = 20

	// attrAuthCode tracks the session's outstanding authorization code
	// so a re-issue can retire the previous one. Never exposed as a
	// claim.
	attrAuthCode = "authorization_code"
)

// tokenResponse is the token endpoint's success body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	IDToken     string `json:"id_token,omitempty"` // reserved for OpenID Connect support
}

// Authorize handles the authorization endpoint. With no live session it
// validates the request and hands the user agent to the login dialog;
// on a live session only an explicit prompt=login restart moves the
// flow forward — silent authorization is never granted.
func (s *Server) Authorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := queryParams(r)

		if session := s.store.Find(r); session != nil {
			if params["prompt"] == "login" {
				s.store.Clear(session)
				log.Info().Str("session_id", session.ID()).Msg("session cleared for fresh login")
				redirect(w, r, r.URL.RequestURI())
				return
			}
			if session.State() != sessions.Unauthenticated {
				jsonError(w, "login_required")
				return
			}
			// not yet logged in: restart validation, reusing the
			// identifier the browser already carries
		}

		s.startAuthorization(w, r, params)
	}
}

func (s *Server) startAuthorization(w http.ResponseWriter, r *http.Request, params map[string]string) {
	state := params[sessions.AttrState]

	clientID := params[sessions.AttrClientID]
	if clientID == "" {
		jsonError(w, "invalid_request")
		return
	}
	client, err := s.clients.Get(clientID)
	if err != nil {
		log.Warn().Str("client_id", clientID).Msg("authorize request for unknown client")
		jsonError(w, "unauthorized_client")
		return
	}

	// No redirect is attempted before the callback is validated; until
	// then every failure is a plain JSON error.
	redirectURI := params[sessions.AttrRedirectURI]
	if redirectURI == "" || !isAbsoluteURI(redirectURI) {
		jsonError(w, "invalid_request")
		return
	}
	if redirectURI != client.CallbackURL {
		// exact match only; a trailing slash is a different callback
		jsonError(w, "invalid_request")
		return
	}

	if params["prompt"] == "none" {
		redirectError(w, r, client.CallbackURL, "login_required", state)
		return
	}

	session := s.store.Create(w, s.store.CookieID(r))

	responseType := params[sessions.AttrResponseType]
	if responseType == "" {
		redirectError(w, r, client.CallbackURL, "invalid_request", state)
		return
	}
	if _, ok := s.responseTypes[responseType]; !ok {
		redirectError(w, r, client.CallbackURL, "unsupported_response_type", state)
		return
	}

	requestedScope := params[sessions.AttrScope]
	if requestedScope == "" {
		redirectError(w, r, client.CallbackURL, "invalid_request", state)
		return
	}
	validScope := s.scopes.Valid(requestedScope)
	if validScope == "" {
		redirectError(w, r, client.CallbackURL, "invalid_scope", state)
		return
	}
	params[sessions.AttrScope] = validScope
	if rejected := s.scopes.Rejected(requestedScope); rejected != "" {
		params[sessions.AttrScopeInvalid] = rejected
	}

	session.SetAll(params)

	log.Info().
		Str("client_id", clientID).
		Str("session_id", session.ID()).
		Str("scope", validScope).
		Msg("authorization attempt started")
	redirect(w, r, s.config.GetLoginPath())
}

// Root serves everything outside the fixed endpoints. A request to "/"
// on a pre-authorized session completes the flow; anything else is a
// protocol error.
func (s *Server) Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, routeFavicon) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Path == "/" {
			if session := s.store.Find(r); session != nil && session.State() != sessions.Unauthenticated {
				s.finishAuthorization(w, r, session)
				return
			}
		}
		jsonError(w, "invalid_request")
	}
}

// finishAuthorization turns a pre-authorized session into an
// authorization code or an access token, by response_type. The recorded
// redirect_uri is re-validated against the client's current callback:
// the registration may have changed since the flow started.
func (s *Server) finishAuthorization(w http.ResponseWriter, r *http.Request, session *sessions.Session) {
	attrs := session.Snapshot()

	client, err := s.clients.Get(attrs[sessions.AttrClientID])
	if err != nil {
		jsonError(w, "invalid_request")
		return
	}
	if client.CallbackURL != attrs[sessions.AttrRedirectURI] {
		jsonError(w, "invalid_request")
		return
	}

	switch attrs[sessions.AttrResponseType] {
	case ResponseTypeCode:
		code, err := generateOpaque(codeByteLength)
		if err != nil {
			log.Err(err).Msg("authorization code generation failed")
			jsonError(w, "invalid_request")
			return
		}
		// at most one outstanding code per session
		if previous := session.Get(attrAuthCode); previous != "" {
			s.codes.Delete(previous)
		}
		session.Set(attrAuthCode, code)
		session.SetState(sessions.Authorized)
		s.codes.Put(code, session)

		log.Info().
			Str("client_id", client.ID).
			Str("session_id", session.ID()).
			Msg("authorization code issued")
		redirect(w, r, appendQuery(client.CallbackURL,
			"code", code,
			"state", attrs[sessions.AttrState]))

	case ResponseTypeToken:
		// the implicit grant never issues a code; re-issues are not
		// deduplicated
		accessToken, err := s.issuer.Issue(attrs[sessions.AttrUsername], client.ID, client.Secret)
		if err != nil {
			log.Err(err).Msg("implicit token issuance failed")
			jsonError(w, "invalid_request")
			return
		}
		session.SetState(sessions.Authorized)
		s.tokens.Put(accessToken, session)

		log.Info().
			Str("client_id", client.ID).
			Str("session_id", session.ID()).
			Msg("access token issued via implicit grant")
		redirect(w, r, appendQuery(client.CallbackURL,
			"access_token", accessToken,
			"token_type", s.issuer.TokenType(),
			"scope", attrs[sessions.AttrScope],
			"state", attrs[sessions.AttrState]))

	default:
		jsonError(w, "unsupported_response_type")
	}
}

// Token exchanges an authorization code for an access token. Every
// failed precondition returns a JSON error body, never a redirect, and
// never partially issues a token.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := formParams(r)
		if err != nil {
			jsonError(w, "invalid_request")
			return
		}

		code := params["code"]
		if code == "" {
			jsonError(w, "invalid_request")
			return
		}
		// Atomic take: of N concurrent redemptions of the same code
		// exactly one proceeds past this point.
		session := s.codes.TakeOnce(code)
		if session == nil {
			log.Warn().Msg("token request with unknown or already redeemed code")
			jsonError(w, "invalid_grant")
			return
		}

		session.SetAll(params)
		defer session.PurgeCredentials()

		clientID, clientSecret := params[sessions.AttrClientID], params[sessions.AttrClientSecret]
		if clientID == "" || clientSecret == "" {
			jsonError(w, "invalid_request")
			return
		}
		client, err := s.clients.Get(clientID)
		if err != nil {
			jsonError(w, "invalid_client")
			return
		}
		if !client.SecretMatches(clientSecret) {
			jsonError(w, "unauthorized_client")
			return
		}

		redirectURI := params[sessions.AttrRedirectURI]
		if redirectURI == "" || !isAbsoluteURI(redirectURI) || redirectURI != client.CallbackURL {
			jsonError(w, "invalid_request")
			return
		}

		accessToken, err := s.issuer.Issue(session.Get(sessions.AttrUsername), client.ID, client.Secret)
		if err != nil {
			log.Err(err).Msg("token issuance failed")
			jsonError(w, "invalid_request")
			return
		}
		s.tokens.Put(accessToken, session)

		log.Info().
			Str("client_id", client.ID).
			Str("session_id", session.ID()).
			Msg("authorization code exchanged for access token")
		writeJSON(w, http.StatusOK, tokenResponse{
			AccessToken: accessToken,
			TokenType:   s.issuer.TokenType(),
			Scope:       session.Get(sessions.AttrScope),
		})
	}
}

// UserInfo returns the claims the session's granted scopes expose.
func (s *Server) UserInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheme := s.issuer.TokenType()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			wwwAuthenticateError(w, http.StatusBadRequest, scheme, "invalid_request")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
			wwwAuthenticateError(w, http.StatusBadRequest, scheme, "invalid_request")
			return
		}

		session := s.tokens.Get(parts[1])
		if session == nil {
			wwwAuthenticateError(w, http.StatusUnauthorized, scheme, "invalid_token")
			return
		}

		attrs := session.Snapshot()
		claims := s.scopes.Claims(attrs, scopes.Split(attrs[sessions.AttrScope]))
		writeJSON(w, http.StatusOK, claims)
	}
}

// Revoke invalidates an access token in both the token ledger and the
// issuer's own bookkeeping, then clears the bound session.
func (s *Server) Revoke() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := formParams(r)
		if err != nil {
			jsonError(w, "invalid_request")
			return
		}

		accessToken := params["token"]
		clientID := params[sessions.AttrClientID]
		clientSecret := params[sessions.AttrClientSecret]
		if accessToken == "" || clientID == "" || clientSecret == "" {
			jsonError(w, "invalid_request")
			return
		}

		session := s.tokens.Get(accessToken)
		if session == nil {
			jsonError(w, "invalid_grant")
			return
		}
		if err := s.issuer.Invalidate(accessToken, clientID, clientSecret); err != nil {
			log.Warn().Str("client_id", clientID).Msg("token revocation rejected by issuer")
			jsonError(w, "invalid_grant")
			return
		}

		// ledger and issuer bookkeeping stay consistent
		s.tokens.Delete(accessToken)
		s.store.Clear(session)

		log.Info().Str("client_id", clientID).Msg("access token revoked")
		w.WriteHeader(http.StatusOK)
	}
}

func generateOpaque(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
