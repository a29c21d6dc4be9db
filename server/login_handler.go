package server

import (
	"html/template"
	"net/http"
	"net/url"

	oautherr "github.com/flowgate/oauth2server/internal/errors"
	"github.com/flowgate/oauth2server/sessions"
	"github.com/flowgate/oauth2server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LoginBridge is the boundary to the login dialog's credential check.
// Verify returns the attributes to install into the session on success,
// so scope expansion has user data to project.
type LoginBridge interface {
	Verify(username, password string) (map[string]string, error)
}

var _ LoginBridge = (*CredentialBridge)(nil)

// CredentialBridge verifies credentials against the user-data provider,
// with per-user lockout after repeated failures.
type CredentialBridge struct {
	users   users.Repo
	blocker *users.Blocker
}

func NewCredentialBridge(repo users.Repo, blocker *users.Blocker) *CredentialBridge {
	return &CredentialBridge{users: repo, blocker: blocker}
}

func (b *CredentialBridge) Verify(username, password string) (map[string]string, error) {
	if b.blocker.Blocked(username) {
		return nil, errors.New("[CredentialBridge.Verify] account temporarily locked")
	}

	// a vanished user reads as a failed login, not a fault: an external
	// cleanup job may remove accounts at any time
	user, err := b.users.GetByUsername(username)
	if err != nil || user == nil || user.Blocked || !users.CheckPasswordHash(password, user.PasswordHash) {
		b.blocker.Fail(username)
		return nil, errors.Wrap(oautherr.ErrLoginRequired, "[CredentialBridge.Verify] credential check failed")
	}

	b.blocker.Succeed(username)
	attributes := make(map[string]string, len(user.Attributes)+1)
	for k, v := range user.Attributes {
		attributes[k] = v
	}
	attributes[sessions.AttrUsername] = user.Username
	return attributes, nil
}

const contentTypeHTML = "text/html; charset=utf-8"

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
<label>Username <input type="text" name="username" value="{{.Username}}"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`))

type loginPageData struct {
	Action   string
	Error    string
	Username string
}

// LoginPage renders the login dialog. The flow session must already
// exist; the dialog is only reachable via the authorization endpoint.
func (s *Server) LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.store.Find(r) == nil {
			jsonError(w, "invalid_request")
			return
		}

		data := loginPageData{
			Action:   s.config.GetLoginPath(),
			Error:    r.URL.Query().Get("error"),
			Username: r.URL.Query().Get("username"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		w.Header().Set("Cache-Control", "no-store")
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("failed to render login page")
		}
	}
}

// LoginSubmit completes the login handoff: on a successful credential
// check the session becomes pre-authorized and the user agent is sent to
// "/" where the code or token is issued.
func (s *Server) LoginSubmit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.store.Find(r)
		if session == nil {
			jsonError(w, "invalid_request")
			return
		}

		if err := r.ParseForm(); err != nil {
			jsonError(w, "invalid_request")
			return
		}
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			s.redirectLoginError(w, r, username, "Username and password are required")
			return
		}

		attributes, err := s.login.Verify(username, password)
		if err != nil {
			log.Warn().Str("username", username).Msg("login failed")
			s.redirectLoginError(w, r, username, "Invalid username or password")
			return
		}

		session.SetAll(attributes)
		session.SetState(sessions.PreAuthorized)

		log.Info().
			Str("username", username).
			Str("session_id", session.ID()).
			Msg("login succeeded")
		redirect(w, r, "/")
	}
}

func (s *Server) redirectLoginError(w http.ResponseWriter, r *http.Request, username, message string) {
	location := s.config.GetLoginPath() + "?error=" + url.QueryEscape(message)
	if username != "" {
		location += "&username=" + url.QueryEscape(username)
	}
	redirect(w, r, location)
}
