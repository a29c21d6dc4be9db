package server_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/flowgate/oauth2server/clients"
	fakeclientrepo "github.com/flowgate/oauth2server/clients/fakerepo"
	"github.com/flowgate/oauth2server/internal/config"
	"github.com/flowgate/oauth2server/scopes"
	"github.com/flowgate/oauth2server/server"
	"github.com/flowgate/oauth2server/users"
	fakeuserrepo "github.com/flowgate/oauth2server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testCallback = "https://app.example/cb"
	testPassword = "Passw0rd"
)

type fixture struct {
	srv     *server.Server
	clients *fakeclientrepo.FakeClientRepo
	users   *fakeuserrepo.FakeUserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clientRepo := fakeclientrepo.NewFakeClientRepo()
	require.NoError(t, clientRepo.Upsert(&clients.Client{
		ID:          "c1",
		Secret:      "s3cret",
		CallbackURL: testCallback,
	}))

	userRepo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, userRepo.AddWithPassword(&users.User{
		Username: "john",
		Attributes: map[string]string{
			"name":  "John Smith",
			"email": "john@example.com",
		},
	}, testPassword))

	registry := scopes.NewRegistry([]scopes.Scope{
		{Name: "profile", Claims: []string{"username", "name"}},
		{Name: "email", Claims: []string{"email"}},
	})

	srv, err := server.New(config.New(), server.Deps{
		Clients: clientRepo,
		Scopes:  registry,
		Users:   userRepo,
	})
	require.NoError(t, err)

	return &fixture{srv: srv, clients: clientRepo, users: userRepo}
}

func (f *fixture) do(t *testing.T, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.srv.ServeHTTP(w, r)
	return w
}

func (f *fixture) get(t *testing.T, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return f.do(t, r)
}

func (f *fixture) postForm(t *testing.T, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return f.do(t, r)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "SESSIONID" {
			return c
		}
	}
	t.Fatal("no SESSIONID cookie in response")
	return nil
}

func location(t *testing.T, w *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	return loc
}

// login walks a session through the login dialog.
func (f *fixture) login(t *testing.T, cookie *http.Cookie) {
	t.Helper()
	w := f.postForm(t, "/login", url.Values{
		"username": {"john"},
		"password": {testPassword},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

// obtainCode runs authorize → login → "/" and returns the issued code
// together with the session cookie.
func (f *fixture) obtainCode(t *testing.T, query string) (string, *http.Cookie) {
	t.Helper()

	w := f.get(t, "/oauth2/auth?"+query, nil)
	require.Equal(t, "/login", location(t, w).Path)
	cookie := sessionCookie(t, w)

	f.login(t, cookie)

	w = f.get(t, "/", cookie)
	loc := location(t, w)
	code := loc.Query().Get("code")
	require.NotEmpty(t, code)
	return code, cookie
}

func TestNew_RefusesMissingCollaborators(t *testing.T) {
	registry := scopes.NewRegistry(nil)
	clientRepo := fakeclientrepo.NewFakeClientRepo()
	userRepo := fakeuserrepo.NewFakeUserRepo()

	t.Run("missing client registry", func(t *testing.T) {
		_, err := server.New(config.New(), server.Deps{Scopes: registry, Users: userRepo})
		require.Error(t, err)
	})

	t.Run("missing scope registry", func(t *testing.T) {
		_, err := server.New(config.New(), server.Deps{Clients: clientRepo, Users: userRepo})
		require.Error(t, err)
	})

	t.Run("missing user provider", func(t *testing.T) {
		_, err := server.New(config.New(), server.Deps{Clients: clientRepo, Scopes: registry})
		require.Error(t, err)
	})

	t.Run("all present", func(t *testing.T) {
		_, err := server.New(config.New(), server.Deps{Clients: clientRepo, Scopes: registry, Users: userRepo})
		require.NoError(t, err)
	})
}

func TestRoot_Favicon(t *testing.T) {
	f := newFixture(t)
	w := f.get(t, "/favicon.ico", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoot_UnknownPath(t *testing.T) {
	f := newFixture(t)
	w := f.get(t, "/nothing-here", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"invalid_request"}`, w.Body.String())
}

func TestLoginPage(t *testing.T) {
	f := newFixture(t)

	t.Run("without a session", func(t *testing.T) {
		w := f.get(t, "/login", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("with a flow session", func(t *testing.T) {
		w := f.get(t, "/oauth2/auth?client_id=c1&redirect_uri="+url.QueryEscape(testCallback)+"&response_type=code&scope=profile", nil)
		cookie := sessionCookie(t, w)

		page := f.get(t, "/login", cookie)
		require.Equal(t, http.StatusOK, page.Code)
		require.Contains(t, page.Body.String(), `name="username"`)
		require.Contains(t, page.Body.String(), `name="password"`)
	})
}

func TestLoginSubmit_BadCredentials(t *testing.T) {
	f := newFixture(t)
	w := f.get(t, "/oauth2/auth?client_id=c1&redirect_uri="+url.QueryEscape(testCallback)+"&response_type=code&scope=profile", nil)
	cookie := sessionCookie(t, w)

	submit := f.postForm(t, "/login", url.Values{
		"username": {"john"},
		"password": {"wrong"},
	}, cookie)
	loc := location(t, submit)
	require.Equal(t, "/login", loc.Path)
	require.NotEmpty(t, loc.Query().Get("error"))

	// the session is still not pre-authorized
	root := f.get(t, "/", cookie)
	require.Equal(t, http.StatusBadRequest, root.Code)
}

func TestLoginSubmit_LockoutAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	w := f.get(t, "/oauth2/auth?client_id=c1&redirect_uri="+url.QueryEscape(testCallback)+"&response_type=code&scope=profile", nil)
	cookie := sessionCookie(t, w)

	for i := 0; i < 5; i++ {
		f.postForm(t, "/login", url.Values{
			"username": {"john"},
			"password": {"wrong"},
		}, cookie)
	}

	// correct password no longer helps
	submit := f.postForm(t, "/login", url.Values{
		"username": {"john"},
		"password": {testPassword},
	}, cookie)
	require.Equal(t, "/login", location(t, submit).Path)
}

func TestLoginSubmit_VanishedUserReadsAsFailure(t *testing.T) {
	f := newFixture(t)
	w := f.get(t, "/oauth2/auth?client_id=c1&redirect_uri="+url.QueryEscape(testCallback)+"&response_type=code&scope=profile", nil)
	cookie := sessionCookie(t, w)

	submit := f.postForm(t, "/login", url.Values{
		"username": {"ghost"},
		"password": {"whatever"},
	}, cookie)
	require.Equal(t, "/login", location(t, submit).Path)
}
