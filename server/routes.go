package server

// Route path constants. The OAuth2 endpoint paths are fixed; the login
// dialog path comes from configuration.
const (
	RouteOAuth2Auth     = "/oauth2/auth"
	RouteOAuth2Token    = "/oauth2/token"
	RouteOAuth2UserInfo = "/oauth2/userinfo"
	RouteOAuth2Revoke   = "/oauth2/revoke"

	routeFavicon = "/favicon.ico"
)

// Supported authorization grants (response_type values)
const (
	ResponseTypeCode  = "code"
	ResponseTypeToken = "token"
)

func (s *Server) initRoutes() {
	loginPath := s.config.GetLoginPath()

	s.mux.HandleFunc(RouteOAuth2Auth, s.Authorize())
	s.mux.HandleFunc("POST "+RouteOAuth2Token, s.Token())
	s.mux.HandleFunc(RouteOAuth2UserInfo, s.UserInfo())
	s.mux.HandleFunc("POST "+RouteOAuth2Revoke, s.Revoke())

	s.mux.HandleFunc("GET "+loginPath, s.LoginPage())
	s.mux.HandleFunc("POST "+loginPath, s.LoginSubmit())

	// Everything else, including "/", where a pre-authorized session
	// completes its flow.
	s.mux.HandleFunc("/", s.Root())
}
