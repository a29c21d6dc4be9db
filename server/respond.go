package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const contentTypeJSON = "application/json; charset=utf-8"

// writeJSON serializes v with no-store caching, the default for
// everything this server emits.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// jsonError writes the generic pre-redirect-validation error body. No
// redirect is ever attempted before a callback URL has been validated;
// that would make the server an open redirector.
func jsonError(w http.ResponseWriter, code string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": code})
}

// redirectError reports an error to a validated callback via an error
// query parameter, echoing state when present.
func redirectError(w http.ResponseWriter, r *http.Request, callback, code, state string) {
	location := callback + "?error=" + url.QueryEscape(code)
	if state != "" {
		location += "&state=" + url.QueryEscape(state)
	}
	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, location, http.StatusFound)
}

// redirect issues a plain found-redirect with caching disabled.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, location, http.StatusFound)
}

// wwwAuthenticateError writes an empty-body error response carrying a
// WWW-Authenticate header, as the userinfo endpoint requires.
func wwwAuthenticateError(w http.ResponseWriter, status int, scheme, code string) {
	w.Header().Set("WWW-Authenticate", scheme+` error="`+code+`"`)
	w.WriteHeader(status)
}

// queryParams collects the request's query parameters, dropping empty
// values so a present-but-blank parameter reads as absent.
func queryParams(r *http.Request) map[string]string {
	return collapse(r.URL.Query())
}

// formParams collects the form-encoded body parameters the same way.
func formParams(r *http.Request) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return collapse(r.PostForm), nil
}

func collapse(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for name := range values {
		if v := values.Get(name); v != "" {
			params[name] = v
		}
	}
	return params
}

// isAbsoluteURI checks for a scheme separator. Redirect URIs must be
// absolute before they are even compared against the registered
// callback.
func isAbsoluteURI(uri string) bool {
	return len(strings.Split(uri, "://")) == 2
}

// appendQuery attaches name/value pairs to a callback URL, escaping the
// values. pairs alternates name, value; empty values are skipped.
func appendQuery(callback string, pairs ...string) string {
	separator := "?"
	if strings.Contains(callback, "?") {
		separator = "&"
	}
	var b strings.Builder
	b.WriteString(callback)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		b.WriteString(separator)
		separator = "&"
		b.WriteString(pairs[i])
		b.WriteString("=")
		b.WriteString(url.QueryEscape(pairs[i+1]))
	}
	return b.String()
}
