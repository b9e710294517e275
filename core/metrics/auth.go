package metrics

import (
	"crypto/subtle"
	"net/http"
)

// BasicAuthenticator guards a handler with HTTP Basic authentication
// against a single username and password.
type BasicAuthenticator struct {
	username string
	password string
	realm    string

	handler http.Handler
}

func (b BasicAuthenticator) authenticated(r *http.Request) bool {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	u := subtle.ConstantTimeCompare([]byte(user), []byte(b.username))
	p := subtle.ConstantTimeCompare([]byte(pass), []byte(b.password))
	return u&p == 1
}

func (b BasicAuthenticator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !b.authenticated(r) {
		w.Header().Set("WWW-Authenticate", `Basic realm="`+b.realm+`"`)
		w.WriteHeader(401)
		w.Write([]byte("# unauthorised\n"))
		return
	}
	b.handler.ServeHTTP(w, r)
}
