package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

const (
	OAuthClientID     = "fakeClientID"
	OAuthClientSecret = "fakeClientSecret"
	OAuthVerifier     = "abc123"
	OAuthRefreshToken = "refresh_token"
	OAuthGUID         = "FAKEGUID1234"
)

// FakeOAuthServer issues tokens the way Yahoo's get_token endpoint does. Every
// token it hands out is access_token_<n>, n counting from 1.
type FakeOAuthServer struct {
	s *httptest.Server

	mu       sync.Mutex
	issued   int
	grants   []string
	failures bool
}

func NewFakeOAuthServer() *FakeOAuthServer {
	f := &FakeOAuthServer{}

	r := chi.NewRouter()
	r.Post("/oauth2/get_token", f.token)

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeOAuthServer) Close() {
	f.s.Close()
}

func (f *FakeOAuthServer) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   fmt.Sprintf("%s/oauth2/request_auth", f.s.URL),
		TokenURL:  fmt.Sprintf("%s/oauth2/get_token", f.s.URL),
		AuthStyle: oauth2.AuthStyleInHeader,
	}
}

// Grants returns the grant_type of every token request received so far.
func (f *FakeOAuthServer) Grants() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.grants...)
}

// FailRefresh makes every following token request fail.
func (f *FakeOAuthServer) FailRefresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = true
}

func (f *FakeOAuthServer) token(w http.ResponseWriter, r *http.Request) {
	id, secret, ok := r.BasicAuth()
	if !ok || id != OAuthClientID || secret != OAuthClientSecret {
		writeOAuthError(w, http.StatusUnauthorized, "invalid_client")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	grant := r.PostForm.Get("grant_type")
	f.grants = append(f.grants, grant)
	if f.failures {
		writeOAuthError(w, http.StatusBadRequest, "invalid_grant")
		return
	}

	switch grant {
	case "authorization_code":
		if r.PostForm.Get("code") != OAuthVerifier {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant")
			return
		}
	case "refresh_token":
		if r.PostForm.Get("refresh_token") != OAuthRefreshToken {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant")
			return
		}
	default:
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}

	f.issued++
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"access_token": "access_token_%d",
		"refresh_token": %q,
		"token_type": "bearer",
		"expires_in": 3600,
		"xoauth_yahoo_guid": %q
	}`, f.issued, OAuthRefreshToken, OAuthGUID)
}

func writeOAuthError(w http.ResponseWriter, status int, code string) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, code)
}
