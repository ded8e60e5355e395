// Package testutil provides shared test helpers: a fake Entra ID server
// covering the token and Graph profile endpoints, and token builders.
package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// GraphProfile mirrors the fields of the Graph /me response consumed by
// the login flow.
type GraphProfile struct {
	ID                string `json:"id"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	DisplayName       string `json:"displayName"`
}

// EntraServer is a fake Entra ID tenant backed by httptest. It serves the
// token endpoint at /token, the logout endpoint at /logout and the Graph
// profile endpoint at /v1.0/me, recording every request for assertions.
type EntraServer struct {
	Server *httptest.Server

	mu              sync.Mutex
	tokenRequests   []url.Values
	profileRequests []string

	// AccessToken and RefreshToken are returned by every successful grant.
	AccessToken  string
	RefreshToken string

	// Profile is returned by the profile endpoint.
	Profile GraphProfile

	// FailTokenGrant makes the token endpoint reject every grant.
	FailTokenGrant bool

	// FailProfile makes the profile endpoint return 401.
	FailProfile bool
}

// NewEntraServer starts a fake tenant with sane defaults. Callers own the
// returned server and must Close it.
func NewEntraServer() *EntraServer {
	s := &EntraServer{
		AccessToken:  "entra-access-" + RandomString(8),
		RefreshToken: "entra-refresh-" + RandomString(8),
		Profile: GraphProfile{
			ID:                "graph-user-1",
			Mail:              "admin@example.com",
			UserPrincipalName: "admin@example.onmicrosoft.com",
			DisplayName:       "Admin Example",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/v1.0/me", s.handleProfile)
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.Server = httptest.NewServer(mux)
	return s
}

// Close shuts the fake tenant down.
func (s *EntraServer) Close() {
	s.Server.Close()
}

// Endpoint returns the oauth2 endpoint pointing at the fake tenant.
func (s *EntraServer) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   s.Server.URL + "/authorize",
		TokenURL:  s.Server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// GraphBaseURL returns the fake Graph API base URL.
func (s *EntraServer) GraphBaseURL() string {
	return s.Server.URL
}

// LogoutEndpoint returns the fake logout endpoint.
func (s *EntraServer) LogoutEndpoint() string {
	return s.Server.URL + "/logout"
}

// TokenRequests returns a copy of the recorded token endpoint form bodies.
func (s *EntraServer) TokenRequests() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]url.Values, len(s.tokenRequests))
	copy(out, s.tokenRequests)
	return out
}

// ProfileRequests returns the bearer tokens seen by the profile endpoint.
func (s *EntraServer) ProfileRequests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.profileRequests))
	copy(out, s.profileRequests)
	return out
}

func (s *EntraServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.tokenRequests = append(s.tokenRequests, r.PostForm)
	fail := s.FailTokenGrant
	access, refresh := s.AccessToken, s.RefreshToken
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "the grant is expired or revoked",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    3600,
	})
}

func (s *EntraServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.profileRequests = append(s.profileRequests, r.Header.Get("Authorization"))
	fail := s.FailProfile
	profile := s.Profile
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "InvalidAuthenticationToken"},
		})
		return
	}

	_ = json.NewEncoder(w).Encode(profile)
}

// GenerateTestToken creates a token pair with a one hour expiry.
func GenerateTestToken() *oauth2.Token {
	return GenerateTestTokenWithExpiry(time.Now().Add(1 * time.Hour))
}

// GenerateTestTokenWithExpiry creates a token pair with a specific expiry.
func GenerateTestTokenWithExpiry(expiry time.Time) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "access-" + RandomString(16),
		TokenType:    "Bearer",
		RefreshToken: "refresh-" + RandomString(16),
		Expiry:       expiry,
	}
}

// RandomString returns n bytes of randomness as unpadded base64url.
func RandomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("testutil: rand.Read failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
