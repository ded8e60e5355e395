// Package mock provides a mock implementation of the Provider interface for testing.
package mock

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/russellramey/ms-graph-wplogin/providers"
)

// Provider is a mock implementation of the providers.Provider interface.
// Behaviour is customised by assigning the func fields; unset fields fall
// back to safe defaults that emulate a healthy identity provider.
type Provider struct {
	// NameFunc is called when Name() is invoked
	NameFunc func() string

	// AuthorizationURLFunc is called when AuthorizationURL() is invoked
	AuthorizationURLFunc func() string

	// ExchangeCodeFunc is called when ExchangeCode() is invoked
	ExchangeCodeFunc func(ctx context.Context, code string) (*oauth2.Token, error)

	// RefreshFunc is called when Refresh() is invoked
	RefreshFunc func(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// FetchProfileFunc is called when FetchProfile() is invoked
	FetchProfileFunc func(ctx context.Context, accessToken string) (*providers.Profile, error)

	// LogoutURLFunc is called when LogoutURL() is invoked
	LogoutURLFunc func(postLogoutRedirect string) string

	// CallCounts tracks how many times each method was called
	CallCounts map[string]int

	// mu protects CallCounts from concurrent access
	mu sync.Mutex
}

// NewProvider creates a new mock provider with default implementations
func NewProvider() *Provider {
	return &Provider{
		CallCounts: make(map[string]int),
		NameFunc: func() string {
			return "mock"
		},
		AuthorizationURLFunc: func() string {
			return "https://mock.example.com/authorize?response_type=code"
		},
		ExchangeCodeFunc: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return &oauth2.Token{
				AccessToken:  "mock-access-token",
				TokenType:    "Bearer",
				RefreshToken: "mock-refresh-token",
			}, nil
		},
		RefreshFunc: func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			return &oauth2.Token{
				AccessToken:  "new-mock-access-token",
				TokenType:    "Bearer",
				RefreshToken: "new-mock-refresh-token",
			}, nil
		},
		FetchProfileFunc: func(ctx context.Context, accessToken string) (*providers.Profile, error) {
			return &providers.Profile{
				ID:          "mock-user-123",
				Email:       "mock@example.com",
				DisplayName: "Mock User",
			}, nil
		},
		LogoutURLFunc: func(postLogoutRedirect string) string {
			return "https://mock.example.com/logout?post_logout_redirect_uri=" + postLogoutRedirect
		},
	}
}

// record bumps the call counter and returns without holding the lock, so a
// user function may call other mock methods without deadlocking.
func (m *Provider) record(method string) {
	m.mu.Lock()
	m.CallCounts[method]++
	m.mu.Unlock()
}

// Calls returns how many times the given method was invoked.
func (m *Provider) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCounts[method]
}

// Name returns the provider name
func (m *Provider) Name() string {
	m.record("Name")
	if m.NameFunc == nil {
		return "mock"
	}
	return m.NameFunc()
}

// AuthorizationURL generates the URL to redirect users for authentication
func (m *Provider) AuthorizationURL() string {
	m.record("AuthorizationURL")
	if m.AuthorizationURLFunc == nil {
		return ""
	}
	return m.AuthorizationURLFunc()
}

// ExchangeCode exchanges an authorization code for a token pair
func (m *Provider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	m.record("ExchangeCode")
	if m.ExchangeCodeFunc == nil {
		return nil, context.Canceled
	}
	return m.ExchangeCodeFunc(ctx, code)
}

// Refresh exchanges a refresh token for a new token pair
func (m *Provider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	m.record("Refresh")
	if m.RefreshFunc == nil {
		return nil, context.Canceled
	}
	return m.RefreshFunc(ctx, refreshToken)
}

// FetchProfile exchanges an access token for the caller's profile
func (m *Provider) FetchProfile(ctx context.Context, accessToken string) (*providers.Profile, error) {
	m.record("FetchProfile")
	if m.FetchProfileFunc == nil {
		return nil, context.Canceled
	}
	return m.FetchProfileFunc(ctx, accessToken)
}

// LogoutURL returns the provider's logout URL
func (m *Provider) LogoutURL(postLogoutRedirect string) string {
	m.record("LogoutURL")
	if m.LogoutURLFunc == nil {
		return ""
	}
	return m.LogoutURLFunc(postLogoutRedirect)
}
