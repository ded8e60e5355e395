// Package providers defines the interface to the external identity provider
// and the profile type returned by its profile endpoint.
package providers

import (
	"context"

	"golang.org/x/oauth2"
)

// Provider defines the identity provider operations the login flow needs.
// Uses golang.org/x/oauth2.Token directly instead of custom token types.
// All operations are single attempt: no retries, no caching. Failures are
// returned as errors and the caller decides the next state.
type Provider interface {
	// Name returns the provider name (e.g., "msgraph")
	Name() string

	// AuthorizationURL generates the URL to redirect users for authentication
	AuthorizationURL() string

	// ExchangeCode exchanges an authorization code for a token pair
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)

	// Refresh exchanges a refresh token for a new token pair without
	// user interaction
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// FetchProfile exchanges an access token for the caller's profile at
	// the provider's profile endpoint
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)

	// LogoutURL returns the provider's logout URL with a post-logout
	// redirect back to the given URL. Visiting it ends the provider's own
	// browser session, preventing silent re-authentication.
	LogoutURL(postLogoutRedirect string) string
}

// Profile represents the external identity returned by the provider's
// profile endpoint for a given access token. Ephemeral: fetched per request,
// never cached beyond the request's lifetime.
type Profile struct {
	// ID is the unique user identifier at the provider
	ID string

	// Email is the user's email address, the join key to local accounts
	Email string

	// DisplayName is the user's display name
	DisplayName string
}
