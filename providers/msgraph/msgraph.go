// Package msgraph implements the provider interface for Microsoft Entra ID
// (Azure AD) using the v2.0 endpoints and the Microsoft Graph profile API.
package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/russellramey/ms-graph-wplogin/internal/util"
	"github.com/russellramey/ms-graph-wplogin/providers"
)

// DefaultGraphBaseURL is the Microsoft Graph API base URL.
const DefaultGraphBaseURL = "https://graph.microsoft.com"

// profileEndpointPath is the Graph path for the calling user's profile.
const profileEndpointPath = "/v1.0/me"

// Provider implements the providers.Provider interface for Entra ID.
// Token grants go through the tenant's v2.0 token endpoint; profile lookups
// go to Microsoft Graph with bearer auth.
type Provider struct {
	config         *oauth2.Config
	tenantID       string
	graphBaseURL   string
	logoutEndpoint string
	httpClient     *http.Client
	requestTimeout time.Duration
}

// Config holds Entra ID provider configuration
type Config struct {
	// TenantID is the Entra ID tenant identifier (required)
	TenantID string

	// ClientID is the OAuth client ID (required)
	ClientID string

	// ClientSecret is the OAuth client secret (required)
	ClientSecret string

	// RedirectURL is the canonical login URL of the host application,
	// with no query string (required)
	RedirectURL string

	// Scopes are the Graph scopes to request (required)
	Scopes []string

	// Endpoint overrides the tenant's authorize/token endpoints.
	// Zero value means the standard login.microsoftonline.com endpoints.
	// Intended for tests against local HTTP servers.
	Endpoint oauth2.Endpoint

	// GraphBaseURL overrides the Graph API base URL. Intended for tests.
	GraphBaseURL string

	// LogoutEndpoint overrides the tenant's logout endpoint. Intended for tests.
	LogoutEndpoint string

	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client

	// RequestTimeout is the timeout for provider API calls (default: 30s)
	RequestTimeout time.Duration
}

// NewProvider creates a new Entra ID provider
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg.TenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("redirect URL is required")
	}
	if len(cfg.Scopes) == 0 {
		return nil, fmt.Errorf("at least one scope is required")
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = microsoft.AzureADEndpoint(cfg.TenantID)
	}

	graphBaseURL := cfg.GraphBaseURL
	if graphBaseURL == "" {
		graphBaseURL = DefaultGraphBaseURL
	}

	logoutEndpoint := cfg.LogoutEndpoint
	if logoutEndpoint == "" {
		logoutEndpoint = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/logout", cfg.TenantID)
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout == 0 {
		requestTimeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		tenantID:       cfg.TenantID,
		graphBaseURL:   strings.TrimRight(graphBaseURL, "/"),
		logoutEndpoint: logoutEndpoint,
		httpClient:     httpClient,
		requestTimeout: requestTimeout,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "msgraph"
}

// AuthorizationURL generates the Entra ID authorization URL. The
// resource_mode=query parameter makes the provider deliver the
// authorization code in the redirect's query string.
func (p *Provider) AuthorizationURL() string {
	return p.config.AuthCodeURL("",
		oauth2.SetAuthURLParam("resource_mode", "query"),
	)
}

// ensureContextTimeout ensures the context has a deadline, adding one if needed.
func (p *Provider) ensureContextTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.requestTimeout)
}

// ExchangeCode exchanges an authorization code for a token pair.
// Single attempt; any failure is returned to the caller.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := p.ensureContextTimeout(ctx)
	defer cancel()

	// Use custom HTTP client
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	// Entra ID expects the scope parameter on token requests too
	token, err := p.config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("scope", strings.Join(p.config.Scopes, " ")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return validateTokenPair(token)
}

// tokenResponse is the tenant's token endpoint response body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Refresh exchanges a refresh token for a new token pair. The form is
// posted directly because the tenant expects scope and redirect_uri on
// every grant, and the standard oauth2 refresh omits both.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx, cancel := p.ensureContextTimeout(ctx)
	defer cancel()

	form := url.Values{
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"scope":         {strings.Join(p.config.Scopes, " ")},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"redirect_uri":  {p.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refresh request failed with status %d: %s",
			resp.StatusCode, util.SafeTruncate(string(body), 256))
	}

	var raw tokenResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  raw.AccessToken,
		TokenType:    raw.TokenType,
		RefreshToken: raw.RefreshToken,
	}
	if raw.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(raw.ExpiresIn) * time.Second)
	}

	return validateTokenPair(token)
}

// validateTokenPair rejects token responses missing either half of the pair.
// A response without a refresh token would strand the browser with no way to
// re-authenticate silently once the access token expires.
func validateTokenPair(token *oauth2.Token) (*oauth2.Token, error) {
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access token")
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("token response missing refresh token")
	}
	return token, nil
}

// graphProfile is the subset of the Graph /me response the flow consumes.
type graphProfile struct {
	ID                string `json:"id"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	DisplayName       string `json:"displayName"`
}

// FetchProfile exchanges an access token for the caller's profile at the
// Graph /me endpoint. The email is taken from the mail attribute, falling
// back to userPrincipalName for accounts without a mailbox.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (*providers.Profile, error) {
	ctx, cancel := p.ensureContextTimeout(ctx)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.graphBaseURL + profileEndpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("profile request failed with status %d: %s",
			resp.StatusCode, util.SafeTruncate(string(body), 256))
	}

	var raw graphProfile
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse user profile: %w", err)
	}

	email := raw.Mail
	if email == "" {
		email = raw.UserPrincipalName
	}

	if raw.ID == "" || email == "" {
		return nil, fmt.Errorf("profile response missing id or email")
	}

	return &providers.Profile{
		ID:          raw.ID,
		Email:       email,
		DisplayName: raw.DisplayName,
	}, nil
}

// LogoutURL returns the tenant's logout URL with a post-logout redirect.
func (p *Provider) LogoutURL(postLogoutRedirect string) string {
	v := url.Values{}
	if postLogoutRedirect != "" {
		v.Set("post_logout_redirect_uri", postLogoutRedirect)
	}
	if len(v) == 0 {
		return p.logoutEndpoint
	}
	return p.logoutEndpoint + "?" + v.Encode()
}
