package graphsso

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/russellramey/ms-graph-wplogin/instrumentation"
)

// Default cookie lifetimes. The access token cookie mirrors the provider's
// one hour access token lifetime; the refresh token cookie lives three days.
const (
	DefaultAccessCookieTTL  = 3600 * time.Second
	DefaultRefreshCookieTTL = 259200 * time.Second
)

// DefaultScopes are the Graph scopes requested when no override is
// configured: the user's basic profile plus offline access, which is what
// makes the provider issue refresh tokens.
func DefaultScopes() []string {
	return []string{"user.read", "offline_access"}
}

// Config holds the SSO bridge configuration. It is built once at process
// start and treated as immutable afterwards; every component receives it
// explicitly rather than reading ambient state.
type Config struct {
	// TenantID is the Entra ID (Azure AD) tenant identifier (required).
	TenantID string

	// ClientID is the OAuth client ID registered with the tenant (required).
	ClientID string

	// ClientSecret is the OAuth client secret (required). It is also the
	// keying material for the cookie namespace derivation.
	ClientSecret string

	// Scopes are the Graph scopes to request. Empty means DefaultScopes().
	Scopes []string

	// AccessCookieTTL is the lifetime of the access token cookie.
	// Default: DefaultAccessCookieTTL.
	AccessCookieTTL time.Duration

	// RefreshCookieTTL is the lifetime of the refresh token cookie.
	// Default: DefaultRefreshCookieTTL.
	RefreshCookieTTL time.Duration

	// RateLimit configures per-IP rate limiting on the login endpoint.
	RateLimit RateLimitConfig

	// EnableAuditLogging enables security audit logging of login, admission
	// and logout events (sensitive identifiers are hashed).
	EnableAuditLogging bool

	// Logger for structured logging (optional, uses slog.Default if nil).
	Logger *slog.Logger

	// Instrumentation provides metrics and tracing. Optional; when nil a
	// disabled (no-op) instance is created.
	Instrumentation *instrumentation.Instrumentation

	// HTTPClient is a custom HTTP client for provider requests. Optional;
	// useful for custom timeouts or transport instrumentation.
	HTTPClient *http.Client
}

// RateLimitConfig holds login endpoint rate limiting configuration.
type RateLimitConfig struct {
	// Rate is requests per second allowed per IP. Zero disables limiting.
	Rate int

	// Burst is the maximum burst size allowed per IP.
	Burst int

	// TrustProxy enables trusting X-Forwarded-For and X-Real-IP headers.
	// Only enable behind a trusted reverse proxy.
	TrustProxy bool

	// TrustedProxyCount is the number of trusted proxies in front of the
	// host application. Used with TrustProxy to pick the client IP out of
	// X-Forwarded-For. Default: 1.
	TrustedProxyCount int
}

// configEnv holds raw environment values for the bridge configuration.
type configEnv struct {
	TenantID     string   `env:"MSGWPL_TENANT_ID"`
	ClientID     string   `env:"MSGWPL_CLIENT_ID"`
	ClientSecret string   `env:"MSGWPL_CLIENT_SECRET"`
	Scopes       []string `env:"MSGWPL_CLIENT_SCOPES" envSeparator:","`

	AccessCookieTTL  time.Duration `env:"MSGWPL_ACCESS_COOKIE_TTL" envDefault:"1h"`
	RefreshCookieTTL time.Duration `env:"MSGWPL_REFRESH_COOKIE_TTL" envDefault:"72h"`

	RateLimitRate  int  `env:"MSGWPL_RATE_LIMIT"`
	RateLimitBurst int  `env:"MSGWPL_RATE_LIMIT_BURST"`
	TrustProxy     bool `env:"MSGWPL_TRUST_PROXY"`
	AuditLogging   bool `env:"MSGWPL_AUDIT_LOGGING"`
}

// LoadConfigFromEnv builds a Config from MSGWPL_* environment variables.
// A missing credential does not produce an error: the resulting config
// simply reports Enabled() == false and Install becomes a no-op. This is
// the fail-closed default: misconfiguration must neither crash the host
// application nor silently fall back to unmanaged local login.
func LoadConfigFromEnv() (*Config, error) {
	var raw configEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		TenantID:           raw.TenantID,
		ClientID:           raw.ClientID,
		ClientSecret:       raw.ClientSecret,
		Scopes:             raw.Scopes,
		AccessCookieTTL:    raw.AccessCookieTTL,
		RefreshCookieTTL:   raw.RefreshCookieTTL,
		EnableAuditLogging: raw.AuditLogging,
		RateLimit: RateLimitConfig{
			Rate:       raw.RateLimitRate,
			Burst:      raw.RateLimitBurst,
			TrustProxy: raw.TrustProxy,
		},
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero-valued optional fields.
func (c *Config) applyDefaults() {
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultScopes()
	}
	if c.AccessCookieTTL == 0 {
		c.AccessCookieTTL = DefaultAccessCookieTTL
	}
	if c.RefreshCookieTTL == 0 {
		c.RefreshCookieTTL = DefaultRefreshCookieTTL
	}
	if c.RateLimit.TrustedProxyCount == 0 {
		c.RateLimit.TrustedProxyCount = 1
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Enabled reports whether the configuration is complete. An incomplete
// configuration disables login interception for the process lifetime.
// Scopes are not checked here: applyDefaults fills them.
func (c *Config) Enabled() bool {
	if c == nil {
		return false
	}
	return c.TenantID != "" && c.ClientID != "" && c.ClientSecret != ""
}
