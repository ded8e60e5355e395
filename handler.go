// Package graphsso bridges a host web application's login to Microsoft
// Entra ID via OAuth2 and Microsoft Graph. Users authenticate upstream; the
// verified identity is mapped onto a pre-existing local account by email and
// admitted only when the account holds an elevated role. Token state lives
// entirely in browser cookies, so the bridge needs no server-side store and
// scales out without shared infrastructure.
package graphsso

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/russellramey/ms-graph-wplogin/instrumentation"
	"github.com/russellramey/ms-graph-wplogin/internal/util"
	"github.com/russellramey/ms-graph-wplogin/providers"
	"github.com/russellramey/ms-graph-wplogin/providers/msgraph"
	"github.com/russellramey/ms-graph-wplogin/security"
)

// User-facing terminal page messages
const (
	deniedMessage        = "Sorry, you are not allowed to access this part of the site."
	passwordResetMessage = "Password resets are managed by your organization's identity provider."
)

// Handler runs the login state machine. One instance serves every request;
// it holds no per-request state and all session/token state lives in
// client cookies, so no cross-request coordination is needed.
type Handler struct {
	config      *Config
	host        Host
	provider    providers.Provider
	bridge      *sessionBridge
	auditor     *security.Auditor
	rateLimiter *security.RateLimiter
	inst        *instrumentation.Instrumentation
	tracer      trace.Tracer
	logger      *slog.Logger
	namespace   string
}

// New creates a Handler wired to the Entra ID provider described by cfg.
// The redirect URI is the host's canonical login URL with no query string.
func New(cfg *Config, host Host) (*Handler, error) {
	if host == nil {
		return nil, fmt.Errorf("host is required")
	}
	if !cfg.Enabled() {
		return nil, ErrConfigInvalid("tenant ID, client ID and client secret are all required")
	}
	cfg.applyDefaults()

	provider, err := msgraph.NewProvider(&msgraph.Config{
		TenantID:     cfg.TenantID,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  util.NormalizeURL(host.LoginURL()),
		Scopes:       cfg.Scopes,
		HTTPClient:   cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return NewWithProvider(cfg, host, provider)
}

// NewWithProvider creates a Handler using a caller-supplied provider.
// Mainly useful in tests and for non-standard provider endpoints.
func NewWithProvider(cfg *Config, host Host, provider providers.Provider) (*Handler, error) {
	if host == nil {
		return nil, fmt.Errorf("host is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if !cfg.Enabled() {
		return nil, ErrConfigInvalid("tenant ID, client ID and client secret are all required")
	}
	cfg.applyDefaults()

	inst := cfg.Instrumentation
	if inst == nil {
		var err error
		inst, err = instrumentation.New(instrumentation.Config{Enabled: false})
		if err != nil {
			return nil, fmt.Errorf("failed to create instrumentation: %w", err)
		}
	}

	auditor := security.NewAuditor(cfg.Logger, cfg.EnableAuditLogging)

	var limiter *security.RateLimiter
	if cfg.RateLimit.Rate > 0 {
		limiter = security.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst, cfg.Logger)
	}

	h := &Handler{
		config:      cfg,
		host:        host,
		provider:    provider,
		auditor:     auditor,
		rateLimiter: limiter,
		inst:        inst,
		tracer:      inst.Tracer("login"),
		logger:      cfg.Logger,
		namespace:   CookieNamespace(cfg.ClientSecret, cookieHost(host)),
	}
	h.bridge = &sessionBridge{
		host:    host,
		auditor: auditor,
		logger:  cfg.Logger,
	}
	return h, nil
}

// Close releases background resources (the rate limiter's cleanup loop).
func (h *Handler) Close() {
	if h.rateLimiter != nil {
		h.rateLimiter.Stop()
	}
}

// CookieNames returns the namespaced access and refresh cookie names.
// Exposed for the host's own cookie bookkeeping.
func (h *Handler) CookieNames() (access, refresh string) {
	return h.accessCookieName(), h.refreshCookieName()
}

// ServeLogin is the login endpoint interceptor. Every request runs the
// state machine in strict precedence order; every reachable branch ends the
// request with a redirect, a terminal page or a rate limit response. There
// is no fall-through to the host's default login rendering.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := security.EnsureRequestID(r)
	ctx := security.WithRequestID(r.Context(), requestID)
	r = r.WithContext(ctx)
	w.Header().Set(security.RequestIDHeader, requestID)

	ctx, span := h.tracer.Start(ctx, "sso.login")
	defer span.End()
	r = r.WithContext(ctx)

	clientIP := security.GetClientIP(r, h.config.RateLimit.TrustProxy, h.config.RateLimit.TrustedProxyCount)
	if h.inst.ShouldLogClientIPs() {
		instrumentation.AddSecurityAttributes(span, clientIP)
	}

	outcome := "redirect"
	defer func() {
		instrumentation.AddLoginAttributes(span, "", outcome)
		h.metrics().RecordLoginRequest(ctx, outcome, durationMs(start))
	}()

	if h.rateLimiter != nil && !h.rateLimiter.Allow(clientIP) {
		outcome = "rate_limited"
		h.auditor.LogRateLimitExceeded(clientIP)
		h.metrics().RecordRateLimitExceeded(ctx)
		security.SetSecurityHeaders(w, h.host.SiteURL())
		http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
		return
	}

	// State 1: logout takes precedence over everything else.
	if h.host.IsLogoutSignal(r) {
		outcome = "logout"
		h.serveLogout(w, r, clientIP)
		return
	}

	// State 2: already-authenticated fast path. The access token cookie is
	// revalidated against the provider on every hit; a stale session does
	// not ride through on the local cookie alone.
	if user := h.host.CurrentUser(r); user != nil {
		if accessToken, ok := h.readAccessCookie(r); ok {
			identity, err := h.fetchProfile(ctx, accessToken)
			if err == nil && h.bridge.Verify(user, identity) {
				outcome = "fast_path"
				h.redirect(w, r, h.host.DashboardURL())
				return
			}
		}
	}

	if refreshToken, ok := h.readRefreshCookie(r); ok {
		// State 3: refresh-token fast path. A failed refresh is not a
		// denial; the browser is simply sent back through the provider.
		token, err := h.refreshGrant(ctx, refreshToken)
		if err == nil {
			h.setTokenCookies(w, token)
			h.auditor.LogTokenRefreshed(clientIP)
			outcome = h.completeLogin(w, r, token.AccessToken, "refresh_token", clientIP)
			return
		}
		h.logger.Debug("Refresh grant failed, redirecting to provider", "error", err)
	} else if code := r.URL.Query().Get("code"); code != "" {
		// State 4: authorization code path. An invalid or expired code is
		// a hard denial, not a silent fallback.
		token, err := h.codeGrant(ctx, code)
		if err != nil {
			outcome = "error"
			h.auditor.LogCodeRejected(clientIP, err.Error())
			h.terminalError(w, r, deniedMessage)
			return
		}
		h.setTokenCookies(w, token)
		h.auditor.LogCodeExchanged(clientIP)
		outcome = h.completeLogin(w, r, token.AccessToken, "authorization_code", clientIP)
		return
	}

	// State 5: default, redirect to the provider's authorize endpoint.
	h.metrics().RecordAuthorizeRedirect(ctx)
	h.redirect(w, r, h.provider.AuthorizationURL())
}

// ServePasswordReset rejects every local password reset attempt. A local
// password reset would bypass the external identity provider entirely.
func (h *Handler) ServePasswordReset(w http.ResponseWriter, r *http.Request) {
	clientIP := security.GetClientIP(r, h.config.RateLimit.TrustProxy, h.config.RateLimit.TrustedProxyCount)
	h.auditor.LogPasswordResetBlocked(clientIP)
	h.metrics().RecordPasswordResetBlocked(r.Context())
	h.terminalError(w, r, passwordResetMessage)
}

// completeLogin finishes the two token-bearing branches: fetch the profile,
// admit the identity, and either redirect to the dashboard or render the
// terminal denial page. Returns the outcome label for metrics.
func (h *Handler) completeLogin(w http.ResponseWriter, r *http.Request, accessToken, grant, clientIP string) string {
	ctx := r.Context()

	identity, err := h.fetchProfile(ctx, accessToken)
	if err != nil {
		h.auditor.LogProfileFetchFailed(clientIP, err.Error())
		h.metrics().RecordLoginDenied(ctx, ErrorCodeProfileFetchFailed)
		h.terminalError(w, r, deniedMessage)
		return "denied"
	}

	account, err := h.bridge.Admit(w, r, identity)
	if err != nil {
		reason := "session_error"
		var fe *FlowError
		if errors.As(err, &fe) {
			reason = fe.Code
		}
		h.auditor.LogLoginDenied(identity.Email, clientIP, reason)
		h.metrics().RecordLoginDenied(ctx, reason)
		h.terminalError(w, r, deniedMessage)
		return "denied"
	}

	h.auditor.LogLoginSucceeded(identity.Email, account.ID, clientIP, grant)
	h.metrics().RecordLoginSucceeded(ctx, grant)
	h.redirect(w, r, h.host.DashboardURL())
	return "success"
}

// codeGrant redeems an authorization code, recording provider metrics.
func (h *Handler) codeGrant(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, span := h.tracer.Start(ctx, "provider.exchange_code")
	defer span.End()
	instrumentation.AddProviderAttributes(span, h.provider.Name(), "exchange_code")

	start := time.Now()
	token, err := h.provider.ExchangeCode(ctx, code)
	h.metrics().RecordProviderAPICall(ctx, h.provider.Name(), "exchange_code", durationMs(start), err)
	h.metrics().RecordCodeExchange(ctx, err == nil)
	if err != nil {
		instrumentation.RecordError(span, err)
		return nil, ErrTokenExchangeFailed(err.Error())
	}
	instrumentation.SetSpanSuccess(span)
	return token, nil
}

// refreshGrant redeems a refresh token, recording provider metrics.
func (h *Handler) refreshGrant(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx, span := h.tracer.Start(ctx, "provider.refresh")
	defer span.End()
	instrumentation.AddProviderAttributes(span, h.provider.Name(), "refresh")

	start := time.Now()
	token, err := h.provider.Refresh(ctx, refreshToken)
	h.metrics().RecordProviderAPICall(ctx, h.provider.Name(), "refresh", durationMs(start), err)
	h.metrics().RecordTokenRefresh(ctx, err == nil)
	if err != nil {
		instrumentation.RecordError(span, err)
		return nil, ErrTokenExchangeFailed(err.Error())
	}
	instrumentation.SetSpanSuccess(span)
	return token, nil
}

// fetchProfile resolves an access token to an external identity, recording
// provider metrics.
func (h *Handler) fetchProfile(ctx context.Context, accessToken string) (*providers.Profile, error) {
	ctx, span := h.tracer.Start(ctx, "provider.fetch_profile")
	defer span.End()
	instrumentation.AddProviderAttributes(span, h.provider.Name(), "fetch_profile")

	start := time.Now()
	identity, err := h.provider.FetchProfile(ctx, accessToken)
	h.metrics().RecordProviderAPICall(ctx, h.provider.Name(), "fetch_profile", durationMs(start), err)
	if err != nil {
		instrumentation.RecordError(span, err)
		return nil, ErrProfileFetchFailed(err.Error())
	}
	instrumentation.SetSpanSuccess(span)
	return identity, nil
}

// redirect writes a 302 with security headers.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, location string) {
	security.SetSecurityHeaders(w, h.host.SiteURL())
	http.Redirect(w, r, location, http.StatusFound)
}

// terminalError renders the host's fatal error page with security headers.
func (h *Handler) terminalError(w http.ResponseWriter, r *http.Request, message string) {
	security.SetSecurityHeaders(w, h.host.SiteURL())
	h.host.TerminateWithError(w, r, message)
}

// metrics is a nil-safe accessor for the metric instruments.
func (h *Handler) metrics() *instrumentation.Metrics {
	return h.inst.Metrics()
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
