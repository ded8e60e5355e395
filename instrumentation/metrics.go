package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all metric instruments for the SSO bridge
type Metrics struct {
	// Login endpoint metrics
	LoginRequestsTotal metric.Int64Counter
	LoginDuration      metric.Float64Histogram

	// Flow outcome metrics
	AuthorizeRedirects metric.Int64Counter
	CodeExchanged      metric.Int64Counter
	TokenRefreshed     metric.Int64Counter
	LoginSucceeded     metric.Int64Counter
	LoginDenied        metric.Int64Counter
	LogoutProcessed    metric.Int64Counter

	// Blocked surface metrics
	PasswordResetBlocked metric.Int64Counter
	RateLimitExceeded    metric.Int64Counter

	// Provider metrics
	ProviderAPICallsTotal metric.Int64Counter
	ProviderAPIDuration   metric.Float64Histogram
	ProviderAPIErrors     metric.Int64Counter
}

// newMetrics creates and registers all metric instruments
func newMetrics(inst *Instrumentation) (*Metrics, error) {
	m := &Metrics{}
	loginMeter := inst.Meter("login")
	securityMeter := inst.Meter("security")
	providerMeter := inst.Meter("provider")

	var err error
	m.LoginRequestsTotal, err = loginMeter.Int64Counter(
		"sso.login.requests.total",
		metric.WithDescription("Total number of login endpoint requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login.requests.total counter: %w", err)
	}

	m.LoginDuration, err = loginMeter.Float64Histogram(
		"sso.login.duration",
		metric.WithDescription("Login request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login.duration histogram: %w", err)
	}

	m.AuthorizeRedirects, err = loginMeter.Int64Counter(
		"sso.authorize.redirects",
		metric.WithDescription("Number of redirects to the provider authorize endpoint"),
		metric.WithUnit("{redirect}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorize.redirects counter: %w", err)
	}

	m.CodeExchanged, err = loginMeter.Int64Counter(
		"sso.code.exchanged",
		metric.WithDescription("Number of authorization codes exchanged for token pairs"),
		metric.WithUnit("{exchange}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create code.exchanged counter: %w", err)
	}

	m.TokenRefreshed, err = loginMeter.Int64Counter(
		"sso.token.refreshed",
		metric.WithDescription("Number of refresh token grants completed"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token.refreshed counter: %w", err)
	}

	m.LoginSucceeded, err = loginMeter.Int64Counter(
		"sso.login.succeeded",
		metric.WithDescription("Number of admissions that established a local session"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login.succeeded counter: %w", err)
	}

	m.LoginDenied, err = loginMeter.Int64Counter(
		"sso.login.denied",
		metric.WithDescription("Number of terminal admission denials"),
		metric.WithUnit("{denial}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login.denied counter: %w", err)
	}

	m.LogoutProcessed, err = loginMeter.Int64Counter(
		"sso.logout.processed",
		metric.WithDescription("Number of dual logouts processed"),
		metric.WithUnit("{logout}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create logout.processed counter: %w", err)
	}

	m.PasswordResetBlocked, err = securityMeter.Int64Counter(
		"sso.password_reset.blocked",
		metric.WithDescription("Number of local password reset attempts rejected"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create password_reset.blocked counter: %w", err)
	}

	m.RateLimitExceeded, err = securityMeter.Int64Counter(
		"sso.rate_limit.exceeded",
		metric.WithDescription("Number of rate limited login requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate_limit.exceeded counter: %w", err)
	}

	m.ProviderAPICallsTotal, err = providerMeter.Int64Counter(
		"sso.provider.api.calls.total",
		metric.WithDescription("Total number of identity provider API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider.api.calls.total counter: %w", err)
	}

	m.ProviderAPIDuration, err = providerMeter.Float64Histogram(
		"sso.provider.api.duration",
		metric.WithDescription("Identity provider API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider.api.duration histogram: %w", err)
	}

	m.ProviderAPIErrors, err = providerMeter.Int64Counter(
		"sso.provider.api.errors",
		metric.WithDescription("Number of failed identity provider API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider.api.errors counter: %w", err)
	}

	return m, nil
}

// Helper methods for common metric recording patterns

// RecordLoginRequest records a login endpoint request and its duration
func (m *Metrics) RecordLoginRequest(ctx context.Context, outcome string, durationMs float64) {
	m.LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
	m.LoginDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordAuthorizeRedirect records a redirect to the provider authorize endpoint
func (m *Metrics) RecordAuthorizeRedirect(ctx context.Context) {
	m.AuthorizeRedirects.Add(ctx, 1)
}

// RecordCodeExchange records an authorization code exchange outcome
func (m *Metrics) RecordCodeExchange(ctx context.Context, success bool) {
	m.CodeExchanged.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// RecordTokenRefresh records a refresh token grant outcome
func (m *Metrics) RecordTokenRefresh(ctx context.Context, success bool) {
	m.TokenRefreshed.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// RecordLoginSucceeded records a successful admission
func (m *Metrics) RecordLoginSucceeded(ctx context.Context, grant string) {
	m.LoginSucceeded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("grant", grant),
	))
}

// RecordLoginDenied records a terminal admission denial
func (m *Metrics) RecordLoginDenied(ctx context.Context, reason string) {
	m.LoginDenied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordLogout records a processed dual logout
func (m *Metrics) RecordLogout(ctx context.Context) {
	m.LogoutProcessed.Add(ctx, 1)
}

// RecordPasswordResetBlocked records a rejected local password reset
func (m *Metrics) RecordPasswordResetBlocked(ctx context.Context) {
	m.PasswordResetBlocked.Add(ctx, 1)
}

// RecordRateLimitExceeded records a rate limited login request
func (m *Metrics) RecordRateLimitExceeded(ctx context.Context) {
	m.RateLimitExceeded.Add(ctx, 1)
}

// RecordProviderAPICall records an identity provider API call
func (m *Metrics) RecordProviderAPICall(ctx context.Context, provider, operation string, durationMs float64, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	m.ProviderAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.ProviderAPIDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))

	if err != nil {
		m.ProviderAPIErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("operation", operation),
		))
	}
}
