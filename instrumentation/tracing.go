package instrumentation

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common span attribute keys.
//
// SECURITY WARNING: Never put actual credential values (access tokens,
// refresh tokens, authorization codes, the client secret) into traces or
// metrics. Only record metadata: grant types, outcomes, hashed identifiers.
// Traces are persisted, replicated and widely readable.
const (
	// Login flow attributes
	AttrGrantType     = "sso.grant_type"     // authorization_code or refresh_token
	AttrLoginState    = "sso.login_state"    // state machine branch taken
	AttrLoginOutcome  = "sso.login_outcome"  // redirect, denial, error
	AttrDenialReason  = "sso.denial_reason"  // account_not_found, account_forbidden, ...
	AttrCookiePresent = "sso.cookie_present" // whether a token cookie was present (boolean)

	// Provider attributes
	AttrProviderName      = "provider.name"
	AttrProviderOperation = "provider.operation"

	// Security attributes
	AttrClientIP       = "security.client_ip"
	AttrAuditEventType = "security.audit.event_type"
	AttrRequestID      = "security.request_id"
)

// RecordError records an error on a span with proper status codes (nil-safe)
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks a span as successful (nil-safe)
func SetSpanSuccess(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// SetSpanAttributes sets attributes on a span (nil-safe)
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span != nil {
		span.SetAttributes(attrs...)
	}
}

// AddLoginAttributes adds login state machine attributes to a span (nil-safe)
func AddLoginAttributes(span trace.Span, state, outcome string) {
	if state != "" {
		SetSpanAttributes(span, attribute.String(AttrLoginState, state))
	}
	if outcome != "" {
		SetSpanAttributes(span, attribute.String(AttrLoginOutcome, outcome))
	}
}

// AddProviderAttributes adds provider attributes to a span (nil-safe)
func AddProviderAttributes(span trace.Span, providerName, operation string) {
	SetSpanAttributes(span,
		attribute.String(AttrProviderName, providerName),
		attribute.String(AttrProviderOperation, operation),
	)
}

// AddSecurityAttributes adds security attributes to a span (nil-safe).
//
// PRIVACY NOTE: client IPs can be PII. Check ShouldLogClientIPs() before
// calling this.
func AddSecurityAttributes(span trace.Span, clientIP string) {
	if clientIP != "" {
		SetSpanAttributes(span, attribute.String(AttrClientIP, clientIP))
	}
}
