package security

// Event type constants for security audit logging.
// These constants ensure consistency across the codebase and prevent typos
// when logging security-relevant events.
const (
	// Login flow events

	// EventLoginSucceeded is logged when an external identity is admitted
	// and a local session is established
	EventLoginSucceeded = "login_succeeded"

	// EventLoginDenied is logged when admission fails: the identity has no
	// local account or the account lacks an elevated role
	EventLoginDenied = "login_denied"

	// EventCodeExchanged is logged when an authorization code is redeemed
	// for a token pair
	EventCodeExchanged = "code_exchanged"

	// EventCodeRejected is logged when the provider rejects an
	// authorization code
	EventCodeRejected = "code_rejected"

	// EventTokenRefreshed is logged when a refresh token grant yields a
	// new token pair
	EventTokenRefreshed = "token_refreshed" //nolint:gosec // G101: event type name, not a credential

	// EventProfileFetchFailed is logged when the provider's profile
	// endpoint yields no usable identity for an access token
	EventProfileFetchFailed = "profile_fetch_failed"

	// Logout events

	// EventLogout is logged when the dual logout clears the local session
	// and both token cookies
	EventLogout = "logout"

	// Blocked surface events

	// EventPasswordResetBlocked is logged when a local password reset
	// attempt is rejected because SSO is enabled
	EventPasswordResetBlocked = "password_reset_blocked" //nolint:gosec // G101: event type name, not a credential

	// EventRateLimitExceeded is logged when the login endpoint rate limit
	// is exceeded
	EventRateLimitExceeded = "rate_limit_exceeded"
)
