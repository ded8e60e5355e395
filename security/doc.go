// Package security provides the security plumbing around the SSO login
// endpoint: per-IP rate limiting, audit logging with hashed identifiers,
// client IP extraction, request ID propagation, and response security
// headers for terminal pages.
//
// # Rate Limiting
//
// The RateLimiter provides per-IP rate limiting using a token bucket
// algorithm. Idle entries are dropped by a background cleanup loop, and a
// maximum entries cap bounds memory under distributed attacks.
//
//	limiter := security.NewRateLimiter(10, 20, logger)
//	defer limiter.Stop()
//
//	if !limiter.Allow(clientIP) {
//	    // Rate limit exceeded
//	    return http.StatusTooManyRequests
//	}
//
// # Audit Logging
//
// The Auditor logs login, admission, refresh and logout events through the
// configured slog.Logger. Emails and account IDs are hashed before logging;
// tokens are never logged at all.
package security
