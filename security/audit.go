package security

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Auditor handles security event logging with PII protection. Emails and
// account IDs are hashed before they reach the log stream.
type Auditor struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditor creates a new security auditor
func NewAuditor(logger *slog.Logger, enabled bool) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		logger:  logger,
		enabled: enabled,
	}
}

// Event represents a security audit event
type Event struct {
	Type      string
	Email     string
	AccountID string
	IPAddress string
	Details   map[string]any
	Timestamp time.Time
}

// LogEvent logs a security event with hashed PII
func (a *Auditor) LogEvent(event Event) {
	if a == nil || !a.enabled {
		return
	}

	event.Timestamp = time.Now()

	a.logger.Info("security_audit",
		"event_type", event.Type,
		"email_hash", hashForLogging(event.Email),
		"account_id_hash", hashForLogging(event.AccountID),
		"ip_address", event.IPAddress,
		"details", event.Details,
		"timestamp", event.Timestamp,
	)
}

// LogLoginSucceeded logs a successful admission and session establishment
func (a *Auditor) LogLoginSucceeded(email, accountID, ipAddress, grant string) {
	a.LogEvent(Event{
		Type:      EventLoginSucceeded,
		Email:     email,
		AccountID: accountID,
		IPAddress: ipAddress,
		Details: map[string]any{
			"grant": grant,
		},
	})
}

// LogLoginDenied logs a terminal admission denial
func (a *Auditor) LogLoginDenied(email, ipAddress, reason string) {
	a.LogEvent(Event{
		Type:      EventLoginDenied,
		Email:     email,
		IPAddress: ipAddress,
		Details: map[string]any{
			"reason": reason,
		},
	})
}

// LogCodeExchanged logs a successful authorization code redemption
func (a *Auditor) LogCodeExchanged(ipAddress string) {
	a.LogEvent(Event{
		Type:      EventCodeExchanged,
		IPAddress: ipAddress,
	})
}

// LogCodeRejected logs an authorization code the provider refused
func (a *Auditor) LogCodeRejected(ipAddress, reason string) {
	a.LogEvent(Event{
		Type:      EventCodeRejected,
		IPAddress: ipAddress,
		Details: map[string]any{
			"reason": reason,
		},
	})
}

// LogTokenRefreshed logs a successful refresh token grant
func (a *Auditor) LogTokenRefreshed(ipAddress string) {
	a.LogEvent(Event{
		Type:      EventTokenRefreshed,
		IPAddress: ipAddress,
	})
}

// LogProfileFetchFailed logs a profile lookup that blocked admission
func (a *Auditor) LogProfileFetchFailed(ipAddress, reason string) {
	a.LogEvent(Event{
		Type:      EventProfileFetchFailed,
		IPAddress: ipAddress,
		Details: map[string]any{
			"reason": reason,
		},
	})
}

// LogLogout logs a dual logout
func (a *Auditor) LogLogout(accountID, ipAddress string) {
	a.LogEvent(Event{
		Type:      EventLogout,
		AccountID: accountID,
		IPAddress: ipAddress,
	})
}

// LogPasswordResetBlocked logs a rejected local password reset attempt
func (a *Auditor) LogPasswordResetBlocked(ipAddress string) {
	a.LogEvent(Event{
		Type:      EventPasswordResetBlocked,
		IPAddress: ipAddress,
	})
}

// LogRateLimitExceeded logs a rate limit violation
func (a *Auditor) LogRateLimitExceeded(ipAddress string) {
	a.LogEvent(Event{
		Type:      EventRateLimitExceeded,
		IPAddress: ipAddress,
	})
}

// hashForLogging creates a SHA256 hash of sensitive data for logging
func hashForLogging(sensitive string) string {
	if sensitive == "" {
		return "<empty>"
	}
	hash := sha256.Sum256([]byte(sensitive))
	return hex.EncodeToString(hash[:])[:16]
}
