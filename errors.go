package graphsso

import (
	"errors"
	"fmt"
)

// Flow error codes as constants
const (
	ErrorCodeConfigInvalid       = "config_invalid"
	ErrorCodeTokenExchangeFailed = "token_exchange_failed"
	ErrorCodeProfileFetchFailed  = "profile_fetch_failed"
	ErrorCodeAccountNotFound     = "account_not_found"
	ErrorCodeAccountForbidden    = "account_forbidden"
	ErrorCodeRateLimitExceeded   = "rate_limit_exceeded"
)

// FlowError represents a terminal outcome of the login state machine
type FlowError struct {
	Code        string // Flow error code (e.g., "account_not_found", "token_exchange_failed")
	Description string // Human-readable error description
}

// Error implements the error interface
func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewFlowError creates a new flow error
func NewFlowError(code, description string) *FlowError {
	return &FlowError{
		Code:        code,
		Description: description,
	}
}

// Common flow errors as reusable constructors
var (
	// ErrConfigInvalid indicates the configuration is incomplete; the feature stays disabled
	ErrConfigInvalid = func(desc string) *FlowError {
		return NewFlowError(ErrorCodeConfigInvalid, desc)
	}

	// ErrTokenExchangeFailed indicates the provider rejected a code or refresh grant
	ErrTokenExchangeFailed = func(desc string) *FlowError {
		return NewFlowError(ErrorCodeTokenExchangeFailed, desc)
	}

	// ErrProfileFetchFailed indicates the profile endpoint yielded no usable identity
	ErrProfileFetchFailed = func(desc string) *FlowError {
		return NewFlowError(ErrorCodeProfileFetchFailed, desc)
	}

	// ErrAccountNotFound indicates no local account matches the external identity's email
	ErrAccountNotFound = func(desc string) *FlowError {
		return NewFlowError(ErrorCodeAccountNotFound, desc)
	}

	// ErrAccountForbidden indicates the local account lacks an elevated role
	ErrAccountForbidden = func(desc string) *FlowError {
		return NewFlowError(ErrorCodeAccountForbidden, desc)
	}

	// ErrRateLimitExceeded indicates the login endpoint rate limit was hit
	ErrRateLimitExceeded = func(desc string) *FlowError {
		return NewFlowError(ErrorCodeRateLimitExceeded, desc)
	}
)

// IsAdmissionDenied reports whether err is a terminal admission denial
// (missing account or insufficient role), as opposed to a transient
// provider failure.
func IsAdmissionDenied(err error) bool {
	var fe *FlowError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Code == ErrorCodeAccountNotFound || fe.Code == ErrorCodeAccountForbidden
}
