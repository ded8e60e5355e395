package graphsso

import "net/http"

// Account represents a local account owned by the host platform. Read-only
// from this package's perspective: accounts are looked up, never created or
// mutated here.
type Account struct {
	// ID is the host platform's account identifier
	ID string

	// Login is the account's login name
	Login string

	// Email is the account's email address, the join key to the external
	// identity
	Email string

	// Roles is the account's role set (e.g., "administrator", "editor",
	// "subscriber")
	Roles []string
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Host is the narrow interface to the hosting web application. The bridge
// consumes the host's account and session primitives through it and never
// touches host internals. Email lookups are case-insensitive: emails are
// login identifiers, not case-sensitive byte strings.
type Host interface {
	// CurrentUser returns the account bound to the request's local
	// session, or nil when no session is active.
	CurrentUser(r *http.Request) *Account

	// FindAccountByEmail returns the account with the given email
	// (case-insensitive), or nil when none exists.
	FindAccountByEmail(email string) *Account

	// EstablishSession creates a local session bound to the account ID.
	EstablishSession(w http.ResponseWriter, r *http.Request, accountID string) error

	// ClearSession clears the local session and its auth cookies.
	ClearSession(w http.ResponseWriter, r *http.Request)

	// LoginURL returns the canonical login URL with no query string.
	LoginURL() string

	// DashboardURL returns the post-login destination.
	DashboardURL() string

	// HomeURL returns the site home URL.
	HomeURL() string

	// SiteURL returns the site's display URL, used in user-facing pages.
	SiteURL() string

	// IsLogoutSignal reports whether the request carries the platform's
	// standard logged-out signal.
	IsLogoutSignal(r *http.Request) bool

	// TerminateWithError renders a fatal, request-ending error page.
	TerminateWithError(w http.ResponseWriter, r *http.Request, message string)

	// TerminateWithChoice renders a fatal page carrying an actionable
	// link, used for the second half of the dual logout.
	TerminateWithChoice(w http.ResponseWriter, r *http.Request, message, title, linkText, linkURL string)
}

// ExtensionRegistry is the host's named extension point surface. The bridge
// registers handlers for the login page and password reset requests; the
// host dispatches matching requests to them and renders nothing of its own
// afterwards.
type ExtensionRegistry interface {
	// OnLoginPage registers the handler invoked on every hit to the
	// login endpoint.
	OnLoginPage(http.HandlerFunc)

	// OnPasswordReset registers the handler invoked when a password
	// reset is requested.
	OnPasswordReset(http.HandlerFunc)
}
