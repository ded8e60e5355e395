package graphsso

import (
	"fmt"
	"net/http"

	"github.com/russellramey/ms-graph-wplogin/security"
)

// serveLogout handles the logout signal. Without token cookies there is
// nothing to tear down and the browser goes straight home. Otherwise the
// local session and both token cookies are destroyed unconditionally, and
// the terminal page offers an optional second hop to the provider's logout
// endpoint. Local logout never depends on the provider being reachable.
func (h *Handler) serveLogout(w http.ResponseWriter, r *http.Request, clientIP string) {
	_, hasAccess := h.readAccessCookie(r)
	_, hasRefresh := h.readRefreshCookie(r)
	if !hasAccess && !hasRefresh {
		h.redirect(w, r, h.host.HomeURL())
		return
	}

	var accountID string
	if user := h.host.CurrentUser(r); user != nil {
		accountID = user.ID
	}

	h.host.ClearSession(w, r)
	h.expireTokenCookies(w)

	h.auditor.LogLogout(accountID, clientIP)
	h.metrics().RecordLogout(r.Context())

	security.SetSecurityHeaders(w, h.host.SiteURL())
	h.host.TerminateWithChoice(w, r,
		fmt.Sprintf("You have been logged out of %s.", h.host.SiteURL()),
		"Logged out",
		"Sign out of your Microsoft account",
		h.provider.LogoutURL(h.host.HomeURL()),
	)
}
