package graphsso

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/russellramey/ms-graph-wplogin/providers"
	"github.com/russellramey/ms-graph-wplogin/security"
)

// Well-known host platform roles
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
)

// elevatedRoles are the roles allowed to receive a local session. Everybody
// else is denied even with a valid external identity.
var elevatedRoles = []string{RoleAdministrator, RoleEditor}

// sessionBridge maps a verified external identity onto a local account and
// manages the local session on its behalf. It never creates or mutates
// accounts.
type sessionBridge struct {
	host    Host
	auditor *security.Auditor
	logger  *slog.Logger
}

// Admit looks up the local account matching the identity's email, enforces
// role-based admission and establishes a fresh local session. On denial
// (*FlowError with account_not_found or account_forbidden) no session side
// effects happen at all.
func (b *sessionBridge) Admit(w http.ResponseWriter, r *http.Request, identity *providers.Profile) (*Account, error) {
	account := b.host.FindAccountByEmail(identity.Email)
	if account == nil {
		return nil, ErrAccountNotFound("no local account for external identity")
	}

	if !hasElevatedRole(account) {
		return nil, ErrAccountForbidden("account lacks an elevated role")
	}

	// Drop any existing local auth state before binding the new session.
	b.host.ClearSession(w, r)

	if err := b.host.EstablishSession(w, r, account.ID); err != nil {
		return nil, fmt.Errorf("failed to establish local session: %w", err)
	}

	b.logger.Info("Local session established",
		"account_id", account.ID,
		"login", account.Login)

	return account, nil
}

// Verify reports whether the local session and the external identity belong
// to the same person: a session must be active and the emails must match
// case-insensitively. Read-only; never creates or destroys a session.
func (b *sessionBridge) Verify(user *Account, identity *providers.Profile) bool {
	if user == nil || identity == nil {
		return false
	}
	if user.Email == "" || identity.Email == "" {
		return false
	}
	return strings.EqualFold(user.Email, identity.Email)
}

// hasElevatedRole reports whether the account holds any elevated role.
func hasElevatedRole(account *Account) bool {
	for _, role := range elevatedRoles {
		if account.HasRole(role) {
			return true
		}
	}
	return false
}
