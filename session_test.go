package graphsso

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/russellramey/ms-graph-wplogin/providers"
	"github.com/russellramey/ms-graph-wplogin/security"
)

func newTestBridge(host Host) *sessionBridge {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &sessionBridge{
		host:    host,
		auditor: security.NewAuditor(logger, false),
		logger:  logger,
	}
}

func admitArgs() (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-login.php", nil)
}

func TestSessionBridge_Admit(t *testing.T) {
	identity := &providers.Profile{ID: "ext-1", Email: "editor@example.com"}

	t.Run("no matching account", func(t *testing.T) {
		host := newFakeHost()
		w, r := admitArgs()

		_, err := newTestBridge(host).Admit(w, r, identity)
		if !IsAdmissionDenied(err) {
			t.Fatalf("err = %v, want admission denial", err)
		}
		var fe *FlowError
		if !errors.As(err, &fe) || fe.Code != ErrorCodeAccountNotFound {
			t.Errorf("err = %v, want %s", err, ErrorCodeAccountNotFound)
		}
	})

	t.Run("account without elevated role", func(t *testing.T) {
		host := newFakeHost(&Account{
			ID: "7", Email: "editor@example.com", Roles: []string{"subscriber", "contributor"},
		})
		w, r := admitArgs()

		_, err := newTestBridge(host).Admit(w, r, identity)
		var fe *FlowError
		if !errors.As(err, &fe) || fe.Code != ErrorCodeAccountForbidden {
			t.Errorf("err = %v, want %s", err, ErrorCodeAccountForbidden)
		}
		if len(host.established) != 0 {
			t.Error("forbidden account must not get a session")
		}
	})

	t.Run("editor is admitted", func(t *testing.T) {
		host := newFakeHost(&Account{
			ID: "9", Email: "Editor@Example.com", Roles: []string{RoleEditor},
		})
		w, r := admitArgs()

		account, err := newTestBridge(host).Admit(w, r, identity)
		if err != nil {
			t.Fatalf("Admit() error = %v", err)
		}
		if account.ID != "9" {
			t.Errorf("account.ID = %q, want 9", account.ID)
		}
		if host.clearCalls != 1 {
			t.Errorf("clearCalls = %d, want 1 (stale session cleared first)", host.clearCalls)
		}
		if len(host.established) != 1 || host.established[0] != "9" {
			t.Errorf("established = %v, want [9]", host.established)
		}
	})

	t.Run("session establishment failure", func(t *testing.T) {
		host := newFakeHost(&Account{
			ID: "9", Email: "editor@example.com", Roles: []string{RoleAdministrator},
		})
		host.establishErr = fmt.Errorf("cookie write failed")
		w, r := admitArgs()

		_, err := newTestBridge(host).Admit(w, r, identity)
		if err == nil {
			t.Fatal("Admit() should surface the establishment failure")
		}
		if IsAdmissionDenied(err) {
			t.Error("an infrastructure failure is not an admission denial")
		}
	})
}

func TestSessionBridge_Verify(t *testing.T) {
	bridge := newTestBridge(newFakeHost())

	tests := []struct {
		name     string
		user     *Account
		identity *providers.Profile
		want     bool
	}{
		{
			name:     "exact match",
			user:     &Account{Email: "a@example.com"},
			identity: &providers.Profile{Email: "a@example.com"},
			want:     true,
		},
		{
			name:     "case folded match",
			user:     &Account{Email: "A@Example.COM"},
			identity: &providers.Profile{Email: "a@example.com"},
			want:     true,
		},
		{
			name:     "different addresses",
			user:     &Account{Email: "a@example.com"},
			identity: &providers.Profile{Email: "b@example.com"},
			want:     false,
		},
		{
			name:     "empty local email",
			user:     &Account{},
			identity: &providers.Profile{Email: "a@example.com"},
			want:     false,
		},
		{
			name:     "empty identity email",
			user:     &Account{Email: "a@example.com"},
			identity: &providers.Profile{},
			want:     false,
		},
		{
			name:     "nil user",
			user:     nil,
			identity: &providers.Profile{Email: "a@example.com"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bridge.Verify(tt.user, tt.identity); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccount_HasRole(t *testing.T) {
	a := &Account{Roles: []string{"editor", "subscriber"}}
	if !a.HasRole("editor") {
		t.Error("HasRole(editor) = false, want true")
	}
	if a.HasRole("administrator") {
		t.Error("HasRole(administrator) = true, want false")
	}
	if a.HasRole("Editor") {
		t.Error("role comparison is exact, not case folded")
	}
}
