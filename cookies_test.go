package graphsso

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/russellramey/ms-graph-wplogin/providers/mock"

	"golang.org/x/oauth2"
)

func TestCookieNamespace(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := CookieNamespace("secret-1", "blog.example.com")
		b := CookieNamespace("secret-1", "blog.example.com")
		if a != b {
			t.Errorf("same inputs gave different namespaces: %q vs %q", a, b)
		}
	})

	t.Run("diverges on secret", func(t *testing.T) {
		a := CookieNamespace("secret-1", "blog.example.com")
		b := CookieNamespace("secret-2", "blog.example.com")
		if a == b {
			t.Error("different secrets must give different namespaces")
		}
	})

	t.Run("diverges on host", func(t *testing.T) {
		a := CookieNamespace("secret-1", "blog.example.com")
		b := CookieNamespace("secret-1", "shop.example.com")
		if a == b {
			t.Error("different hosts must give different namespaces")
		}
	})

	t.Run("hex encoded", func(t *testing.T) {
		ns := CookieNamespace("secret-1", "blog.example.com")
		if len(ns) != 2*cookieNamespaceBytes {
			t.Errorf("namespace length = %d, want %d", len(ns), 2*cookieNamespaceBytes)
		}
		if strings.ToLower(ns) != ns {
			t.Error("namespace should be lowercase hex")
		}
	})
}

func TestCookieNames(t *testing.T) {
	h := newTestHandler(t, newFakeHost(), mock.NewProvider())

	access, refresh := h.CookieNames()
	if !strings.HasPrefix(access, accessCookiePrefix) {
		t.Errorf("access cookie name %q missing prefix %q", access, accessCookiePrefix)
	}
	if !strings.HasPrefix(refresh, refreshCookiePrefix) {
		t.Errorf("refresh cookie name %q missing prefix %q", refresh, refreshCookiePrefix)
	}
	if strings.TrimPrefix(access, accessCookiePrefix) != strings.TrimPrefix(refresh, refreshCookiePrefix) {
		t.Error("both cookies should share one namespace")
	}
}

func TestSetTokenCookies_CustomTTLs(t *testing.T) {
	cfg := testConfig()
	cfg.AccessCookieTTL = 10 * time.Minute
	cfg.RefreshCookieTTL = 48 * time.Hour
	h, err := NewWithProvider(cfg, newFakeHost(), mock.NewProvider())
	if err != nil {
		t.Fatalf("NewWithProvider() error = %v", err)
	}
	t.Cleanup(h.Close)

	rec := httptest.NewRecorder()
	h.setTokenCookies(rec, &oauth2.Token{AccessToken: "a", RefreshToken: "r"})

	access := responseCookie(t, rec, h.accessCookieName())
	if access.MaxAge != 600 {
		t.Errorf("access MaxAge = %d, want 600", access.MaxAge)
	}
	refresh := responseCookie(t, rec, h.refreshCookieName())
	if refresh.MaxAge != 48*3600 {
		t.Errorf("refresh MaxAge = %d, want %d", refresh.MaxAge, 48*3600)
	}
}

func TestReadCookies(t *testing.T) {
	h := newTestHandler(t, newFakeHost(), mock.NewProvider())

	t.Run("missing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/wp-login.php", nil)
		if _, ok := h.readAccessCookie(r); ok {
			t.Error("readAccessCookie should miss on a bare request")
		}
	})

	t.Run("empty value misses", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/wp-login.php", nil)
		r.AddCookie(&http.Cookie{Name: h.refreshCookieName(), Value: ""})
		if _, ok := h.readRefreshCookie(r); ok {
			t.Error("an empty cookie value should read as absent")
		}
	})

	t.Run("present", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/wp-login.php", nil)
		r.AddCookie(&http.Cookie{Name: h.accessCookieName(), Value: "tok"})
		got, ok := h.readAccessCookie(r)
		if !ok || got != "tok" {
			t.Errorf("readAccessCookie = (%q, %v), want (tok, true)", got, ok)
		}
	})
}
