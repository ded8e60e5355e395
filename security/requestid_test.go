package security

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()

	if len(a) != 22 {
		t.Errorf("request ID length = %d, want 22", len(a))
	}
	if a == b {
		t.Error("request IDs must be unique")
	}
	if !requestIDPattern.MatchString(a) {
		t.Errorf("generated ID %q does not match the accepted pattern", a)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID on empty context = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want req-123", got)
	}
}

func TestEnsureRequestID(t *testing.T) {
	t.Run("valid upstream ID is kept", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/wp-login.php", nil)
		r.Header.Set(RequestIDHeader, "upstream-id_01")

		if got := EnsureRequestID(r); got != "upstream-id_01" {
			t.Errorf("EnsureRequestID() = %q, want the upstream ID", got)
		}
	})

	t.Run("missing header gets a fresh ID", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/wp-login.php", nil)
		got := EnsureRequestID(r)
		if got == "" || !requestIDPattern.MatchString(got) {
			t.Errorf("EnsureRequestID() = %q, want a generated ID", got)
		}
	})

	t.Run("malformed upstream IDs are discarded", func(t *testing.T) {
		malformed := []string{
			"has spaces",
			"has.dots",
			"id\r\nSet-Cookie: injected=1",
			string(make([]byte, 200)),
		}
		for _, id := range malformed {
			r := httptest.NewRequest("GET", "/wp-login.php", nil)
			r.Header["X-Request-Id"] = []string{id}

			if got := EnsureRequestID(r); got == id {
				t.Errorf("malformed ID %q was echoed back", id)
			}
		}
	})
}
