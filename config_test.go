package graphsso

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MSGWPL_TENANT_ID", "tenant-1")
	t.Setenv("MSGWPL_CLIENT_ID", "client-1")
	t.Setenv("MSGWPL_CLIENT_SECRET", "secret-1")
	t.Setenv("MSGWPL_CLIENT_SCOPES", "user.read,offline_access,mail.read")
	t.Setenv("MSGWPL_ACCESS_COOKIE_TTL", "30m")
	t.Setenv("MSGWPL_RATE_LIMIT", "5")
	t.Setenv("MSGWPL_RATE_LIMIT_BURST", "10")
	t.Setenv("MSGWPL_AUDIT_LOGGING", "true")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}

	if cfg.TenantID != "tenant-1" || cfg.ClientID != "client-1" || cfg.ClientSecret != "secret-1" {
		t.Errorf("credentials = %q/%q/%q", cfg.TenantID, cfg.ClientID, cfg.ClientSecret)
	}
	if len(cfg.Scopes) != 3 || cfg.Scopes[2] != "mail.read" {
		t.Errorf("Scopes = %v", cfg.Scopes)
	}
	if cfg.AccessCookieTTL != 30*time.Minute {
		t.Errorf("AccessCookieTTL = %v, want 30m", cfg.AccessCookieTTL)
	}
	if cfg.RefreshCookieTTL != DefaultRefreshCookieTTL {
		t.Errorf("RefreshCookieTTL = %v, want default %v", cfg.RefreshCookieTTL, DefaultRefreshCookieTTL)
	}
	if cfg.RateLimit.Rate != 5 || cfg.RateLimit.Burst != 10 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if !cfg.EnableAuditLogging {
		t.Error("EnableAuditLogging = false, want true")
	}
	if !cfg.Enabled() {
		t.Error("Enabled() = false with full credentials")
	}
}

func TestLoadConfigFromEnv_Incomplete(t *testing.T) {
	t.Setenv("MSGWPL_TENANT_ID", "tenant-1")
	t.Setenv("MSGWPL_CLIENT_ID", "")
	t.Setenv("MSGWPL_CLIENT_SECRET", "")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v (missing credentials are not a parse error)", err)
	}
	if cfg.Enabled() {
		t.Error("Enabled() = true with missing credentials")
	}
}

func TestConfig_Enabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want bool
	}{
		{"nil config", nil, false},
		{"zero config", &Config{}, false},
		{
			"missing secret",
			&Config{TenantID: "t", ClientID: "c", Scopes: DefaultScopes()},
			false,
		},
		{
			"missing tenant",
			&Config{ClientID: "c", ClientSecret: "s", Scopes: DefaultScopes()},
			false,
		},
		{
			"complete",
			&Config{TenantID: "t", ClientID: "c", ClientSecret: "s", Scopes: DefaultScopes()},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{TenantID: "t", ClientID: "c", ClientSecret: "s"}
	cfg.applyDefaults()

	if len(cfg.Scopes) != 2 || cfg.Scopes[0] != "user.read" || cfg.Scopes[1] != "offline_access" {
		t.Errorf("Scopes = %v, want the default scopes", cfg.Scopes)
	}
	if cfg.AccessCookieTTL != DefaultAccessCookieTTL {
		t.Errorf("AccessCookieTTL = %v, want %v", cfg.AccessCookieTTL, DefaultAccessCookieTTL)
	}
	if cfg.RefreshCookieTTL != DefaultRefreshCookieTTL {
		t.Errorf("RefreshCookieTTL = %v, want %v", cfg.RefreshCookieTTL, DefaultRefreshCookieTTL)
	}
	if cfg.RateLimit.TrustedProxyCount != 1 {
		t.Errorf("TrustedProxyCount = %d, want 1", cfg.RateLimit.TrustedProxyCount)
	}
	if cfg.Logger == nil {
		t.Error("Logger should default to slog.Default()")
	}
}
