package graphsso

import "log/slog"

// Install registers the handler's login and password reset interceptors on
// the host's extension points.
func (h *Handler) Install(reg ExtensionRegistry) {
	reg.OnLoginPage(h.ServeLogin)
	reg.OnPasswordReset(h.ServePasswordReset)
}

// Install builds a handler from cfg and registers it on reg. With an
// incomplete configuration nothing is registered and (nil, nil) is
// returned: the host keeps its native login untouched rather than serving
// a half-configured bridge. A complete but otherwise invalid configuration
// still returns an error.
func Install(cfg *Config, host Host, reg ExtensionRegistry) (*Handler, error) {
	if !cfg.Enabled() {
		logger := slog.Default()
		if cfg != nil && cfg.Logger != nil {
			logger = cfg.Logger
		}
		logger.Warn("SSO configuration incomplete, login interception disabled")
		return nil, nil
	}

	h, err := New(cfg, host)
	if err != nil {
		return nil, err
	}
	h.Install(reg)
	return h, nil
}
