package graphsso

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/oauth2"
)

// Cookie name prefixes. The derived namespace is appended so that multiple
// configurations or environments sharing a browser never collide.
const (
	accessCookiePrefix  = "msgwpl_access_token_"
	refreshCookiePrefix = "msgwpl_refresh_token_"
)

// cookieNamespaceBytes is the derived namespace length before hex encoding.
const cookieNamespaceBytes = 16

// CookieNamespace derives a stable, non-guessable cookie namespace from the
// client secret and the request host via HKDF-SHA256. The derivation is a
// pure function: the same (secret, host) pair always yields the same
// namespace, and either input changing changes it. The secret is the key,
// so the namespace reveals nothing about it.
func CookieNamespace(clientSecret, host string) string {
	r := hkdf.New(sha256.New, []byte(clientSecret), nil, []byte(host))
	out := make([]byte, cookieNamespaceBytes)
	if _, err := io.ReadFull(r, out); err != nil {
		// hkdf.Reader only fails when asked for more output than the
		// hash allows; 16 bytes is far under that limit.
		panic("hkdf: " + err.Error())
	}
	return hex.EncodeToString(out)
}

// cookieHost extracts the namespace host from the canonical login URL,
// falling back to the site URL when the login URL does not parse.
func cookieHost(h Host) string {
	if u, err := url.Parse(h.LoginURL()); err == nil && u.Host != "" {
		return u.Host
	}
	if u, err := url.Parse(h.SiteURL()); err == nil && u.Host != "" {
		return u.Host
	}
	return "localhost"
}

// accessCookieName returns the namespaced access token cookie name.
func (h *Handler) accessCookieName() string {
	return accessCookiePrefix + h.namespace
}

// refreshCookieName returns the namespaced refresh token cookie name.
func (h *Handler) refreshCookieName() string {
	return refreshCookiePrefix + h.namespace
}

// setTokenCookies persists a token pair as two scoped cookies. Both are
// HTTP-only and secure with path "/"; the browser is the only holder of the
// tokens, no server-side copy exists.
func (h *Handler) setTokenCookies(w http.ResponseWriter, token *oauth2.Token) {
	now := time.Now()
	http.SetCookie(w, &http.Cookie{
		Name:     h.accessCookieName(),
		Value:    token.AccessToken,
		Path:     "/",
		Expires:  now.Add(h.config.AccessCookieTTL),
		MaxAge:   int(h.config.AccessCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     h.refreshCookieName(),
		Value:    token.RefreshToken,
		Path:     "/",
		Expires:  now.Add(h.config.RefreshCookieTTL),
		MaxAge:   int(h.config.RefreshCookieTTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// expireTokenCookies overwrites both token cookies with an expiry in the
// past, instructing the browser to drop them.
func (h *Handler) expireTokenCookies(w http.ResponseWriter) {
	past := time.Now().Add(-5 * time.Minute)
	for _, name := range []string{h.accessCookieName(), h.refreshCookieName()} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  past,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// readAccessCookie returns the access token cookie value, if present.
func (h *Handler) readAccessCookie(r *http.Request) (string, bool) {
	return readCookie(r, h.accessCookieName())
}

// readRefreshCookie returns the refresh token cookie value, if present.
func (h *Handler) readRefreshCookie(r *http.Request) (string, bool) {
	return readCookie(r, h.refreshCookieName())
}

func readCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
