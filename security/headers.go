package security

import (
	"net/http"
	"strings"
)

// SetSecurityHeaders sets security headers on responses the bridge writes
// itself (redirects and terminal pages). siteURL decides whether HSTS
// applies.
func SetSecurityHeaders(w http.ResponseWriter, siteURL string) {
	// Prevent clickjacking of terminal pages
	w.Header().Set("X-Frame-Options", "DENY")

	// Prevent MIME type sniffing
	w.Header().Set("X-Content-Type-Options", "nosniff")

	// Don't leak the login URL (and its query string) via Referer
	w.Header().Set("Referrer-Policy", "no-referrer")

	// Login responses carry tokens in Set-Cookie; never cache them
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
	w.Header().Set("Pragma", "no-cache")

	if strings.HasPrefix(siteURL, "https://") {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
}
