// Package util holds small helpers shared across the bridge's packages.
package util

import "strings"

// SafeTruncate truncates s to at most maxLen bytes without panicking.
// Used when a bounded prefix of untrusted or sensitive data (upstream error
// bodies, tokens) is included in an error or log message.
func SafeTruncate(s string, maxLen int) string {
	if maxLen < 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// NormalizeURL strips trailing slashes so that URLs configured with and
// without them compare and concatenate consistently. The redirect URI
// registered with the identity provider must match byte for byte.
func NormalizeURL(url string) string {
	return strings.TrimRight(url, "/")
}
