package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller address. chi's RealIP runs first, so RemoteAddr already
// reflects X-Forwarded-For / X-Real-IP when present.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
