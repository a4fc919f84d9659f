package middleware

import (
	"net"
	"net/http"
	"strings"
)

// clientIP picks the first X-Forwarded-For hop, then X-Real-IP, then the
// socket peer. The API runs behind a proxy that sets these headers.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
