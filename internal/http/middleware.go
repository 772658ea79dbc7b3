package http

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

type contextKey string

const clientIPContextKey contextKey = "client_ip"

// ExtractClientIP returns the client IP taken from X-Forwarded-For, then
// X-Real-IP, then RemoteAddr. Only use it behind a proxy that sets these headers.
func ExtractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip, ok := parseIP(first); ok {
			return ip
		}
	}

	if ip, ok := parseIP(r.Header.Get("X-Real-IP")); ok {
		return ip
	}

	return RemoteIP(r)
}

// RemoteIP returns the IP of the directly connected peer, without port or brackets.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if ip, ok := parseIP(host); ok {
		return ip
	}
	return host
}

func parseIP(raw string) (string, bool) {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	if raw == "" {
		return "", false
	}

	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}

// ClientIPFromContext extracts the client IP from the request context.
// This should be called from handlers wrapped by ClientIPMiddleware.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPContextKey).(string)
	return ip
}

// ClientIPMiddleware stores the client IP in the request context for session
// auditing and rate limiting. Forwarding headers are only honoured when
// trustProxy is set.
func ClientIPMiddleware(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := RemoteIP(r)
			if trustProxy {
				ip = ExtractClientIP(r)
			}
			ctx := context.WithValue(r.Context(), clientIPContextKey, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
