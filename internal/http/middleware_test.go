package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractClientIP_xForwardedFor(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "single IP", header: "192.168.1.1", expected: "192.168.1.1"},
		{name: "multiple IPs (take first)", header: "203.0.113.1, 198.51.100.1", expected: "203.0.113.1"},
		{name: "extra spaces are trimmed", header: "  203.0.113.1  ,  198.51.100.1", expected: "203.0.113.1"},
		{name: "IPv6", header: "2001:db8::1", expected: "2001:db8::1"},
		{name: "garbage falls back to remote addr", header: "not-an-ip", expected: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("X-Forwarded-For", tt.header)

			require.Equal(t, tt.expected, ExtractClientIP(r))
		})
	}
}

func TestExtractClientIP_xRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "192.168.1.100")

	require.Equal(t, "192.168.1.100", ExtractClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.1, 198.51.100.1")
	require.Equal(t, "203.0.113.1", ExtractClientIP(r))
}

func TestRemoteIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		expected   string
	}{
		{name: "IPv4 with port", remoteAddr: "192.168.1.1:54321", expected: "192.168.1.1"},
		{name: "IPv6 with port", remoteAddr: "[2001:db8::1]:54321", expected: "2001:db8::1"},
		{name: "IPv4-mapped IPv6", remoteAddr: "[::ffff:192.0.2.7]:80", expected: "192.0.2.7"},
		{name: "no port", remoteAddr: "192.168.1.1", expected: "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr

			require.Equal(t, tt.expected, RemoteIP(r))
		})
	}
}

func TestClientIPMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		expected   string
	}{
		{name: "trusted proxy uses forwarded header", trustProxy: true, expected: "203.0.113.1"},
		{name: "untrusted ignores forwarded header", trustProxy: false, expected: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedIP string
			handler := ClientIPMiddleware(tt.trustProxy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedIP = ClientIPFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("X-Forwarded-For", "203.0.113.1")

			handler.ServeHTTP(w, r)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tt.expected, capturedIP)
		})
	}
}

func TestClientIPFromContext_missing(t *testing.T) {
	require.Empty(t, ClientIPFromContext(context.Background()))
}
