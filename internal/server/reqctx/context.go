// Package reqctx provides request context utilities for passing request metadata.
package reqctx

import (
	"context"
	"net/http"
	"strings"
)

// GetClientIP extracts the client IP from an HTTP request,
// checking X-Forwarded-For and X-Real-IP headers for proxied requests.
func GetClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2".
	// The leftmost IP is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fall back to RemoteAddr, stripping port if present
	addr := r.RemoteAddr
	// Handle IPv6 addresses like [::1]:8080
	if strings.HasPrefix(addr, "[") {
		if host, _, found := strings.Cut(addr, "]:"); found {
			return host[1:] // Strip leading "["
		}
		// Malformed but try to be lenient
		return strings.Trim(addr, "[]")
	}
	// IPv4 or hostname with port
	if host, _, found := strings.Cut(addr, ":"); found {
		return host
	}
	return addr
}

// Context keys for request metadata.
type contextKey string

const (
	keyClientIP  contextKey = "clientIP"
	keyRequestID contextKey = "requestID"
)

// WithClientIP adds the client IP to the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, keyClientIP, ip)
}

// ClientIP extracts the client IP from the context.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(keyClientIP).(string); ok {
		return v
	}
	return ""
}

// WithRequestID adds the request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestID extracts the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}
