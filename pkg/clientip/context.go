package clientip

import (
	"context"
	"net/http"
)

type contextKey struct{}

// ContextKey is the context key under which Middleware stores the IP.
// Exposed so the logger can register a context extractor for it.
var ContextKey = contextKey{}

// Middleware resolves the requester IP once and stores it in the request
// context for handlers and log records downstream.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKey, FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the IP stored by Middleware, or "" when absent.
func FromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKey).(string); ok {
		return ip
	}
	return ""
}
