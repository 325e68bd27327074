package httpx

import (
	"net/http"
	"time"
)

// Middleware wraps a handler; the availability service composes its chain
// (request id, access log, body limit, rate limit) from these.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares in reverse so Chain(h, a, b) serves as a(b(h)):
// the first middleware listed sees the request first.
func Chain(h http.Handler, m ...Middleware) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

// WithBodyLimit caps request bodies. The public surface is GET-only, so the
// limit exists to bound abuse, not to size real payloads.
func WithBodyLimit(limitBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limitBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// WithTimeout bounds slow handlers with http.TimeoutHandler.
func WithTimeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}
