package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"go-calc-auth/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Instrument records request latency labelled by the chi route pattern so
// path parameters do not blow up label cardinality.
func Instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			wrapped := newStatusRecorder(w, false)

			next.ServeHTTP(wrapped, r)

			m.ObserveRequest(r.Method, routePattern(r), wrapped.status, time.Since(started))
		})
	}
}

// routePattern is the matched chi pattern, read after routing has run.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}
