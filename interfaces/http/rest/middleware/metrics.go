package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vector-pai/pkg/observability"
)

// Metrics records latency and count per entity, method and status class.
// A nil recorder disables the middleware.
func Metrics(recorder *observability.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			pattern := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			recorder.RecordRequest(r.Context(), entityOf(pattern), r.Method, ww.Status(), time.Since(start))
		})
	}
}

// unmatchedRoute is the Entity dimension of requests no route matched
const unmatchedRoute = "unmatched"

// entityOf returns the resource segment of a route, e.g. "contrato" for
// /opr/contrato/{id_empresa}
func entityOf(pattern string) string {
	if pattern == unmatchedRoute {
		return unmatchedRoute
	}
	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	if len(parts) == 1 && parts[0] != "" {
		return parts[0]
	}
	return "root"
}
