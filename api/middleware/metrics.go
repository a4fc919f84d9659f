package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
	Observe(route, method string, status int, elapsed time.Duration)
}

// Metrics reports each request under its chi route pattern so path
// parameters do not explode label cardinality.
func Metrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			observer.Observe(route, r.Method, status, time.Since(start))
		})
	}
}
