package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

// Logging writes one line per finished request. Health probes only log at
// debug level so they don't drown the catalog traffic.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
				"ip":     clientIP(r),
			})

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			ctx = logg.WithFields(ctx, map[string]any{
				"status":      rec.status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			switch {
			case strings.HasPrefix(r.URL.Path, "/health/"):
				logg.Debug(ctx, "request.complete")
			case rec.status >= http.StatusInternalServerError:
				logg.Warn(ctx, "request.failed")
			default:
				logg.Info(ctx, "request.complete")
			}
		})
	}
}
