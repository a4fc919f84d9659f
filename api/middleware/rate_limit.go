package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/angelmondragon/sirene-backend/api/responses"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

// RateLimit applies a per-IP request budget using httprate's sliding window
// counter. A non-positive budget or window disables it.
func RateLimit(requests int, window time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "ip", clientIP(r)), "rate_limit.blocked")
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
		}),
	)
}
