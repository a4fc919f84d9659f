package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/angelmondragon/sirene-backend/api/responses"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/sirene-backend/pkg/redis"
)

// maxAuthPeek bounds how much of a login or register body is buffered to find
// the username.
const maxAuthPeek = 64 << 10

// FixedWindowLimiter counts hits against a named scope within a window.
type FixedWindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (pkgredis.Window, error)
}

// AuthRateLimitPolicy throttles one auth endpoint per client IP and per
// username. A zero limit switches that dimension off.
type AuthRateLimitPolicy struct {
	name          string
	window        time.Duration
	ipLimit       int64
	usernameLimit int64
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, usernameLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:          name,
		window:        window,
		ipLimit:       int64(ipLimit),
		usernameLimit: int64(usernameLimit),
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.usernameLimit > 0)
}

// authCheck is one counter a request is charged against.
type authCheck struct {
	dimension string
	subject   string
	limit     int64
}

func (p AuthRateLimitPolicy) scope(c authCheck) string {
	return c.dimension + ":" + p.name + ":" + c.subject
}

// AuthRateLimit enforces the policy on login and registration. The username is
// read from the JSON body, which is handed on intact to the next handler.
// Usernames are hashed before they reach Redis or the logs.
func AuthRateLimit(policy AuthRateLimitPolicy, limiter FixedWindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var checks []authCheck
			if ip := clientIP(r); policy.ipLimit > 0 && ip != "" {
				checks = append(checks, authCheck{dimension: "ip", subject: ip, limit: policy.ipLimit})
			}
			if policy.usernameLimit > 0 {
				username, err := peekUsername(r)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				if username != "" {
					checks = append(checks, authCheck{dimension: "username", subject: hashValue(username), limit: policy.usernameLimit})
				}
			}

			for _, check := range checks {
				win, err := limiter.FixedWindowAllow(ctx, policy.scope(check), check.limit, policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !win.Allowed {
					rejectAuthAttempt(ctx, logg, w, policy, check, win)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// peekUsername reads the request body, restores it and returns the
// normalized username, if the body is JSON carrying one.
func peekUsername(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAuthPeek))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))

	var payload struct {
		Username string `json:"username"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(payload.Username)), nil
}

func rejectAuthAttempt(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, check authCheck, win pkgredis.Window) {
	retryAfter := win.ResetIn
	if retryAfter <= 0 {
		retryAfter = policy.window
	}
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":      policy.name,
			"dimension":   check.dimension,
			"subject":     check.subject,
			"attempts":    win.Count,
			"limit":       check.limit,
			"retry_after": retryAfter.String(),
		}), "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
