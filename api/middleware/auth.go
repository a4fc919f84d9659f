package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/api/validators"
	pkgAuth "github.com/angelmondragon/sirene-backend/pkg/auth"
	"github.com/angelmondragon/sirene-backend/pkg/auth/session"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

// Session resolves the caller from the session cookie or a bearer token and
// seeds the request context with the principal. Requests without a usable
// token continue anonymously; the gates decide what to do with them.
func Session(cfg config.JWTConfig, verifier session.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cfg.CookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil || claims.ID == "" {
				if logg != nil {
					logg.Debug(r.Context(), "session.token_rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			if verifier != nil {
				ok, err := verifier.Verify(r.Context(), claims.ID, claims.UserID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID:    claims.UserID,
				Username:  claims.Username,
				Role:      claims.Role,
				SessionID: claims.ID,
			})
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
				ctx = logg.WithField(ctx, "actor_role", string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken returns the raw token from the named cookie, falling back to
// an Authorization bearer header.
func SessionToken(r *http.Request, cookieName string) string {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			if v := strings.TrimSpace(c.Value); v != "" {
				return v
			}
		}
	}
	token, _ := validators.BearerToken(r.Header.Get("Authorization"))
	return token
}
