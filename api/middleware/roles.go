package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/sirene-backend/api/responses"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sirene-backend/pkg/errors"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

// GateMode selects how a gate rejects: JSON errors for the API, redirects
// for pages.
type GateMode int

const (
	APIMode GateMode = iota
	PageMode
)

const (
	loginPath = "/login"
	homePath  = "/"
)

// RequireLogin rejects anonymous callers.
func RequireLogin(mode GateMode, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				rejectAnonymous(mode, logg, w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleChecker answers from the users table, so a role change applies to
// tokens that were minted before it.
type RoleChecker interface {
	UserHasRole(ctx context.Context, userID int64, role enums.UserRole) (bool, error)
}

// RequireAdmin rejects callers without the admin role. The token's role claim
// only short-circuits non-admins; admins are re-checked through checker.
// Anonymous callers are treated as by RequireLogin.
func RequireAdmin(mode GateMode, checker RoleChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p, ok := PrincipalFromContext(ctx)
			if !ok {
				rejectAnonymous(mode, logg, w, r)
				return
			}
			if checker == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "role checker unavailable"))
				return
			}
			isAdmin := p.IsAdmin()
			if isAdmin {
				var err error
				isAdmin, err = checker.UserHasRole(ctx, p.UserID, enums.UserRoleAdmin)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user role"))
					return
				}
			}
			if !isAdmin {
				if mode == PageMode {
					responses.Redirect(w, r, homePath)
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rejectAnonymous(mode GateMode, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	if mode == PageMode {
		responses.Redirect(w, r, loginPath)
		return
	}
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please log in"))
}
