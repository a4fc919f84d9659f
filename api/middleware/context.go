package middleware

import (
	"context"
	"strconv"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// Principal is the authenticated caller resolved from the session token.
type Principal struct {
	UserID    int64
	Username  string
	Role      enums.UserRole
	SessionID string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == enums.UserRoleAdmin
}

// WithPrincipal injects the principal into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	if !ok || p.UserID <= 0 {
		return Principal{}, false
	}
	return p, true
}

// UserIDFromContext returns the principal's id as a string, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return ""
	}
	return strconv.FormatInt(p.UserID, 10)
}

func RoleFromContext(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return ""
	}
	return string(p.Role)
}
