package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(p *Principal) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if p != nil {
		req = req.WithContext(WithPrincipal(req.Context(), *p))
	}
	return req
}

func TestRequireLogin(t *testing.T) {
	user := &Principal{UserID: 3, Username: "bob", Role: enums.UserRoleUser}

	tests := []struct {
		name     string
		mode     GateMode
		who      *Principal
		status   int
		location string
	}{
		{"api anonymous", APIMode, nil, http.StatusUnauthorized, ""},
		{"page anonymous", PageMode, nil, http.StatusSeeOther, "/login"},
		{"api user", APIMode, user, http.StatusOK, ""},
		{"page user", PageMode, user, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireLogin(tt.mode, nil)(okHandler()).ServeHTTP(rec, requestAs(tt.who))
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestRequireLoginAPIBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireLogin(APIMode, nil)(okHandler()).ServeHTTP(rec, requestAs(nil))
	assert.Contains(t, rec.Body.String(), `"error":"UNAUTHORIZED"`)
	assert.Contains(t, rec.Body.String(), "Please log in")
}

type stubRoleChecker struct {
	admins map[int64]bool
	err    error
	calls  int
}

func (s *stubRoleChecker) UserHasRole(ctx context.Context, userID int64, role enums.UserRole) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return role == enums.UserRoleAdmin && s.admins[userID], nil
}

func TestRequireAdmin(t *testing.T) {
	user := &Principal{UserID: 3, Username: "bob", Role: enums.UserRoleUser}
	admin := &Principal{UserID: 1, Username: "root", Role: enums.UserRoleAdmin}

	tests := []struct {
		name     string
		mode     GateMode
		who      *Principal
		status   int
		location string
	}{
		{"page anonymous", PageMode, nil, http.StatusSeeOther, "/login"},
		{"page user", PageMode, user, http.StatusSeeOther, "/"},
		{"page admin", PageMode, admin, http.StatusOK, ""},
		{"api anonymous", APIMode, nil, http.StatusUnauthorized, ""},
		{"api user", APIMode, user, http.StatusForbidden, ""},
		{"api admin", APIMode, admin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			checker := &stubRoleChecker{admins: map[int64]bool{1: true}}
			RequireAdmin(tt.mode, checker, nil)(okHandler()).ServeHTTP(rec, requestAs(tt.who))
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestRequireAdminRechecksStoredRole(t *testing.T) {
	demoted := &Principal{UserID: 2, Username: "former", Role: enums.UserRoleAdmin}
	checker := &stubRoleChecker{admins: map[int64]bool{1: true}}

	rec := httptest.NewRecorder()
	RequireAdmin(PageMode, checker, nil)(okHandler()).ServeHTTP(rec, requestAs(demoted))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 1, checker.calls)

	rec = httptest.NewRecorder()
	RequireAdmin(APIMode, checker, nil)(okHandler()).ServeHTTP(rec, requestAs(demoted))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminSkipsLookupForUsers(t *testing.T) {
	checker := &stubRoleChecker{}
	user := &Principal{UserID: 3, Username: "bob", Role: enums.UserRoleUser}

	rec := httptest.NewRecorder()
	RequireAdmin(PageMode, checker, nil)(okHandler()).ServeHTTP(rec, requestAs(user))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, checker.calls)
}

func TestRequireAdminRoleLookupFailure(t *testing.T) {
	checker := &stubRoleChecker{err: errors.New("db down")}
	admin := &Principal{UserID: 1, Username: "root", Role: enums.UserRoleAdmin}

	rec := httptest.NewRecorder()
	RequireAdmin(PageMode, checker, nil)(okHandler()).ServeHTTP(rec, requestAs(admin))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	RequireAdmin(PageMode, nil, nil)(okHandler()).ServeHTTP(rec, requestAs(admin))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
