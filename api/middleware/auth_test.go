package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/auth"
	"github.com/angelmondragon/sirene-backend/pkg/auth/session"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "sirene", ExpirationMinutes: 60, CookieName: "sirene_session"}
}

func TestSessionLeavesAnonymousRequestsAlone(t *testing.T) {
	var seen bool
	handler := Session(testJWTConfig(), stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if seen {
		t.Fatal("expected no principal for anonymous request")
	}
}

func TestSessionIgnoresInvalidToken(t *testing.T) {
	var seen bool
	handler := Session(testJWTConfig(), stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || seen {
		t.Fatalf("expected anonymous pass-through, got %d seen=%v", resp.Code, seen)
	}
}

func TestSessionReadsCookie(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, 7, "alice", enums.UserRoleUser)

	var got Principal
	handler := Session(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/browse", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got.UserID != 7 || got.Username != "alice" {
		t.Fatalf("unexpected principal %+v", got)
	}
	if got.IsAdmin() {
		t.Fatal("regular user must not be admin")
	}
	if got.SessionID == "" {
		t.Fatal("expected session id from jti")
	}
}

func TestSessionReadsBearerHeader(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, 1, "root", enums.UserRoleAdmin)

	var role string
	handler := Session(cfg, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if role != string(enums.UserRoleAdmin) {
		t.Fatalf("expected admin role got %q", role)
	}
}

func TestSessionRevokedTokenIsAnonymous(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, 7, "alice", enums.UserRoleUser)

	var seen bool
	handler := Session(cfg, stubSessionVerifier{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen {
		t.Fatal("revoked session must not resolve a principal")
	}
}

func TestSessionStoreFailureIsDependencyError(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, 7, "alice", enums.UserRoleUser)

	called := false
	handler := Session(cfg, stubSessionVerifier{err: errors.New("redis down")}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if called {
		t.Fatal("handler should not run when the session store fails")
	}
}

func TestSessionTokenPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "c", Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")
	if got := SessionToken(req, "c"); got != "from-cookie" {
		t.Fatalf("expected cookie token got %q", got)
	}
	if got := SessionToken(req, "other"); got != "from-header" {
		t.Fatalf("expected header token got %q", got)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID int64, username string, role enums.UserRole) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID:   userID,
		Username: username,
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) Verify(ctx context.Context, accessID string, userID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}
