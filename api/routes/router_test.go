package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sirene-backend/internal/admin"
	"github.com/angelmondragon/sirene-backend/internal/auth"
	"github.com/angelmondragon/sirene-backend/internal/catalog"
	"github.com/angelmondragon/sirene-backend/internal/media"
	"github.com/angelmondragon/sirene-backend/internal/reviews"
	"github.com/angelmondragon/sirene-backend/internal/users"
	pkgAuth "github.com/angelmondragon/sirene-backend/pkg/auth"
	"github.com/angelmondragon/sirene-backend/pkg/auth/session"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/enums"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) Verify(ctx context.Context, accessID string, userID int64) (bool, error) {
	return true, nil
}

// stubRoleChecker treats user 1 as the only stored admin.
type stubRoleChecker struct{}

func (stubRoleChecker) UserHasRole(ctx context.Context, userID int64, role enums.UserRole) (bool, error) {
	return userID == 1 && role == enums.UserRoleAdmin, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour), User: &users.UserDTO{ID: 1}}, nil
}

func (stubAuthService) Logout(ctx context.Context, token string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: 2, Username: req.Username}, nil
}

type stubCatalogService struct {
	catalog.Service
}

func (stubCatalogService) Home(ctx context.Context, loggedIn bool) (*catalog.HomePage, error) {
	return &catalog.HomePage{LoggedIn: loggedIn}, nil
}

func (stubCatalogService) BrowsePage(ctx context.Context) (*catalog.BrowsePage, error) {
	return &catalog.BrowsePage{}, nil
}

func (stubCatalogService) Trending(ctx context.Context) ([]catalog.MediaSummary, error) {
	return []catalog.MediaSummary{}, nil
}

func (stubCatalogService) ByType(ctx context.Context, slug string) ([]catalog.MediaSummary, error) {
	return []catalog.MediaSummary{}, nil
}

type stubMediaService struct{}

func (stubMediaService) Detail(ctx context.Context, id int64) (*media.Detail, error) {
	return &media.Detail{Media: media.Info{ID: id}}, nil
}

type stubReviewService struct {
	submitted *int
}

func (s stubReviewService) Submit(ctx context.Context, userID int64, req reviews.SubmitRequest) error {
	*s.submitted++
	return nil
}

func (s stubReviewService) Profile(ctx context.Context, userID int64) (*reviews.Profile, error) {
	return &reviews.Profile{Reviews: []reviews.UserReview{}}, nil
}

type stubAdminService struct {
	admin.Service
}

func (stubAdminService) ListMedia(ctx context.Context, page int, q string) (*admin.MediaListPage, error) {
	return &admin.MediaListPage{Media: []admin.MediaRow{}, Page: 1, PageSize: admin.PageSize}, nil
}

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: env},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "sirene", ExpirationMinutes: 60, CookieName: "sirene_session"},
		RateLimit: config.RateLimitConfig{
			Requests: 1000,
			Window:   time.Minute,
		},
	}
}

func newTestRouter(t *testing.T, env string, submitted *int) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig(env)
	if submitted == nil {
		submitted = new(int)
	}
	h := NewRouter(
		cfg,
		logger.Nop(),
		stubPinger{},
		nil,
		stubSessionChecker{},
		stubRoleChecker{},
		nil,
		nil,
		stubAuthService{},
		stubRegisterService{},
		stubRegisterService{},
		stubCatalogService{},
		stubMediaService{},
		stubReviewService{submitted: submitted},
		stubAdminService{},
	)
	return h, cfg
}

func tokenFor(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	var userID int64 = 5
	if role == enums.UserRoleAdmin {
		userID = 1
	}
	return tokenForUser(t, cfg, userID, role)
}

func tokenForUser(t *testing.T, cfg *config.Config, userID int64, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Username: "someone",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	require.NoError(t, err)
	return token
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "sirene_session", Value: token})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	h, _ := newTestRouter(t, "dev", nil)

	rec := do(h, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"logged_in":false`)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health/ready", "", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/login", "", "").Code)

	rec = do(h, http.MethodGet, "/logout", "", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAnonymousPagesRedirectToLogin(t *testing.T) {
	h, _ := newTestRouter(t, "dev", nil)
	for _, path := range []string{"/browse", "/search?q=x", "/media/1", "/profile", "/admin", "/admin/media/new"} {
		rec := do(h, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestAnonymousAPIGets401(t *testing.T) {
	submitted := 0
	h, _ := newTestRouter(t, "dev", &submitted)

	rec := do(h, http.MethodGet, "/api/media/trending", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"UNAUTHORIZED","message":"Please log in"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/review", `{"media_id":1,"rating":5}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, submitted)
}

func TestLoggedInUserReachesCatalog(t *testing.T) {
	submitted := 0
	h, cfg := newTestRouter(t, "dev", &submitted)
	token := tokenFor(t, cfg, enums.UserRoleUser)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/browse", "", token).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/media/3", "", token).Code)

	rec := do(h, http.MethodGet, "/api/media/not-a-type", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/review", `{"media_id":1,"rating":5}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, submitted)

	rec = do(h, http.MethodGet, "/", "", token)
	assert.Contains(t, rec.Body.String(), `"logged_in":true`)
}

func TestAdminGate(t *testing.T) {
	h, cfg := newTestRouter(t, "dev", nil)

	rec := do(h, http.MethodGet, "/admin", "", tokenFor(t, cfg, enums.UserRoleUser))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(h, http.MethodGet, "/admin", "", tokenFor(t, cfg, enums.UserRoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page_size":20`)
}

func TestAdminGateUsesStoredRole(t *testing.T) {
	h, cfg := newTestRouter(t, "dev", nil)

	// user 5 was demoted after its admin token was minted
	rec := do(h, http.MethodGet, "/admin", "", tokenForUser(t, cfg, 5, enums.UserRoleAdmin))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLoginRedirectsHome(t *testing.T) {
	h, _ := newTestRouter(t, "dev", nil)
	rec := do(h, http.MethodPost, "/login", `{"username":"a","password":"b"}`, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "tok", rec.Header().Get("X-Sirene-Token"))
}

func TestAdminRegisterOnlyOutsideProd(t *testing.T) {
	body := `{"username":"root","email":"root@example.com","password":"secret1"}`

	dev, _ := newTestRouter(t, "dev", nil)
	assert.Equal(t, http.StatusCreated, do(dev, http.MethodPost, "/register/admin", body, "").Code)

	prod, _ := newTestRouter(t, "prod", nil)
	assert.Equal(t, http.StatusNotFound, do(prod, http.MethodPost, "/register/admin", body, "").Code)
}
