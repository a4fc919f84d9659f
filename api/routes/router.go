package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sirene-backend/api/controllers"
	"github.com/angelmondragon/sirene-backend/api/middleware"
	"github.com/angelmondragon/sirene-backend/internal/admin"
	"github.com/angelmondragon/sirene-backend/internal/auth"
	"github.com/angelmondragon/sirene-backend/internal/catalog"
	"github.com/angelmondragon/sirene-backend/internal/media"
	"github.com/angelmondragon/sirene-backend/internal/reviews"
	"github.com/angelmondragon/sirene-backend/pkg/auth/session"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/sirene-backend/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer needs: auth
// throttling counters, idempotency records and the readiness ping.
type RedisStore interface {
	middleware.FixedWindowLimiter
	pkgredis.IdempotencyStore
	Ping(context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisStore RedisStore,
	sessions session.Verifier,
	roles middleware.RoleChecker,
	httpMetrics middleware.RequestObserver,
	metricsHandler http.Handler,
	authService auth.Service,
	registerService auth.RegisterService,
	adminRegisterService auth.AdminRegisterService,
	catalogService catalog.Service,
	mediaService media.Service,
	reviewService reviews.Service,
	adminService admin.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Session(cfg.JWT, sessions, logg),
	)

	// A nil interface keeps the redis-backed middleware disabled.
	var limiter middleware.FixedWindowLimiter
	var idempotencyStore pkgredis.IdempotencyStore
	deps := map[string]controllers.Pinger{"db": dbP}
	if redisStore != nil {
		limiter = redisStore
		idempotencyStore = redisStore
		deps["redis"] = redisStore
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Get("/", controllers.Home(catalogService, logg))

	r.Get("/login", controllers.LoginPage())
	r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(authService, cfg.JWT, logg))
	r.Get("/register", controllers.RegisterPage())
	r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(registerService, logg))
	r.Get("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	if !cfg.App.IsProd() {
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register/admin", controllers.AdminAuthRegister(adminRegisterService, logg))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin(middleware.PageMode, logg))
		r.Get("/search", controllers.SearchPage(catalogService, logg))
		r.Get("/browse", controllers.BrowsePage(catalogService, logg))
		r.Get("/media/{id}", controllers.MediaDetail(mediaService, logg))
		r.Get("/profile", controllers.Profile(reviewService, logg))
	})

	apiRequests := cfg.RateLimit.Requests
	if cfg.RateLimit.Disabled {
		apiRequests = 0
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(apiRequests, cfg.RateLimit.Window, logg))
		r.Use(middleware.RequireLogin(middleware.APIMode, logg))

		r.Get("/browse", controllers.Browse(catalogService, logg))
		r.Get("/search", controllers.QuickSearch(catalogService, logg))
		r.Route("/media", func(r chi.Router) {
			r.Get("/trending", controllers.Trending(catalogService, logg))
			r.Get("/top-rated", controllers.TopRated(catalogService, logg))
			r.Get("/recent", controllers.Recent(catalogService, logg))
			r.Get("/featured", controllers.Featured(catalogService, logg))
			r.Get("/{type}", controllers.ByType(catalogService, logg))
		})
		r.With(middleware.Idempotency(idempotencyStore, middleware.ReviewIdempotencyTTL, logg)).Post("/review", controllers.SubmitReview(reviewService, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(middleware.PageMode, roles, logg))

		r.Get("/", controllers.AdminListMedia(adminService, logg))
		r.Route("/media", func(r chi.Router) {
			r.Get("/new", controllers.AdminNewMediaForm(adminService, logg))
			r.Post("/new", controllers.AdminCreateMedia(adminService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/edit", controllers.AdminEditMediaForm(adminService, logg))
				r.Post("/edit", controllers.AdminUpdateMedia(adminService, logg))
				r.Post("/delete", controllers.AdminDeleteMedia(adminService, logg))
				r.Get("/cast", controllers.AdminCastPage(adminService, logg))
				r.Post("/cast", controllers.AdminAddCredit(adminService, logg))
				r.Post("/cast/delete", controllers.AdminRemoveCredit(adminService, logg))
				r.Get("/assets", controllers.AdminAssetsPage(adminService, logg))
				r.Post("/assets/image", controllers.AdminAddImage(adminService, logg))
				r.Post("/assets/video", controllers.AdminAddVideo(adminService, logg))
				r.Get("/episodes", controllers.AdminEpisodesPage(adminService, logg))
				r.Post("/episodes", controllers.AdminAddEpisode(adminService, logg))
				r.Get("/awards", controllers.AdminAwardsPage(adminService, logg))
				r.Post("/awards", controllers.AdminAddAward(adminService, logg))
			})
		})
		r.Post("/image/{id}/delete", controllers.AdminDeleteImage(adminService, logg))
		r.Post("/video/{id}/delete", controllers.AdminDeleteVideo(adminService, logg))
		r.Post("/episode/{id}/delete", controllers.AdminDeleteEpisode(adminService, logg))
		r.Post("/awardwon/{id}/delete", controllers.AdminDeleteAwardWin(adminService, logg))
		r.Post("/genres", controllers.AdminCreateGenre(adminService, logg))
		r.Post("/platforms", controllers.AdminCreatePlatform(adminService, logg))
		r.Post("/people", controllers.AdminCreatePerson(adminService, logg))
	})

	return r
}
