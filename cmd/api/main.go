package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/sirene-backend/api/routes"
	"github.com/angelmondragon/sirene-backend/internal/admin"
	"github.com/angelmondragon/sirene-backend/internal/auth"
	"github.com/angelmondragon/sirene-backend/internal/catalog"
	"github.com/angelmondragon/sirene-backend/internal/media"
	"github.com/angelmondragon/sirene-backend/internal/reviews"
	"github.com/angelmondragon/sirene-backend/internal/users"
	"github.com/angelmondragon/sirene-backend/pkg/auth/session"
	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
	"github.com/angelmondragon/sirene-backend/pkg/metrics"
	"github.com/angelmondragon/sirene-backend/pkg/migrate"
	"github.com/angelmondragon/sirene-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if _, err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	sqlDB, err := dbClient.SQL()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, "sirene"),
	)
	httpMetrics := metrics.NewHTTPMetrics(reg)
	queryMetrics := metrics.NewQueryMetrics(reg)

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	adminRegisterService, err := auth.NewAdminRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:    catalog.NewRepository(dbClient.DB()),
		Metrics: queryMetrics,
	})
	if err != nil {
		return err
	}
	mediaService, err := media.NewService(media.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:  reviews.NewRepository(dbClient.DB()),
		Users: userRepo,
	})
	if err != nil {
		return err
	}
	adminService, err := admin.NewService(admin.ServiceParams{DB: dbClient})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"dialect": dbClient.Dialect(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			userRepo,
			httpMetrics,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			authService,
			registerService,
			adminRegisterService,
			catalogService,
			mediaService,
			reviewService,
			adminService,
		),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
