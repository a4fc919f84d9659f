package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
	"github.com/pressly/goose/v3"
)

// shouldAutoRun: sqlite files are always brought up to date, postgres only in
// dev with the auto-migrate flag on.
func shouldAutoRun(cfg *config.Config, dialect string) bool {
	if dialect == DialectSQLite {
		return true
	}
	return cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}

// MaybeRunDev applies pending embedded migrations at boot when allowed and
// returns the schema version the database ends on.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) (int64, error) {
	src := Source{Dialect: client.Dialect()}
	if !shouldAutoRun(cfg, src.Dialect) {
		return 0, nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return 0, err
	}
	if _, err := prepare(src); err != nil {
		return 0, err
	}

	before, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if err := Run(ctx, sqlDB, src, "up"); err != nil {
		return before, fmt.Errorf("auto-migrate: %w", err)
	}
	after, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return before, fmt.Errorf("read schema version: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"dialect": src.Dialect,
		"from":    before,
		"to":      after,
	})
	if after == before {
		logg.Debug(ctx, "migrate.up_to_date")
	} else {
		logg.Info(ctx, "migrate.applied")
	}
	return after, nil
}
