// Command migrate applies, inspects and scaffolds the goose schema migrations
// for both the postgres and sqlite dialects.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/db"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
	"github.com/angelmondragon/sirene-backend/pkg/migrate"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type options struct {
	command string
	dir     string
	name    string
	version string
}

var errUsage = errors.New("usage")

func main() {
	var opts options
	flag.StringVar(&opts.command, "cmd", "up", "up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", "", "migrations directory; empty uses the embedded set for the configured dialect")
	flag.StringVar(&opts.name, "name", "", "migration name for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()

	if handled, err := runOffline(opts, os.Stdout); handled {
		exitOn(err)
		return
	}

	cfg, err := config.Load()
	exitOn(err)

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    opts.command,
		"driver": cfg.DB.Driver,
	})

	if err := runOnline(ctx, cfg, logg, opts); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrate.done")
}

// runOffline handles the commands that only touch migration files.
func runOffline(opts options, out io.Writer) (bool, error) {
	switch opts.command {
	case "create":
		if opts.name == "" {
			return true, fmt.Errorf("%w: -name is required for create", errUsage)
		}
		var paths []string
		var err error
		if opts.dir != "" {
			var path string
			path, err = migrate.CreateSQLMigration(opts.dir, opts.name)
			paths = []string{path}
		} else {
			paths, err = migrate.CreateSQLMigrationPair(migrate.DefaultDir, migrate.SQLiteDir, opts.name)
		}
		if err != nil {
			return true, err
		}
		for _, path := range paths {
			fmt.Fprintln(out, "created", path)
		}
		return true, nil

	case "validate":
		var err error
		if opts.dir != "" {
			err = migrate.ValidateDir(opts.dir)
		} else {
			err = migrate.ValidatePair(migrate.DefaultDir, migrate.SQLiteDir)
		}
		if err == nil {
			fmt.Fprintln(out, "migrations ok")
		}
		return true, err
	}
	return false, nil
}

func runOnline(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options) (err error) {
	switch opts.command {
	case "up", "down", "status", "version":
	default:
		return fmt.Errorf("%w: unknown -cmd %q", errUsage, opts.command)
	}
	if opts.command == "version" && opts.version == "" {
		return fmt.Errorf("%w: -version is required for version", errUsage)
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()

	sqlDB, err := client.SQL()
	if err != nil {
		return err
	}

	src := migrate.Source{Dialect: client.Dialect(), Dir: opts.dir}
	if opts.command == "version" {
		return migrate.MigrateToVersion(ctx, sqlDB, src, opts.version)
	}
	return migrate.Run(ctx, sqlDB, src, opts.command)
}

func exitOn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "migrate:", err)
	if errors.Is(err, errUsage) {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(1)
}
