package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DefaultDir = "pkg/migrate/migrations"
	SQLiteDir  = "pkg/migrate/migrations_sqlite"

	embeddedPostgresDir = "migrations"
	embeddedSQLiteDir   = "migrations_sqlite"
)

//go:embed migrations/*.sql migrations_sqlite/*.sql
var embedded embed.FS

// Dialect names accepted by Run; they match gorm's Dialector.Name().
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Source picks where goose reads migrations from. An empty Dir selects the
// embedded set for the dialect.
type Source struct {
	Dialect string
	Dir     string
}

func (s Source) resolve() (string, string, fs.FS, error) {
	var gooseDialect, embeddedDir string
	switch s.Dialect {
	case DialectPostgres, "":
		gooseDialect, embeddedDir = "postgres", embeddedPostgresDir
	case DialectSQLite, "sqlite3":
		gooseDialect, embeddedDir = "sqlite3", embeddedSQLiteDir
	default:
		return "", "", nil, fmt.Errorf("unsupported dialect %q", s.Dialect)
	}
	if s.Dir != "" {
		return gooseDialect, s.Dir, nil, nil
	}
	return gooseDialect, embeddedDir, embedded, nil
}

func prepare(src Source) (string, error) {
	dialect, dir, fsys, err := src.resolve()
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return dir, nil
}

// Run executes a standard goose command that requires a DB connection.
func Run(ctx context.Context, db *sql.DB, src Source, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := prepare(src)
	if err != nil {
		return err
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, src Source, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	dir, err := prepare(src)
	if err != nil {
		return err
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil

	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil

	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
