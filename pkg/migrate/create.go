package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

const migrationTemplate = `-- +goose Up
-- %[1]s (%[2]s)

-- +goose Down
-- rollback %[1]s (%[2]s)
`

// CreateSQLMigration writes one empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<name>.sql and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	paths, err := createMigrations(time.Now().UTC(), name, map[string]string{DialectPostgres: dir})
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// CreateSQLMigrationPair writes the postgres migration and its sqlite twin
// under the same version, which ValidatePair expects.
func CreateSQLMigrationPair(postgresDir, sqliteDir, name string) ([]string, error) {
	return createMigrations(time.Now().UTC(), name, map[string]string{
		DialectPostgres: postgresDir,
		DialectSQLite:   sqliteDir,
	})
}

func createMigrations(now time.Time, name string, dirs map[string]string) ([]string, error) {
	safe, err := sanitizeMigrationName(name)
	if err != nil {
		return nil, err
	}
	version := now.Format("20060102150405")
	filename := fmt.Sprintf("%s_%s.sql", version, safe)

	type target struct{ dialect, path string }
	var targets []target
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		dir, ok := dirs[dialect]
		if !ok {
			continue
		}
		if dir == "" {
			return nil, fmt.Errorf("%s dir is required", dialect)
		}
		full := filepath.Join(dir, filename)
		if _, err := os.Stat(full); err == nil {
			return nil, fmt.Errorf("migration already exists: %s", full)
		}
		targets = append(targets, target{dialect: dialect, path: full})
	}

	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", filepath.Dir(t.path), err)
		}
		body := fmt.Sprintf(migrationTemplate, safe, t.dialect)
		if err := os.WriteFile(t.path, []byte(body), 0o644); err != nil {
			return nil, fmt.Errorf("write migration %q: %w", t.path, err)
		}
		paths = append(paths, t.path)
	}
	return paths, nil
}

func sanitizeMigrationName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name is required")
	}
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	return safe, nil
}
