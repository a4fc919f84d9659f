package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

// ValidatePair validates both migration sets and checks that every version
// exists for both dialects.
func ValidatePair(postgresDir, sqliteDir string) error {
	pg, err := validateDir(postgresDir)
	if err != nil {
		return err
	}
	lite, err := validateDir(sqliteDir)
	if err != nil {
		return err
	}
	for version, name := range pg {
		if _, ok := lite[version]; !ok {
			return fmt.Errorf("migration %q has no sqlite counterpart in %q", name, sqliteDir)
		}
	}
	for version, name := range lite {
		if _, ok := pg[version]; !ok {
			return fmt.Errorf("sqlite migration %q has no postgres counterpart in %q", name, postgresDir)
		}
	}
	return nil
}

// ValidateDir validates migration filenames + basic SQL headers.
func ValidateDir(dir string) error {
	_, err := validateDir(dir)
	return err
}

func validateDir(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}

	return seen, nil
}
