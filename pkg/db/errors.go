package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique-constraint failure from
// Postgres (pgx or lib/pq), sqlite, or GORM's translated ErrDuplicatedKey.
// A non-empty constraintName must also match; sqlite errors carry no
// constraint name and only match when none is asked for.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if code, constraint, ok := postgresCode(err); ok {
		return code == pgUniqueViolation && matchesConstraint(constraint, constraintName)
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return constraintName == "" &&
			(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}
	return constraintName == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKeyViolation reports whether err is a foreign-key failure, e.g. a
// review pointing at media deleted in the meantime.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if code, _, ok := postgresCode(err); ok {
		return code == pgForeignKeyViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// IsNotFound reports whether err is GORM's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func postgresCode(err error) (code, constraint string, ok bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

func matchesConstraint(actual, want string) bool {
	return want == "" || actual == want
}
