package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	liteUnique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx unique", err: fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}), want: true},
		{name: "pgx unique matching constraint", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, constraint: "users_email_key", want: true},
		{name: "pgx unique other constraint", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, constraint: "genre_name_key", want: false},
		{name: "pgx foreign key", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "pq unique", err: &pq.Error{Code: "23505", Constraint: "genre_name_key"}, want: true},
		{name: "sqlite unique", err: fmt.Errorf("insert genre: %w", liteUnique), want: true},
		{name: "sqlite unique with constraint name", err: liteUnique, constraint: "genre_name_key", want: false},
		{name: "sqlite foreign key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503", ConstraintName: "review_media_id_fkey"}))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert review: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey})))
	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}

// The real driver must surface errors the helpers recognise.
func TestSQLiteDriverErrorsAreClassified(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:errors_classify?mode=memory&cache=shared&_foreign_keys=1"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, conn.WithContext(ctx).Exec(`CREATE TABLE genre (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`).Error)
	require.NoError(t, conn.WithContext(ctx).Exec(`CREATE TABLE media_genre (genre_id INTEGER NOT NULL REFERENCES genre (id))`).Error)
	require.NoError(t, conn.WithContext(ctx).Exec(`INSERT INTO genre (name) VALUES ('Drama')`).Error)

	err = conn.WithContext(ctx).Exec(`INSERT INTO genre (name) VALUES ('Drama')`).Error
	assert.True(t, IsUniqueViolation(err, ""), "got %v", err)

	err = conn.WithContext(ctx).Exec(`INSERT INTO media_genre (genre_id) VALUES (99)`).Error
	assert.True(t, IsForeignKeyViolation(err), "got %v", err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("find media: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("boom")))
}
