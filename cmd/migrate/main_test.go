package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/sirene-backend/pkg/config"
	"github.com/angelmondragon/sirene-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOfflineCreateWritesIntoDir(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}

	handled, err := runOffline(options{command: "create", dir: dir, name: "add_watchlist"}, out)
	require.True(t, handled)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "*_add_watchlist.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, out.String(), "created ")

	handled, err = runOffline(options{command: "validate", dir: dir}, out)
	require.True(t, handled)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "migrations ok")
}

func TestRunOfflineCreateRequiresName(t *testing.T) {
	handled, err := runOffline(options{command: "create", dir: t.TempDir()}, &bytes.Buffer{})
	assert.True(t, handled)
	assert.ErrorIs(t, err, errUsage)
}

func TestRunOfflineLeavesDatabaseCommands(t *testing.T) {
	handled, err := runOffline(options{command: "up"}, &bytes.Buffer{})
	assert.False(t, handled)
	assert.NoError(t, err)
}

func TestRunOnlineRejectsBadCommands(t *testing.T) {
	cfg := &config.Config{}
	ctx := context.Background()

	err := runOnline(ctx, cfg, logger.Nop(), options{command: "reset"})
	assert.ErrorIs(t, err, errUsage)

	err = runOnline(ctx, cfg, logger.Nop(), options{command: "version"})
	assert.ErrorIs(t, err, errUsage)
}

func TestRunOnlineMigratesSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sirene.db")
	cfg := &config.Config{DB: config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file:" + path + "?_foreign_keys=1"}}

	require.NoError(t, runOnline(context.Background(), cfg, logger.Nop(), options{command: "up"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
