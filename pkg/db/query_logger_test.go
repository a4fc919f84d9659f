package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestQueryLogger(level zerolog.Level, threshold time.Duration) (*QueryLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: level, Output: buf, Format: logger.FormatJSON})
	return NewQueryLogger(logg, threshold), buf
}

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestQueryLoggerLevelFollowsServiceLogger(t *testing.T) {
	debug, _ := newTestQueryLogger(zerolog.DebugLevel, 0)
	assert.Equal(t, gormlogger.Info, debug.level)
	assert.Equal(t, defaultSlowQueryThreshold, debug.slowThreshold)

	info, _ := newTestQueryLogger(zerolog.InfoLevel, time.Second)
	assert.Equal(t, gormlogger.Warn, info.level)

	assert.Equal(t, gormlogger.Silent, NewQueryLogger(nil, 0).level)
}

func TestQueryLoggerTraceFailure(t *testing.T) {
	q, buf := newTestQueryLogger(zerolog.InfoLevel, time.Second)
	ctx := context.Background()

	q.Trace(ctx, time.Now(), statement("SELECT 1", 0), errors.New("relation missing"))

	assert.Contains(t, buf.String(), `"message":"db.query_failed"`)
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
}

func TestQueryLoggerIgnoresRecordNotFound(t *testing.T) {
	q, buf := newTestQueryLogger(zerolog.InfoLevel, time.Second)

	q.Trace(context.Background(), time.Now(), statement("SELECT * FROM media", 0), gorm.ErrRecordNotFound)

	assert.Zero(t, buf.Len())
}

func TestQueryLoggerSlowQuery(t *testing.T) {
	q, buf := newTestQueryLogger(zerolog.InfoLevel, time.Millisecond)

	q.Trace(context.Background(), time.Now().Add(-50*time.Millisecond), statement("SELECT * FROM review", 3), nil)

	assert.Contains(t, buf.String(), `"message":"db.slow_query"`)
	assert.Contains(t, buf.String(), `"rows":3`)
	assert.Contains(t, buf.String(), `"threshold_ms":1`)
}

func TestQueryLoggerDebugTrace(t *testing.T) {
	q, buf := newTestQueryLogger(zerolog.DebugLevel, time.Second)

	q.Trace(context.Background(), time.Now(), statement("SELECT 1", 1), nil)
	assert.Contains(t, buf.String(), `"message":"db.query"`)

	buf.Reset()
	q.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), statement("SELECT 1", 1), errors.New("boom"))
	assert.Zero(t, buf.Len())
}
