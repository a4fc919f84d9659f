package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/logger"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// QueryLogger routes GORM's statement log through the service logger so SQL
// lines carry the request_id and user_id already attached to ctx.
type QueryLogger struct {
	logg          *logger.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

var _ gormlogger.Interface = (*QueryLogger)(nil)

// NewQueryLogger returns a GORM logger backed by logg. A nil logger silences
// GORM entirely.
func NewQueryLogger(logg *logger.Logger, slowThreshold time.Duration) *QueryLogger {
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowQueryThreshold
	}
	level := gormlogger.Warn
	if logg == nil {
		level = gormlogger.Silent
	} else if logg.Enabled(zerolog.DebugLevel) {
		level = gormlogger.Info
	}
	return &QueryLogger{logg: logg, level: level, slowThreshold: slowThreshold}
}

func (q *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *QueryLogger) Info(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Info {
		q.logg.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *QueryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Warn {
		q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q *QueryLogger) Error(ctx context.Context, msg string, args ...any) {
	if q.level >= gormlogger.Error {
		q.logg.Error(ctx, "db.error", fmt.Errorf(msg, args...))
	}
}

// Trace logs failed statements at error, slow ones at warn and everything else
// at debug. Missing rows are a normal lookup outcome and are not errors.
func (q *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && q.level >= gormlogger.Error:
		q.logg.Error(q.fields(ctx, elapsed, fc), "db.query_failed", err)
	case elapsed > q.slowThreshold && q.level >= gormlogger.Warn:
		ctx = q.fields(ctx, elapsed, fc)
		q.logg.Warn(q.logg.WithField(ctx, "threshold_ms", q.slowThreshold.Milliseconds()), "db.slow_query")
	case q.level >= gormlogger.Info:
		q.logg.Debug(q.fields(ctx, elapsed, fc), "db.query")
	}
}

func (q *QueryLogger) fields(ctx context.Context, elapsed time.Duration, fc func() (string, int64)) context.Context {
	sql, rows := fc()
	return q.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": float64(elapsed.Microseconds()) / 1000,
	})
}
