package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM output through zap. Statement logs carry the
// request and trace ids of the calling context, so a slow reparent can be
// tied back to the HTTP call that issued it.
type GormLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// GormOption configures a GormLogger
type GormOption func(*GormLogger)

// WithSlowThreshold logs statements slower than d as warnings. Zero disables
// slow statement reporting.
func WithSlowThreshold(d time.Duration) GormOption {
	return func(l *GormLogger) {
		l.slow = d
	}
}

// NewGormLogger creates a GORM logger writing to log under the "gorm" name
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, opts ...GormOption) *GormLogger {
	l := &GormLogger{
		log:   log.Named("gorm"),
		level: level,
		slow:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level
	return &c
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, atLeast gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < atLeast {
		return
	}
	Enrich(ctx, l.log).Log(lvl, fmt.Sprintf(msg, data...))
}

// Trace implements gormlogger.Interface. Failed statements log at error,
// slow ones at warn and everything else at debug when the level is Info.
// Record-not-found is an expected lookup miss and never logged.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent || errors.Is(err, gormlogger.ErrRecordNotFound) {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl    zapcore.Level
		msg    string
		fields []zap.Field
	)
	switch {
	case err != nil && l.level >= gormlogger.Error:
		lvl, msg = zapcore.ErrorLevel, "sql failed"
		fields = append(fields, zap.Error(err))
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		lvl, msg = zapcore.WarnLevel, "slow sql"
		fields = append(fields, zap.Duration("threshold", l.slow))
	case l.level >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "sql"
	default:
		return
	}

	sql, rows := fc()
	fields = append(fields,
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	)
	Enrich(ctx, l.log).Log(lvl, msg, fields...)
}

// MapGormLogLevel maps the application log level to a GORM level. debug and
// info both enable statement logging; unknown levels fall back to warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error", "fatal":
		return gormlogger.Error
	case "debug", "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
