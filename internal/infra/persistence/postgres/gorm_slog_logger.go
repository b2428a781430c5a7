package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"knowledgeos/config"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Queries slower than this are logged at warn level.
const gormSlowThreshold = 200 * time.Millisecond

// gormSlogLogger routes GORM's logging through the service slog.Logger so
// query logs share the request pipeline's format and level handling.
type gormSlogLogger struct {
	logger *slog.Logger
	level  logger.LogLevel
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	return &gormSlogLogger{logger: baseLogger, level: level}
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *gormSlogLogger) log(ctx context.Context, min logger.LogLevel, lvl slog.Level, msg string, args ...any) {
	if l.logger == nil || l.level < min {
		return
	}

	l.logger.LogAttrs(ctx, lvl, "GORM", slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.trace(ctx, slog.LevelError, "GORM query failed", sqlAndRowsFn, elapsed,
			slog.String("error", err.Error()))
	case elapsed > gormSlowThreshold && l.level >= logger.Warn:
		l.trace(ctx, slog.LevelWarn, "GORM slow query", sqlAndRowsFn, elapsed,
			slog.Duration("slowThreshold", gormSlowThreshold))
	case l.level >= logger.Info:
		l.trace(ctx, slog.LevelInfo, "GORM query", sqlAndRowsFn, elapsed)
	}
}

func (l *gormSlogLogger) trace(ctx context.Context, lvl slog.Level, msg string, sqlAndRowsFn func() (string, int64), elapsed time.Duration, extra ...slog.Attr) {
	sql, rows := sqlAndRowsFn()
	attrs := append([]slog.Attr{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}, extra...)

	l.logger.LogAttrs(ctx, lvl, msg, attrs...)
}
