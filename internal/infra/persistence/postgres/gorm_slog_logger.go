package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"starmobiles/config"
	deliverycontext "starmobiles/internal/delivery/context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultGormSlowThreshold = 200 * time.Millisecond

// gormSlogLogger routes gorm output through the request logger so query
// lines carry request_id and user_id.
type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	l := &gormSlogLogger{
		logger:        baseLogger,
		level:         logger.Warn,
		slowThreshold: defaultGormSlowThreshold,
	}
	if cfg != nil {
		if cfg.Env.Debug {
			l.level = logger.Info
		}
		if cfg.Env.SlowQueryThreshold > 0 {
			l.slowThreshold = cfg.Env.SlowQueryThreshold
		}
	}

	return l
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.print(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.print(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.print(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *gormSlogLogger) print(ctx context.Context, min logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.level < min || l.logger == nil {
		return
	}
	l.from(ctx).LogAttrs(ctx, level, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *gormSlogLogger) from(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, l.logger)
}

// Trace logs failed, slow and (in debug) all queries. Missing rows and
// constraint violations are expected outcomes the repositories translate,
// so they drop to debug.
func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	query := func(extra ...slog.Attr) []slog.Attr {
		sql, rows := sqlAndRowsFn()
		return append([]slog.Attr{
			slog.Duration("elapsed", elapsed),
			slog.Int64("rows", rows),
			slog.String("sql", sql),
		}, extra...)
	}

	switch {
	case err != nil && (errors.Is(err, gorm.ErrRecordNotFound) || constraintCode(err) != ""):
		l.from(ctx).LogAttrs(ctx, slog.LevelDebug, "gorm expected error", query(slog.String("error", err.Error()))...)
	case err != nil && l.level >= logger.Error:
		l.from(ctx).LogAttrs(ctx, slog.LevelError, "gorm query failed", query(slog.String("error", err.Error()))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		l.from(ctx).LogAttrs(ctx, slog.LevelWarn, "gorm slow query", query(slog.Duration("slow_threshold", l.slowThreshold))...)
	case l.level >= logger.Info:
		l.from(ctx).LogAttrs(ctx, slog.LevelInfo, "gorm query", query()...)
	}
}
