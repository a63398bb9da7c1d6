// Package context carries per-request values from the relay's delivery
// layer down to the usecases: the request id and a logger already tagged
// with it and, once authenticated, with the caller.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyLogger
)

// HeaderXRequestID is echoed back on every relay response.
const HeaderXRequestID = echo.HeaderXRequestID

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)

	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// GetLoggerOrDefault returns the request logger, or fallback outside a
// request (workers, tests).
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(keyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// WithUser tags the request logger with the authenticated shopper so
// every usecase log line names who acted.
func WithUser(ctx context.Context, fallback *slog.Logger, userID uuid.UUID, admin bool) context.Context {
	logger := GetLoggerOrDefault(ctx, fallback).With(
		slog.String("user_id", userID.String()),
		slog.Bool("admin", admin),
	)

	return WithLogger(ctx, logger)
}
