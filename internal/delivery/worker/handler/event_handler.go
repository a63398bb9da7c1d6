package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "starmobiles/internal/delivery/context"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// retryableError wraps an error to indicate the message should be redelivered
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// EventHandlerParams holds dependencies for the EventHandler
type EventHandlerParams struct {
	fx.In

	Logger         *slog.Logger
	NotificationUC usecase.NotificationUsecase
}

// EventHandler turns one decoded store event into notifications. It is
// shared by the Pub/Sub push endpoint and the Kafka consumer.
type EventHandler struct {
	logger         *slog.Logger
	notificationUC usecase.NotificationUsecase
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(params EventHandlerParams) *EventHandler {
	return &EventHandler{
		logger:         params.Logger,
		notificationUC: params.NotificationUC,
	}
}

// Handle processes the event under a request-scoped logger. Client-side
// domain errors are final; anything else is returned as retryable.
func (h *EventHandler) Handle(ctx context.Context, requestID string, event *service.StoreEvent) error {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing store event",
		slog.String("type", string(event.Type)),
		slog.String("resource_id", event.ResourceID),
	)

	result, err := h.notificationUC.HandleStoreEvent(ctx, event)
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
			return errors.WithStack(err)
		}

		return newRetryableError(err)
	}

	reqLogger.Info("[Worker] Store event processed",
		slog.String("type", string(event.Type)),
		slog.String("resource_id", event.ResourceID),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Int("invalid_tokens", result.InvalidTokens),
		slog.Bool("admin_notified", result.AdminNotified),
	)

	return nil
}
