package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"starmobiles/config"
	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/infra/pubsub"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// tokenVerifier checks the OIDC token of a push request.
type tokenVerifier func(req *http.Request) error

// PushHandler handles Pub/Sub push messages carrying store events
type PushHandler struct {
	verify tokenVerifier
	logger *slog.Logger
	events *EventHandler
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config       *config.Config
	Logger       *slog.Logger
	EventHandler *EventHandler
}

// NewPushHandler creates a new Pub/Sub push handler. Push tokens are only
// verified for the google provider outside development.
func NewPushHandler(params PushHandlerParams) *PushHandler {
	h := &PushHandler{
		logger: params.Logger,
		events: params.EventHandler,
	}
	if params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == pubsub.ProviderGoogle &&
		!params.Config.IsDevelop() {
		h.verify = verifyPubSubToken
	}

	return h
}

// HandlePush handles incoming Pub/Sub push messages.
// 503 asks Pub/Sub to redeliver; 200 acknowledges, including messages that
// can never succeed.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verify != nil {
		if err := h.verify(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := pushMsg.StoreEvent()
	if err != nil {
		h.logger.Error("[Worker] Dropping undecodable message",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := extractRequestID(ctx, pushMsg.Message.Attributes, event)
	if err := h.events.Handle(ctx, requestID, event); err != nil {
		h.logger.Error("[Worker] Failed to process store event",
			slog.String("request_id", requestID),
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
			slog.Bool("retryable", IsRetryableError(err)),
		)
		if IsRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID picks the request id from message attributes, then the
// event, then the X-Request-Id of the push request.
func extractRequestID(ctx context.Context, attributes map[string]string, event *service.StoreEvent) string {
	if requestID := attributes["request_id"]; requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	return deliverycontext.GetRequestIDFromContext(ctx)
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return errors.New("invalid authorization header format")
	}

	// The audience is the URL of this endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
