package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"starmobiles/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	localSubscription   = "projects/local/subscriptions/store-events-sub"
	localPublishTimeout = 30 * time.Second
)

// localHTTPPublisher POSTs push envelopes straight to a notifier, standing
// in for a Pub/Sub push subscription during development.
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: localPublishTimeout},
		logger:     logger.With(slog.String("endpoint", endpoint)),
	}
}

func (p *localHTTPPublisher) PublishStoreEvent(ctx context.Context, event *service.StoreEvent) error {
	msg, err := NewPushMessage(event, localSubscription)
	if err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set("X-Request-Id", event.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "notifier unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("notifier returned non-success status: %d", resp.StatusCode)
	}

	p.logger.Debug("[LocalPubSub] Event pushed",
		slog.String("type", string(event.Type)),
		slog.String("resource_id", event.ResourceID),
		slog.String("message_id", msg.Message.MessageID),
	)

	return nil
}

func (p *localHTTPPublisher) Close() error {
	return nil
}
