package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"starmobiles/config"
	"starmobiles/internal/delivery"
	"starmobiles/internal/delivery/worker/handler"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/infra/pubsub"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

const (
	maxProcessAttempts = 5
	initialRetryDelay  = 500 * time.Millisecond
)

// messageReader is the subset of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaConsumer struct {
	reader messageReader
	events *handler.EventHandler
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// ConsumerParams holds dependencies for the Kafka consumer
type ConsumerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	EventHandler *handler.EventHandler
}

// NewKafkaConsumer reads store events from the Kafka topic the relay
// publishes to. Offsets are committed after each message is handled.
func NewKafkaConsumer(params ConsumerParams) (delivery.Delivery, error) {
	cfg := params.Cfg.PubSub
	if cfg == nil || cfg.Provider != pubsub.ProviderKafka {
		return nil, errors.New("kafka consumer requires the kafka pubsub provider")
	}
	brokers := pubsub.SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 || cfg.TopicID == "" {
		return nil, errors.New("brokers and topic ID are required for the kafka consumer")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  params.Cfg.Notifier.ConsumerGroup,
		Topic:    cfg.TopicID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})

	consumer := newKafkaConsumer(reader, params.EventHandler, params.Logger)
	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing Kafka consumer")

			return errors.WithStack(reader.Close())
		},
	})

	return consumer, nil
}

func newKafkaConsumer(reader messageReader, events *handler.EventHandler, logger *slog.Logger) *kafkaConsumer {
	return &kafkaConsumer{
		reader: reader,
		events: events,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Serve consumes until the context is cancelled or the reader is closed.
func (k *kafkaConsumer) Serve(ctx context.Context) error {
	k.logger.Info("Starting Kafka consumer")
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, kafka.ErrGroupClosed) {
				return nil
			}

			return errors.Wrap(err, "failed to fetch kafka message")
		}

		k.process(ctx, msg)

		if err := k.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return errors.Wrap(err, "failed to commit kafka message")
		}
	}
}

// process handles one message, retrying retryable failures with backoff.
// A message that still fails is logged and skipped so the partition moves on.
func (k *kafkaConsumer) process(ctx context.Context, msg kafka.Message) {
	var event service.StoreEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		k.logger.Error("[Worker] Dropping undecodable kafka message",
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.Any("error", err),
		)

		return
	}

	requestID := headerValue(msg.Headers, "request_id")
	if requestID == "" {
		requestID = event.RequestID
	}

	delay := initialRetryDelay
	for attempt := 1; ; attempt++ {
		err := k.events.Handle(ctx, requestID, &event)
		if err == nil {
			return
		}
		if !handler.IsRetryableError(err) || attempt == maxProcessAttempts {
			k.logger.Error("[Worker] Giving up on store event",
				slog.String("request_id", requestID),
				slog.String("resource_id", event.ResourceID),
				slog.Int("attempts", attempt),
				slog.Any("error", err),
			)

			return
		}
		if k.sleep(ctx, delay) != nil {
			return
		}
		delay *= 2
	}
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}

	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
