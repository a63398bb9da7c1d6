package main

import (
	"context"
	"log/slog"
	"os"

	"starmobiles/config"
	"starmobiles/internal/delivery"
	"starmobiles/internal/delivery/worker"
	"starmobiles/internal/delivery/worker/handler"
	logs "starmobiles/internal/infra/log"
	"starmobiles/internal/infra/notification"
	"starmobiles/internal/infra/persistence/postgres"
	"starmobiles/internal/infra/pubsub"
	"starmobiles/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewDeviceRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			notification.New,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewNotificationService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewEventHandler,
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			newKafkaDeliveries,
		),
	)
}

type kafkaDeliveries struct {
	fx.Out

	Deliveries []delivery.Delivery `group:"deliveries,flatten"`
}

// newKafkaDeliveries adds the Kafka consumer when the relay publishes to
// Kafka. Other providers push to the HTTP server instead.
func newKafkaDeliveries(params worker.ConsumerParams) (kafkaDeliveries, error) {
	if params.Cfg.PubSub == nil || params.Cfg.PubSub.Provider != pubsub.ProviderKafka {
		return kafkaDeliveries{}, nil
	}

	consumer, err := worker.NewKafkaConsumer(params)
	if err != nil {
		return kafkaDeliveries{}, err
	}

	return kafkaDeliveries{Deliveries: []delivery.Delivery{consumer}}, nil
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
