package main

import (
	"context"
	"log/slog"
	"os"

	"starmobiles/config"
	"starmobiles/internal/delivery"
	"starmobiles/internal/delivery/api"
	"starmobiles/internal/delivery/api/middleware"
	"starmobiles/internal/delivery/api/router/handler"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/infra/auth"
	logs "starmobiles/internal/infra/log"
	"starmobiles/internal/infra/otp"
	"starmobiles/internal/infra/persistence/postgres"
	"starmobiles/internal/infra/pubsub"
	"starmobiles/internal/infra/qrcode"
	"starmobiles/internal/infra/storage"
	"starmobiles/internal/usecase/impl"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
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
		otp.NewRedisClient,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewProductRepository,
			postgres.NewCartRepository,
			postgres.NewBookingRepository,
			postgres.NewOrderRepository,
			postgres.NewDeviceRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			pubsub.NewEventPublisher,
			storage.New,
			newOTPStore,
			newRecoveryStore,
			newSendLimiter,
			newQRCodeService,
		),
	)
}

// newOTPStore keeps OTP codes in Redis with the configured code length.
func newOTPStore(rdb *redis.Client, cfg *config.Config) service.OTPStore {
	return otp.NewOTPStore(rdb, cfg.OTP.Length)
}

func newRecoveryStore(rdb *redis.Client) service.RecoveryStore {
	return otp.NewRecoveryStore(rdb)
}

func newSendLimiter(cfg *config.Config) service.SendLimiter {
	return otp.NewSendLimiter(cfg.OTP.SendInterval, cfg.OTP.SendBurst)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProfileService,
			impl.NewProductService,
			impl.NewCartService,
			impl.NewBookingService,
			impl.NewOrderService,
			impl.NewDeviceService,
			impl.NewStatsService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewAPIKeyMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewBookingHandler,
			handler.NewOrderHandler,
			handler.NewDeviceHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
