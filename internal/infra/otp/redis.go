package otp

import (
	"context"
	"log/slog"

	"starmobiles/config"
	"starmobiles/internal/domain/lifecycle"
	"starmobiles/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the dependencies of the Redis client.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewRedisClient connects to Redis and closes it on shutdown.
func NewRedisClient(params Params) (*redis.Client, error) {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}
			params.Logger.Info("Redis connected", slog.String("addr", cfg.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

// Module wires the Redis-backed OTP, recovery and limiter services.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewRedisClient,
		func(c *redis.Client) redis.Cmdable { return c },
		func(rdb redis.Cmdable, cfg *config.Config) service.OTPStore {
			return NewOTPStore(rdb, cfg.OTP.Length)
		},
		NewRecoveryStore,
		func(cfg *config.Config) service.SendLimiter {
			return NewSendLimiter(cfg.OTP.SendInterval, cfg.OTP.SendBurst)
		},
	),
)
