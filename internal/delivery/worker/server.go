// Package worker is the notifier's delivery: a Pub/Sub push endpoint and,
// for the kafka provider, a topic consumer.
package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"starmobiles/config"
	"starmobiles/internal/delivery"
	"starmobiles/internal/delivery/middleware"
	"starmobiles/internal/delivery/worker/handler"
	"starmobiles/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Push envelopes carry one store event; anything larger is not ours.
const maxPushBody = "256K"

type pushServer struct {
	addr   string
	echo   *echo.Echo
	logger *slog.Logger
}

type ServerParams struct {
	fx.In
	fx.Lifecycle

	Cfg         *config.Config
	Logger      *slog.Logger
	PushHandler *handler.PushHandler
}

// NewServer serves the push endpoint on Notifier.Port.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := &pushServer{
		addr:   net.JoinHostPort("0.0.0.0", strconv.Itoa(params.Cfg.Notifier.Port)),
		echo:   newPushEcho(params.Cfg, params.Logger, params.PushHandler),
		logger: params.Logger.With(slog.String("delivery", "push")),
	}
	params.Append(fx.Hook{OnStop: srv.shutdown})

	return srv, nil
}

func newPushEcho(cfg *config.Config, logger *slog.Logger, push *handler.PushHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		echomiddleware.Recover(),
		middleware.NewRequestIDMiddleware(logger).Process,
		middleware.NewLoggerMiddleware(logger, cfg).Handle,
		echomiddleware.BodyLimit(maxPushBody),
	)

	provider := "local"
	if cfg.PubSub != nil && cfg.PubSub.Provider != "" {
		provider = cfg.PubSub.Provider
	}
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "provider": provider})
	})
	e.POST("/push", push.HandlePush)

	return e
}

func (s *pushServer) Serve(_ context.Context) error {
	s.logger.Info("Push endpoint listening", slog.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *pushServer) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Push endpoint draining")

	return errors.WithStack(s.echo.Shutdown(ctx))
}
