package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/router"
	"github.com/iliyamo/rental-booking/internal/service"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the relational schema before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, log *logrus.Logger, migrate bool) error {
	stores, err := openStores(ctx, cfg, log, migrate)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.WithError(err).Warn("close storage")
		}
	}()

	opts := []service.Option{service.WithLogger(log)}
	if cfg.EventsEnabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.RabbitURL, log)))
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.BookingLogDir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("booking consumer stopped")
			}
		}()
	}
	svc := service.New(stores, opts...)

	var rdb *redis.Client
	if cfg.Cache.Enabled || cfg.RateLimit.Enabled {
		if rdb = config.NewRedisClient(ctx, cfg.Redis); rdb != nil {
			defer rdb.Close()
		} else {
			log.WithField("addr", cfg.Redis.Addr).Warn("redis unreachable, cache and rate limit disabled")
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			}).Info("request")
			return nil
		},
	}))

	router.Register(e, router.Handlers{
		Auth:   handler.NewAuthHandler(svc, cfg.JWTSecret, cfg.AccessTTL, cfg.AdminEmail),
		Admin:  handler.NewAdminHandler(svc),
		Browse: handler.NewBrowseHandler(svc),
		Host:   handler.NewHostHandler(svc),
		Guest:  handler.NewGuestHandler(svc),
	}, router.Middleware{
		Cache:      middleware.NewRedisCache(cfg.Cache, rdb, log),
		Invalidate: middleware.NewCacheInvalidator(cfg.Cache, rdb, log),
		RateLimit:  middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "storage": cfg.Storage}).Info("listening")

	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
