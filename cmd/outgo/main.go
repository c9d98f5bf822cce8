// Command outgo runs the expense tracking API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"outgo/internal/auth"
	"outgo/internal/backend"
	"outgo/internal/cli"
	apphttp "outgo/internal/http"
	"outgo/internal/log"
	"outgo/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("invalid backend configuration", log.FieldError, err.Error())
		return
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("failed to create backend",
			log.FieldError, err.Error(), "backend", backendCfg.Type.String())
		return
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	authSvc := auth.NewService(result.Store, result.Store, tokens, logger)
	activities := services.NewActivityService(result.Store, result.Publisher, logger)

	opts := apphttp.Options{RequestsPerMinute: cfg.RequestsPerMinute}
	if p, ok := result.Store.(apphttp.Pinger); ok {
		opts.Pinger = p
	}

	srv := apphttp.NewServer(":"+cfg.Port, activities, authSvc, opts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", log.FieldError, err.Error())
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("backend cleanup failed", log.FieldError, err.Error())
			}
		}
	})

	logger.Info("starting server",
		"addr", srv.Addr, "backend", backendCfg.Type.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", log.FieldError, err.Error())
		return
	}

	cli.WaitForShutdown(ctx, done)
}
