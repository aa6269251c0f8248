package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brasaerp/brasaerp/internal/api"
	"github.com/brasaerp/brasaerp/internal/app"
	"github.com/brasaerp/brasaerp/internal/shared"
	"github.com/brasaerp/brasaerp/internal/store"
	"github.com/brasaerp/brasaerp/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	st, err := store.Open(store.Config{
		Path:              cfg.StatePath,
		LowStockThreshold: cfg.LowStockThreshold,
		Logger:            logger,
	})
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}

	sessionManager := shared.NewSessionManager("brasaerp_session", cfg.SessionTTL, cfg.IsProduction())
	handler := api.NewHandler(logger, st, sessionManager)
	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		APIHandler:     handler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		err := jobs.NotificationSweep(ctx, st, logger, cfg.NotifyInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("stopped")
}
