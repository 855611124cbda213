// Package main запускает HTTP-сервер сервиса petcare.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/petcare/internal/catalog"
	"github.com/mmeshcher/petcare/internal/cloudsync"
	"github.com/mmeshcher/petcare/internal/config"
	"github.com/mmeshcher/petcare/internal/handler"
	"github.com/mmeshcher/petcare/internal/middleware"
	"github.com/mmeshcher/petcare/internal/notify"
	"github.com/mmeshcher/petcare/internal/repository"
	"github.com/mmeshcher/petcare/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := repository.Open(ctx, cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}
	store := repository.NewStore(kv)

	var cloudClient *cloudsync.Client
	if cfg.CloudSyncAddress != "" {
		cloudClient = cloudsync.NewClient(cfg.CloudSyncAddress, cfg.CloudSyncToken)
	}

	svc := service.NewService(store, catalog.Seed(), service.Options{
		Balance:  cfg.Balance,
		Logger:   logger,
		Notifier: notify.NewLogNotifier(logger),
		Cloud:    cloudClient,
	})
	defer svc.Close()

	if err := svc.Load(ctx); err != nil {
		sugar.Fatalw("state loading error", "error", err.Error())
	}

	h := handler.NewHandler(svc, logger, middleware.NewTokenAuth(cfg.APIToken))

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Убывание характеристик и автосохранение; при остановке состояние сохраняется
	g.Go(func() error {
		return svc.Run(ctx, cfg.DecayInterval, cfg.AutosaveInterval)
	})

	svc.StartCloudSync(ctx, cfg.SyncInterval)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting petcare server", "addr", cfg.RunAddress, "storage", kindOf(cfg.DatabaseURI))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

// kindOf возвращает тип хранилища без учётных данных из URI.
func kindOf(uri string) string {
	switch {
	case uri == "":
		return "memory"
	case strings.HasPrefix(uri, "postgres"):
		return "postgres"
	default:
		return "sqlite"
	}
}
