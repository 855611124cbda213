package root

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/petcare/internal/catalog"
	"github.com/mmeshcher/petcare/internal/cloudsync"
	"github.com/mmeshcher/petcare/internal/config"
	"github.com/mmeshcher/petcare/internal/repository"
	"github.com/mmeshcher/petcare/internal/service"
)

func newLogger() *zap.Logger {
	if !flags.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openService открывает хранилище и загружает состояние. Загрузка выполняет
// миграцию схемы, если она устарела.
func openService(ctx context.Context) (*service.Service, func(), error) {
	balance, err := config.LoadBalance(flags.balanceFile)
	if err != nil {
		return nil, nil, err
	}

	kv, err := repository.Open(ctx, flags.databaseURI)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	var cloud *cloudsync.Client
	if flags.cloudURL != "" {
		cloud = cloudsync.NewClient(flags.cloudURL, flags.cloudToken)
	}

	logger := newLogger()
	svc := service.NewService(repository.NewStore(kv), catalog.Seed(), service.Options{
		Balance: balance,
		Logger:  logger,
		Cloud:   cloud,
	})
	cleanup := func() {
		_ = svc.Close()
		_ = logger.Sync()
	}

	if err := svc.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
