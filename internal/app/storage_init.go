package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/orderstatus/internal/health"
	"github.com/vladislavdragonenkov/orderstatus/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderstatus/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/orderstatus/internal/storage/redis"
)

type runtimeDependencies struct {
	store          domain.OrderStore
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		logger.Info("storage driver: memory")
		return &runtimeDependencies{
			store: memory.NewOrderStore(),
			storageChecker: healthcheck.NewFuncChecker("memory", func(context.Context) error {
				return nil
			}),
		}, nil

	case StorageDriverPostgres:
		dsn := strings.TrimSpace(cfg.PostgresDSN)
		if dsn == "" {
			return nil, errors.New("postgres dsn is required for postgres storage driver")
		}

		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("migrate postgres schema: %w", err)
			}
		}

		logger.WithField("auto_migrate", cfg.PostgresAutoMigrate).Info("storage driver: postgres")
		return &runtimeDependencies{
			store:          postgres.NewOrderStore(store),
			storageChecker: healthcheck.NewPingChecker("postgres", store),
			closeFn:        store.Close,
		}, nil

	case StorageDriverRedis:
		store, err := redisstore.Open(ctx, redisstore.Options{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}

		logger.WithFields(log.Fields{"addr": cfg.RedisAddr, "db": cfg.RedisDB}).Info("storage driver: redis")
		return &runtimeDependencies{
			store:          redisstore.NewOrderStore(store),
			storageChecker: healthcheck.NewPingChecker("redis", store),
			closeFn:        store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	if d == nil || d.closeFn == nil {
		return
	}
	if err := d.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}
