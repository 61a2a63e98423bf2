package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	redisstore "github.com/vladislavdragonenkov/orderstatus/internal/storage/redis"
)

// StorageDriver выбирает бэкенд хранилища заказов.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverRedis    StorageDriver = "redis"
)

// ErrSelfIDRequired: без собственной идентичности сервис не сможет принять ни одной изменяющей операции.
var ErrSelfIDRequired = errors.New("self id is required")

// Config описывает настройки запуска приложения.
type Config struct {
	GRPCAddr    string
	MetricsAddr string

	// SelfID: идентичность, от имени которой разрешено создавать и обновлять заказы.
	SelfID string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска в памяти.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:            ":50051",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		RedisAddr:           "localhost:6379",
		RedisKeyPrefix:      redisstore.DefaultKeyPrefix,
		ShutdownTimeout:     5 * time.Second,
	}
}

// Validate проверяет конфигурацию до открытия хранилища и возвращает все найденные проблемы сразу.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.SelfID) == "" {
		errs = append(errs, ErrSelfIDRequired)
	}

	switch c.StorageDriver {
	case "", StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("postgres dsn is required for postgres storage driver"))
		}
	case StorageDriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("redis addr is required for redis storage driver"))
		}
		if c.RedisDB < 0 {
			errs = append(errs, fmt.Errorf("redis db must be non-negative, got %d", c.RedisDB))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}

	return errors.Join(errs...)
}
