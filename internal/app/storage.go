package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/mintmind/internal/adapter/memory"
	"github.com/heartmarshall/mintmind/internal/adapter/postgres"
	"github.com/heartmarshall/mintmind/internal/adapter/postgres/kv"
	"github.com/heartmarshall/mintmind/internal/adapter/sqlite"
	"github.com/heartmarshall/mintmind/internal/config"
)

// KV is the key-value capability every storage backend provides.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

// OpenStorage opens the configured backend and applies its migrations. The
// returned function releases it.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (KV, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Info("storage opened", slog.String("driver", config.StorageMemory))
		return memory.New(cfg.Storage.MemoryQuotaBytes), func() {}, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storage opened",
			slog.String("driver", config.StorageSQLite),
			slog.String("path", cfg.Storage.SQLitePath),
		)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close sqlite", slog.String("error", err.Error()))
			}
		}, nil

	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("storage opened",
			slog.String("driver", config.StoragePostgres),
			slog.Int("migrations_applied", applied),
		)
		return kv.New(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
