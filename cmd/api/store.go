package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"identity-api/internal/config"
	"identity-api/internal/db"
	"identity-api/internal/repository"
)

// openStore construye el Store según STORE_DRIVER y devuelve su función de cierre.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if cfg.DBAutoMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			logger.Info("migrations applied")
		}
		return repository.NewPgStore(pool), pool.Close, nil

	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", zap.Error(err))
			}
		}
		return repository.NewSharedStore(repository.NewRedisAccountRepository(client)), closeFn, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory account store; data is lost on restart")
		return repository.NewSharedStore(repository.NewMemoryAccountRepository()), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
