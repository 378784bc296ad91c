// Package store opens the configured persistence backend.
package store

import (
	"context"

	"taskclinic/backend/internal/config"
	"taskclinic/backend/internal/database"
	"taskclinic/backend/internal/repositories"
	"taskclinic/backend/internal/repositories/mongostore"
)

// Open connects to the backend named by cfg.Database.Driver. SQL backends
// are migrated before use; the document store has its indexes ensured.
func Open(ctx context.Context, cfg *config.Config) (*repositories.Repositories, error) {
	if cfg.Database.Driver == config.DriverMongo {
		return mongostore.Open(ctx, mongostore.Config{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
		})
	}

	poolConfig := database.DefaultPoolConfig()
	poolConfig.Driver = cfg.Database.Driver
	poolConfig.DSN = cfg.GetDatabaseDSN()
	poolConfig.MaxOpenConns = cfg.Database.MaxOpenConns
	poolConfig.MaxIdleConns = cfg.Database.MaxIdleConns
	poolConfig.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime
	poolConfig.LogLevel = database.ParseLogLevel(cfg.Database.LogLevel)

	pool, err := database.NewDatabasePool(poolConfig)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(pool.DB); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return repositories.NewGormRepositories(pool.DB), nil
}
