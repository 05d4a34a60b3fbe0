package store

import (
	"context"
	"fmt"

	"learnpath/backend/config"
	"learnpath/backend/utils"
)

// Open connects the backend named by cfg.DBDriver. When the driver is "memory" (or
// empty), unknown, or unreachable, it logs why and returns a MemoryStore so the service
// keeps running without durable storage.
func Open(ctx context.Context, cfg *config.Config, log *utils.Logger) Store {
	s, err := open(ctx, cfg)
	if err != nil {
		log.Warn("persistent store unavailable, using in-memory store", "driver", cfg.DBDriver, "error", err)
		return NewMemoryStore()
	}
	if s == nil {
		log.Info("using in-memory store")
		return NewMemoryStore()
	}
	log.Info("persistent store ready", "driver", cfg.DBDriver)
	return s
}

func open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case "", "memory":
		return nil, nil
	case "postgres":
		return OpenPostgres(PostgresDSN(cfg))
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "mongo", "mongodb":
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
