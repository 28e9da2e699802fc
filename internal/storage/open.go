package storage

import (
	"context"
	"fmt"

	"cofounder-radar/internal/config"
	"cofounder-radar/internal/redisclient"
)

// Open builds the Store selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "", "redis":
		rdb, err := redisclient.New(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb), nil
	case "mongo":
		return NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
