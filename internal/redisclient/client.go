package redisclient

import (
	"fmt"
	"strings"
	"time"

	"cofounder-radar/internal/config"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration. Addr may be host:port or a
// redis:// / rediss:// URL; explicit username, password and db override the URL.
func New(cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.Addr}
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		u, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis: parse addr: %w", err)
		}
		opts = u
	}
	if cfg.Username != "" {
		opts.Username = cfg.Username
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return redis.NewClient(opts), nil
}
