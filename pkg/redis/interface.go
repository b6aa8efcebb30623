package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type IRedis interface {
	// Publish sends message on channel and returns the number of subscribers that received it.
	Publish(ctx context.Context, channel string, message []byte) (int64, error)
	Ping(ctx context.Context) (time.Duration, error)
	Close() error
}

// New builds a client. go-redis dials lazily, so an unreachable server only
// surfaces on Ping or Publish.
func New(cfg RedisConfig) (IRedis, error) {
	if cfg.Host == "" {
		return nil, ErrHostRequired
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, ErrInvalidPort
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:      fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: cfg.tlsConfig(),
	})

	return &redisImpl{client: client}, nil
}
