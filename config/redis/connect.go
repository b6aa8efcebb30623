package redis

import (
	"context"
	"fmt"

	"anomaly-srv/config"
	pkgRedis "anomaly-srv/pkg/redis"
)

// Connect builds the pub/sub client used for alert notifications. It does
// not dial; call Ping to check the server.
func Connect(cfg config.RedisConfig) (pkgRedis.IRedis, error) {
	client, err := pkgRedis.New(pkgRedis.RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
		UseTLS:   cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis client: %w", err)
	}
	return client, nil
}

// Ping checks that Redis answers within the connect timeout.
func Ping(ctx context.Context, client pkgRedis.IRedis, cfg config.RedisConfig) error {
	pingCtx, cancel := context.WithTimeout(ctx, pkgRedis.DefaultConnectTimeout)
	defer cancel()

	latency, err := client.Ping(pingCtx)
	if err != nil {
		fmt.Printf("[Redis] ERROR: Failed to ping %s:%d: %v\n", cfg.Host, cfg.Port, err)
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	fmt.Printf("[Redis] Connected to %s:%d (ping %v)\n", cfg.Host, cfg.Port, latency)
	return nil
}
