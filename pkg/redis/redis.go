package redis

import (
	"context"
	"time"
)

func (r *redisImpl) Publish(ctx context.Context, channel string, message []byte) (int64, error) {
	if channel == "" {
		return 0, ErrChannelRequired
	}
	return r.client.Publish(ctx, channel, message).Result()
}

// Ping checks if the connection is alive and returns latency
func (r *redisImpl) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// Close closes the Redis connection
func (r *redisImpl) Close() error {
	return r.client.Close()
}
