package minio

import (
	"context"
	"fmt"
	"time"

	"anomaly-srv/config"
	miniopkg "anomaly-srv/pkg/minio"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultMaxRetries     = 3
)

// Enabled reports whether an export store is configured.
func Enabled(cfg config.MinIOConfig) bool {
	return cfg.Endpoint != ""
}

// Connect creates the export store client and verifies its credentials,
// retrying with exponential backoff.
func Connect(ctx context.Context, cfg config.MinIOConfig, bucket string) (miniopkg.MinIO, error) {
	fmt.Printf("[MinIO] Attempting to connect to %s (SSL: %v, Region: %s)...\n", cfg.Endpoint, cfg.UseSSL, cfg.Region)

	impl, err := miniopkg.NewMinIO(miniopkg.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Region:    cfg.Region,
		Bucket:    bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout*defaultMaxRetries*2)
	defer cancel()
	if err := impl.ConnectWithRetry(connectCtx, defaultMaxRetries); err != nil {
		fmt.Printf("[MinIO] ERROR: Failed to verify connection: %v\n", err)
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	fmt.Printf("[MinIO] Successfully connected to %s\n", cfg.Endpoint)
	return impl, nil
}
