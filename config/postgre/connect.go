package postgre

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"anomaly-srv/config"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	defaultConnectTimeout = 5 * time.Second
	// A run appends one batch, so the pool stays small.
	defaultMaxIdleConns    = 2
	defaultMaxOpenConns    = 4
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// DSN builds the lib/pq connection string for cfg.
func DSN(cfg config.PostgresConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)
}

// Open prepares the alert record store pool. lib/pq dials lazily, so an
// unreachable server is only reported by Ping or the first query.
func Open(cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	return db, nil
}

// Ping checks that the record store answers within the connect timeout.
func Ping(ctx context.Context, db *sql.DB, cfg config.PostgresConfig) error {
	fmt.Printf("[PostgreSQL] Pinging %s:%d/%s...\n", cfg.Host, cfg.Port, cfg.DBName)

	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()
	if err := db.PingContext(connectCtx); err != nil {
		fmt.Printf("[PostgreSQL] ERROR: Failed to ping database: %v\n", err)
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	fmt.Printf("[PostgreSQL] Successfully connected to %s:%d/%s\n", cfg.Host, cfg.Port, cfg.DBName)
	return nil
}

// Disconnect closes db. A nil db is ignored.
func Disconnect(db *sql.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close PostgreSQL connection: %w", err)
	}
	fmt.Printf("[PostgreSQL] Disconnected successfully\n")
	return nil
}
