package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	ModeBatch = "batch"
	ModeLogin = "login"

	ChannelEmail   = "email"
	ChannelDiscord = "discord"
	ChannelRedis   = "redis"
)

type Config struct {
	Environment EnvironmentConfig
	Logger      LoggerConfig

	// Run Configuration
	Input    InputConfig
	Detector DetectorConfig
	Output   OutputConfig

	// Storage Configuration
	Postgres PostgresConfig
	MinIO    MinIOConfig

	// Alerting Configuration
	Alert   AlertConfig
	Notify  NotifyConfig
	SMTP    SMTPConfig
	Discord DiscordConfig
	Redis   RedisConfig

	Metrics MetricsConfig
}

// EnvironmentConfig is the configuration for environment-aware features
type EnvironmentConfig struct {
	Name string `env:"ENV" envDefault:"production"`
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string `env:"LOGGER_LEVEL" envDefault:"info"`
	Mode         string `env:"LOGGER_MODE" envDefault:"production"`
	Encoding     string `env:"LOGGER_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOGGER_COLOR_ENABLED" envDefault:"false"`
}

// InputConfig describes the CSV to score and how its columns are used.
type InputConfig struct {
	Path string `env:"INPUT_PATH,notEmpty"`
	Mode string `env:"RUN_MODE" envDefault:"batch"`
	// Categorical and Numeric declare extra feature columns of a batch run;
	// activity_type and the timestamp are always encoded.
	Categorical []string `env:"INPUT_CATEGORICAL" envSeparator:","`
	Numeric     []string `env:"INPUT_NUMERIC" envSeparator:","`
}

// DetectorConfig tunes the ensemble and the sensitivity search.
type DetectorConfig struct {
	Trees            int     `env:"DETECTOR_TREES" envDefault:"100"`
	SampleSize       int     `env:"DETECTOR_SAMPLE_SIZE" envDefault:"256"`
	Seed             int64   `env:"DETECTOR_SEED" envDefault:"42"`
	MinRows          int     `env:"DETECTOR_MIN_ROWS" envDefault:"8"`
	Workers          int     `env:"DETECTOR_WORKERS" envDefault:"4"`
	LoginSensitivity float64 `env:"DETECTOR_LOGIN_SENSITIVITY" envDefault:"0.01"`
}

type OutputConfig struct {
	Dir    string `env:"OUTPUT_DIR" envDefault:"./output"`
	Bucket string `env:"EXPORT_BUCKET"`
}

// PostgresConfig is the configuration for the alert record store
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB" envDefault:"anomaly"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// MinIOConfig is the configuration for the scored dataset export. An empty
// endpoint disables uploads.
type MinIOConfig struct {
	Endpoint      string        `env:"MINIO_ENDPOINT"`
	AccessKey     string        `env:"MINIO_ACCESS_KEY"`
	SecretKey     string        `env:"MINIO_SECRET_KEY"`
	UseSSL        bool          `env:"MINIO_USE_SSL" envDefault:"false"`
	Region        string        `env:"MINIO_REGION" envDefault:"us-east-1"`
	PresignExpiry time.Duration `env:"MINIO_PRESIGN_EXPIRY" envDefault:"24h"`
}

type AlertConfig struct {
	Table string `env:"ALERT_TABLE" envDefault:"login_anomalies"`
}

type NotifyConfig struct {
	Channel        string        `env:"NOTIFY_CHANNEL" envDefault:"email"`
	Recipient      string        `env:"NOTIFY_RECIPIENT"`
	PersistTimeout time.Duration `env:"ALERT_PERSIST_TIMEOUT" envDefault:"30s"`
	NotifyTimeout  time.Duration `env:"ALERT_NOTIFY_TIMEOUT" envDefault:"30s"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
	StartTLS bool   `env:"SMTP_STARTTLS" envDefault:"true"`
}

// DiscordConfig is the configuration for Discord webhook notifications
type DiscordConfig struct {
	WebhookID    string `env:"DISCORD_WEBHOOK_ID"`
	WebhookToken string `env:"DISCORD_WEBHOOK_TOKEN"`
}

// RedisConfig is the configuration for the pub/sub notification channel
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	UseTLS   bool   `env:"REDIS_USE_TLS" envDefault:"false"`
	Channel  string `env:"REDIS_ALERT_CHANNEL" envDefault:"anomaly-alerts"`
}

type MetricsConfig struct {
	// Textfile is a node-exporter textfile path; empty disables the export.
	Textfile string `env:"METRICS_TEXTFILE"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Input.Mode = strings.ToLower(strings.TrimSpace(cfg.Input.Mode))
	cfg.Notify.Channel = strings.ToLower(strings.TrimSpace(cfg.Notify.Channel))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NotifyEnabled reports whether the run feeds the alert pipeline.
func (c *Config) NotifyEnabled() bool {
	return c.Input.Mode == ModeLogin
}

func (c *Config) validate() error {
	var errs []error

	switch c.Input.Mode {
	case ModeBatch, ModeLogin:
	default:
		errs = append(errs, fmt.Errorf("RUN_MODE must be %q or %q, got %q", ModeBatch, ModeLogin, c.Input.Mode))
	}

	if c.Detector.Trees <= 0 {
		errs = append(errs, errors.New("DETECTOR_TREES must be positive"))
	}
	if c.Detector.SampleSize < 2 {
		errs = append(errs, errors.New("DETECTOR_SAMPLE_SIZE must be at least 2"))
	}
	if c.Detector.Workers <= 0 {
		errs = append(errs, errors.New("DETECTOR_WORKERS must be positive"))
	}
	if s := c.Detector.LoginSensitivity; !(s > 0 && s < 1) {
		errs = append(errs, fmt.Errorf("DETECTOR_LOGIN_SENSITIVITY must be in (0,1), got %v", s))
	}

	if c.MinIO.Endpoint != "" && c.Output.Bucket == "" {
		errs = append(errs, errors.New("EXPORT_BUCKET is required when MINIO_ENDPOINT is set"))
	}

	if c.NotifyEnabled() {
		if c.Alert.Table == "" {
			errs = append(errs, errors.New("ALERT_TABLE must not be empty"))
		}
		switch c.Notify.Channel {
		case ChannelEmail:
			if c.SMTP.Host == "" || c.SMTP.From == "" {
				errs = append(errs, errors.New("email channel needs SMTP_HOST and SMTP_FROM"))
			}
			if c.Notify.Recipient == "" {
				errs = append(errs, errors.New("email channel needs NOTIFY_RECIPIENT"))
			}
		case ChannelDiscord:
			if c.Discord.WebhookID == "" || c.Discord.WebhookToken == "" {
				errs = append(errs, errors.New("discord channel needs DISCORD_WEBHOOK_ID and DISCORD_WEBHOOK_TOKEN"))
			}
		case ChannelRedis:
			if c.Redis.Channel == "" {
				errs = append(errs, errors.New("redis channel needs REDIS_ALERT_CHANNEL"))
			}
		default:
			errs = append(errs, fmt.Errorf("NOTIFY_CHANNEL must be email, discord or redis, got %q", c.Notify.Channel))
		}
	}

	return errors.Join(errs...)
}
