package redis

import (
	"crypto/tls"

	goredis "github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	UseTLS   bool
}

type redisImpl struct {
	client *goredis.Client
}

func (cfg RedisConfig) tlsConfig() *tls.Config {
	if !cfg.UseTLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12, ServerName: cfg.Host}
}
