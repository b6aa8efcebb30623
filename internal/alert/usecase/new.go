package usecase

import (
	"time"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/alert/repository"
	"anomaly-srv/pkg/log"
	"anomaly-srv/pkg/metrics"
)

const (
	defaultPersistTimeout = 30 * time.Second
	defaultNotifyTimeout  = 30 * time.Second
)

// Config holds the per-deployment settings of the pipeline.
type Config struct {
	Table          string
	Recipient      string
	PersistTimeout time.Duration
	NotifyTimeout  time.Duration
}

type implUseCase struct {
	logger   log.Logger
	repo     repository.Repository
	notifier alert.Notifier
	metrics  metrics.Metrics
	cfg      Config
}

func New(logger log.Logger, repo repository.Repository, notifier alert.Notifier, m metrics.Metrics, cfg Config) alert.UseCase {
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = defaultPersistTimeout
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	return &implUseCase{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		cfg:      cfg,
	}
}
