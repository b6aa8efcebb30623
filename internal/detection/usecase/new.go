package usecase

import (
	"time"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/detection"
	"anomaly-srv/internal/export"
	"anomaly-srv/pkg/iforest"
	"anomaly-srv/pkg/log"
	"anomaly-srv/pkg/metrics"
)

const defaultLoginSensitivity = 0.01

type Config struct {
	Ensemble         iforest.Options
	Workers          int
	LoginSensitivity float64
}

type implUseCase struct {
	l        log.Logger
	metrics  metrics.Metrics
	exporter export.UseCase
	alerts   alert.UseCase
	cfg      Config
	now      func() time.Time
}

// New wires the detection use case. alerts is only needed for login runs.
func New(l log.Logger, m metrics.Metrics, exporter export.UseCase, alerts alert.UseCase, cfg Config) detection.UseCase {
	if cfg.LoginSensitivity <= 0 {
		cfg.LoginSensitivity = defaultLoginSensitivity
	}
	return &implUseCase{
		l:        l,
		metrics:  m,
		exporter: exporter,
		alerts:   alerts,
		cfg:      cfg,
		now:      time.Now,
	}
}
