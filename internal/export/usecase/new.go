package usecase

import (
	"time"

	"anomaly-srv/internal/export"
	"anomaly-srv/pkg/log"
	"anomaly-srv/pkg/minio"
)

const (
	defaultDir           = "./output"
	defaultPresignExpiry = 24 * time.Hour
	contentTypeCSV       = "text/csv"
)

type Config struct {
	Dir           string
	Bucket        string
	PresignExpiry time.Duration
}

type implUseCase struct {
	l       log.Logger
	storage minio.MinIO
	cfg     Config
}

// New builds the export use case. storage may be nil, in which case only the
// local file is written.
func New(l log.Logger, storage minio.MinIO, cfg Config) export.UseCase {
	if cfg.Dir == "" {
		cfg.Dir = defaultDir
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}
	return &implUseCase{l: l, storage: storage, cfg: cfg}
}
