package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"anomaly-srv/config"
	configMinio "anomaly-srv/config/minio"
	"anomaly-srv/config/postgre"
	configRedis "anomaly-srv/config/redis"
	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/alert/notifier"
	"anomaly-srv/internal/alert/repository"
	alertRepo "anomaly-srv/internal/alert/repository/postgre"
	alertUC "anomaly-srv/internal/alert/usecase"
	"anomaly-srv/internal/detection"
	detectionUC "anomaly-srv/internal/detection/usecase"
	exportUC "anomaly-srv/internal/export/usecase"
	"anomaly-srv/pkg/discord"
	"anomaly-srv/pkg/iforest"
	"anomaly-srv/pkg/log"
	"anomaly-srv/pkg/mail"
	"anomaly-srv/pkg/metrics"
	"anomaly-srv/pkg/minio"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return 2
	}

	// Initialize logger
	runID := uuid.NewString()
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	}).With("run_id", runID, "mode", cfg.Input.Mode)

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx, logger)

	m := metrics.New()
	defer func() {
		if cfg.Metrics.Textfile == "" {
			return
		}
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warnf(ctx, "Failed to write metrics textfile %s: %v", cfg.Metrics.Textfile, err)
		}
	}()

	input, err := os.Open(cfg.Input.Path)
	if err != nil {
		logger.Errorf(ctx, "Failed to open input %s: %v", cfg.Input.Path, err)
		return 1
	}
	defer input.Close()

	// Initialize MinIO, optional
	var storage minio.MinIO
	if configMinio.Enabled(cfg.MinIO) {
		storage, err = configMinio.Connect(ctx, cfg.MinIO, cfg.Output.Bucket)
		if err != nil {
			// The local export still gets written.
			logger.Warnf(ctx, "MinIO unavailable, export stays local: %v", err)
		} else {
			defer storage.Close()
		}
	}

	exporter := exportUC.New(logger, storage, exportUC.Config{
		Dir:           cfg.Output.Dir,
		Bucket:        cfg.Output.Bucket,
		PresignExpiry: cfg.MinIO.PresignExpiry,
	})

	// Initialize the alert pipeline for login runs. An unreachable store or
	// channel fails its own step later; it never aborts the run.
	var alerts alert.UseCase
	if cfg.NotifyEnabled() {
		var closeAlerts func()
		alerts, closeAlerts = newAlerts(ctx, cfg, logger, m)
		defer closeAlerts()
	}

	uc := detectionUC.New(logger, m, exporter, alerts, detectionUC.Config{
		Ensemble: iforest.Options{
			Trees:      cfg.Detector.Trees,
			SampleSize: cfg.Detector.SampleSize,
			Seed:       cfg.Detector.Seed,
			MinRows:    cfg.Detector.MinRows,
		},
		Workers:          cfg.Detector.Workers,
		LoginSensitivity: cfg.Detector.LoginSensitivity,
	})

	var res detection.RunResult
	switch cfg.Input.Mode {
	case config.ModeLogin:
		res, err = uc.RunLogin(ctx, detection.LoginInput{RunID: runID, Source: input})
	default:
		res, err = uc.RunBatch(ctx, detection.BatchInput{
			RunID:       runID,
			Source:      input,
			Categorical: cfg.Input.Categorical,
			Numeric:     cfg.Input.Numeric,
		})
	}
	if err != nil {
		logger.Errorf(ctx, "Run failed (%s): %v", detection.Kind(err), err)
		return 1
	}

	logger.Infof(ctx, "Run finished: status=%s anomalies=%d/%d sensitivity=%v export=%s",
		res.Status, res.Anomalies, res.Total, res.Sensitivity, res.Export.LocalPath)
	if res.Alert != nil && !res.Alert.Succeeded() {
		logger.Warnf(ctx, "Alert pipeline degraded, see step results above")
	}
	return 0
}

// newAlerts wires the record store and the notification channel.
func newAlerts(ctx context.Context, cfg *config.Config, logger log.Logger, m metrics.Metrics) (alert.UseCase, func()) {
	var repo repository.Repository
	closeDB := func() {}
	db, err := postgre.Open(cfg.Postgres)
	if err != nil {
		logger.Errorf(ctx, "Failed to open PostgreSQL: %v", err)
		repo = repository.Unavailable(err)
	} else {
		if err := postgre.Ping(ctx, db, cfg.Postgres); err != nil {
			logger.Warnf(ctx, "PostgreSQL is not reachable, persistence will be retried at alert time: %v", err)
		}
		repo = alertRepo.New(logger, db)
		closeDB = func() { _ = postgre.Disconnect(db) }
	}

	n, closeNotifier, err := newNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize %s notifier: %v", cfg.Notify.Channel, err)
		n, closeNotifier = notifier.NewUnavailable(cfg.Notify.Channel, err), func() {}
	}

	uc := alertUC.New(logger, repo, n, m, alertUC.Config{
		Table:          cfg.Alert.Table,
		Recipient:      cfg.Notify.Recipient,
		PersistTimeout: cfg.Notify.PersistTimeout,
		NotifyTimeout:  cfg.Notify.NotifyTimeout,
	})
	return uc, func() {
		closeNotifier()
		closeDB()
	}
}

// newNotifier builds the notification channel named by NOTIFY_CHANNEL.
func newNotifier(ctx context.Context, cfg *config.Config, logger log.Logger) (alert.Notifier, func(), error) {
	noop := func() {}
	switch cfg.Notify.Channel {
	case config.ChannelDiscord:
		client, err := discord.NewWithConfig(logger, cfg.Discord.WebhookID, cfg.Discord.WebhookToken, discord.DefaultConfig())
		if err != nil {
			return nil, noop, err
		}
		return notifier.NewDiscord(client), func() { _ = client.Close() }, nil
	case config.ChannelRedis:
		client, err := configRedis.Connect(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		if err := configRedis.Ping(ctx, client, cfg.Redis); err != nil {
			logger.Warnf(ctx, "Redis is not reachable, notification will be retried at alert time: %v", err)
		}
		return notifier.NewRedis(client, cfg.Redis.Channel), func() { _ = client.Close() }, nil
	default:
		mailer, err := mail.New(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			StartTLS: cfg.SMTP.StartTLS,
		})
		if err != nil {
			return nil, noop, err
		}
		return notifier.NewMail(mailer), noop, nil
	}
}
