package usecase

import (
	"context"
	"errors"
	"sync"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/alert/repository"
)

const (
	stepPersistence  = "persistence"
	stepNotification = "notification"
)

func (uc *implUseCase) Process(ctx context.Context, batch alert.Batch) alert.Outcome {
	if batch.Empty() {
		uc.logger.Infof(ctx, "internal.alert.usecase.Process: run %s has no anomalies, nothing to persist or send", batch.RunID)
		out := alert.Outcome{
			Persistence:  alert.StepResult{Status: alert.StatusSkipped},
			Notification: alert.StepResult{Status: alert.StatusSkipped},
		}
		uc.record(out)
		return out
	}

	// The two side effects touch disjoint systems and each gets its own
	// deadline; neither can cancel the other.
	var (
		out alert.Outcome
		wg  sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		out.Persistence = uc.persist(ctx, batch)
	}()
	go func() {
		defer wg.Done()
		out.Notification = uc.notify(ctx, batch)
	}()
	wg.Wait()

	uc.record(out)
	return out
}

func (uc *implUseCase) persist(ctx context.Context, batch alert.Batch) (res alert.StepResult) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Errorf(ctx, "internal.alert.usecase.persist: panic: %v", r)
			res = failed(&alert.PersistenceError{Table: uc.cfg.Table, Cause: errors.New("panic during append")}, false)
		}
	}()

	stepCtx, cancel := context.WithTimeout(ctx, uc.cfg.PersistTimeout)
	defer cancel()

	n, err := uc.repo.Append(stepCtx, repository.AppendOptions{Table: uc.cfg.Table, Batch: batch})
	if err != nil {
		retryable := isTimeout(stepCtx, err)
		uc.logger.Errorf(ctx, "internal.alert.usecase.persist: append %d rows to %s failed (retryable=%t): %v",
			batch.Len(), uc.cfg.Table, retryable, err)
		return failed(&alert.PersistenceError{Table: uc.cfg.Table, Retryable: retryable, Cause: err}, retryable)
	}

	uc.logger.Infof(ctx, "internal.alert.usecase.persist: appended %d rows to %s", n, uc.cfg.Table)
	return alert.StepResult{Status: alert.StatusSucceeded, Rows: n}
}

func (uc *implUseCase) notify(ctx context.Context, batch alert.Batch) (res alert.StepResult) {
	var channel string
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Errorf(ctx, "internal.alert.usecase.notify: panic: %v", r)
			res = failed(&alert.NotificationError{Channel: channel, Recipient: uc.cfg.Recipient, Cause: errors.New("panic during send")}, false)
		}
	}()
	channel = uc.notifier.Channel()

	n, err := buildNotification(batch, uc.cfg.Recipient)
	if err != nil {
		uc.logger.Errorf(ctx, "internal.alert.usecase.notify.buildNotification: %v", err)
		return failed(&alert.NotificationError{Channel: channel, Recipient: uc.cfg.Recipient, Cause: err}, false)
	}

	stepCtx, cancel := context.WithTimeout(ctx, uc.cfg.NotifyTimeout)
	defer cancel()

	if err := uc.notifier.Send(stepCtx, n); err != nil {
		retryable := isTimeout(stepCtx, err)
		uc.logger.Errorf(ctx, "internal.alert.usecase.notify: %s to %s failed (retryable=%t): %v",
			channel, uc.cfg.Recipient, retryable, err)
		return failed(&alert.NotificationError{Channel: channel, Recipient: uc.cfg.Recipient, Retryable: retryable, Cause: err}, retryable)
	}

	uc.logger.Infof(ctx, "internal.alert.usecase.notify: sent %s notification with %d anomalies to %s", channel, n.Count, uc.cfg.Recipient)
	return alert.StepResult{Status: alert.StatusSucceeded, Rows: n.Count}
}

func (uc *implUseCase) record(out alert.Outcome) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncAlertStep(stepPersistence, string(out.Persistence.Status))
	uc.metrics.IncAlertStep(stepNotification, string(out.Notification.Status))
}

func failed(err error, retryable bool) alert.StepResult {
	return alert.StepResult{Status: alert.StatusFailed, Err: err, Retryable: retryable}
}

func isTimeout(stepCtx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(stepCtx.Err(), context.DeadlineExceeded)
}
