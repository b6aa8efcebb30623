package alert

import (
	"errors"
	"fmt"
)

var (
	ErrPersistence  = errors.New("alert persistence failed")
	ErrNotification = errors.New("alert notification failed")
)

// PersistenceError wraps a failed append to the record store.
type PersistenceError struct {
	Table     string
	Retryable bool
	Cause     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("append to %s: %v", e.Table, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrPersistence) match.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NotificationError wraps a failed dispatch.
type NotificationError struct {
	Channel   string
	Recipient string
	Retryable bool
	Cause     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("send %s notification to %s: %v", e.Channel, e.Recipient, e.Cause)
}

func (e *NotificationError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrNotification) match.
func (e *NotificationError) Is(target error) bool { return target == ErrNotification }
