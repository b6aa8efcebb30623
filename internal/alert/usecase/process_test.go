package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/alert/repository"
	"anomaly-srv/internal/model"
	"anomaly-srv/pkg/log"
	"anomaly-srv/pkg/metrics"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Append(ctx context.Context, opts repository.AppendOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Channel() string { return "email" }
func (m *mockNotifier) Send(ctx context.Context, n alert.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func loginBatch(n int) alert.Batch {
	var recs []model.ScoredRecord
	for i := 0; i < n; i++ {
		recs = append(recs, model.ScoredRecord{
			Index:  i,
			Record: model.EventRecord{Raw: []string{"e" + string(rune('1'+i)), "login", "Lagos"}},
			Score:  0.25,
			Flag:   true,
		})
	}
	return alert.NewBatch("run-1", model.ModeLogin, []string{"event_id", "activity_type", "location"}, recs,
		time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC))
}

func newUC(repo repository.Repository, n alert.Notifier, cfg Config) alert.UseCase {
	if cfg.Table == "" {
		cfg.Table = "login_anomalies"
	}
	if cfg.Recipient == "" {
		cfg.Recipient = "ops@example.com"
	}
	return New(log.NewNop(), repo, n, metrics.New(), cfg)
}

func TestProcessEmptyBatchIsNoOp(t *testing.T) {
	repo, n := &mockRepo{}, &mockNotifier{}
	out := newUC(repo, n, Config{}).Process(context.Background(), loginBatch(0))

	assert.True(t, out.NoOp())
	assert.True(t, out.Succeeded())
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestProcessBothSucceed(t *testing.T) {
	repo, n := &mockRepo{}, &mockNotifier{}
	repo.On("Append", mock.Anything, mock.MatchedBy(func(o repository.AppendOptions) bool {
		return o.Table == "login_anomalies" && o.Batch.Len() == 3
	})).Return(3, nil).Once()
	n.On("Send", mock.Anything, mock.MatchedBy(func(note alert.Notification) bool {
		return note.Subject == "Login Anomaly Alert" &&
			note.Summary == "Detected 3 unusual login attempts." &&
			note.Recipient == "ops@example.com" &&
			note.Attachment.Filename == "anomalies.csv" && note.Count == 3
	})).Return(nil).Once()

	out := newUC(repo, n, Config{}).Process(context.Background(), loginBatch(3))
	assert.True(t, out.Succeeded())
	assert.False(t, out.NoOp())
	assert.Equal(t, 3, out.Persistence.Rows)
	repo.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestProcessNotificationFailureDoesNotBlockPersistence(t *testing.T) {
	repo, n := &mockRepo{}, &mockNotifier{}
	repo.On("Append", mock.Anything, mock.Anything).Return(2, nil).Once()
	n.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp 554")).Once()

	out := newUC(repo, n, Config{}).Process(context.Background(), loginBatch(2))

	assert.Equal(t, alert.StatusSucceeded, out.Persistence.Status)
	assert.Equal(t, alert.StatusFailed, out.Notification.Status)
	assert.True(t, out.Partial())
	assert.ErrorIs(t, out.Notification.Err, alert.ErrNotification)
	assert.False(t, out.Notification.Retryable)
	var ne *alert.NotificationError
	require.ErrorAs(t, out.Notification.Err, &ne)
	assert.Equal(t, "email", ne.Channel)
}

func TestProcessPersistenceFailureDoesNotBlockNotification(t *testing.T) {
	repo, n := &mockRepo{}, &mockNotifier{}
	repo.On("Append", mock.Anything, mock.Anything).Return(0, errors.New("relation is read-only")).Once()
	n.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	out := newUC(repo, n, Config{}).Process(context.Background(), loginBatch(2))

	assert.Equal(t, alert.StatusFailed, out.Persistence.Status)
	assert.Equal(t, alert.StatusSucceeded, out.Notification.Status)
	assert.ErrorIs(t, out.Persistence.Err, alert.ErrPersistence)
	n.AssertExpectations(t)
}

func TestProcessTimeoutIsRetryable(t *testing.T) {
	repo, n := &mockRepo{}, &mockNotifier{}
	repo.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(0, context.DeadlineExceeded).Once()
	n.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	out := newUC(repo, n, Config{PersistTimeout: 20 * time.Millisecond}).Process(context.Background(), loginBatch(1))

	assert.Equal(t, alert.StatusFailed, out.Persistence.Status)
	assert.True(t, out.Persistence.Retryable)
	assert.Equal(t, alert.StatusSucceeded, out.Notification.Status)
}

func TestProcessRecoversFromPanics(t *testing.T) {
	repo, n := &mockRepo{}, &mockNotifier{}
	repo.On("Append", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("driver bug") }).Return(0, nil)
	n.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	out := newUC(repo, n, Config{}).Process(context.Background(), loginBatch(1))
	assert.Equal(t, alert.StatusFailed, out.Persistence.Status)
	assert.Equal(t, alert.StatusSucceeded, out.Notification.Status)
}

type brokenChannelNotifier struct{ mockNotifier }

func (*brokenChannelNotifier) Channel() string { panic("channel not configured") }

func TestProcessRecoversFromChannelPanic(t *testing.T) {
	repo, n := &mockRepo{}, &brokenChannelNotifier{}
	repo.On("Append", mock.Anything, mock.Anything).Return(1, nil).Once()

	out := newUC(repo, n, Config{}).Process(context.Background(), loginBatch(1))
	assert.Equal(t, alert.StatusSucceeded, out.Persistence.Status)
	assert.Equal(t, alert.StatusFailed, out.Notification.Status)
	var nerr *alert.NotificationError
	require.ErrorAs(t, out.Notification.Err, &nerr)
	assert.Empty(t, nerr.Channel)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestBuildNotification(t *testing.T) {
	b := loginBatch(2)
	note, err := buildNotification(b, "ops@example.com")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(note.Attachment.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"event_id", "activity_type", "location", "anomaly_score", "anomaly_flag", "insertion_time"}, rows[0])
	assert.Equal(t, []string{"e1", "login", "Lagos", "0.25", "1", "2024-01-01 03:00:00"}, rows[1])

	assert.Contains(t, note.HTML, "<td>Lagos</td>")
	assert.Contains(t, note.Text, "insertion_time")
	assert.Equal(t, "text/csv", note.Attachment.ContentType)
}

func TestBuildNotificationBatchWording(t *testing.T) {
	b := loginBatch(1)
	b.Mode = model.ModeBatch
	note, err := buildNotification(b, "")
	require.NoError(t, err)
	assert.Equal(t, "Activity Anomaly Alert", note.Subject)
	assert.Equal(t, "Detected 1 unusual activity records.", note.Summary)
}

func TestBatchIsACopy(t *testing.T) {
	header := []string{"a"}
	recs := []model.ScoredRecord{{Index: 0, Flag: true}}
	b := alert.NewBatch("r", model.ModeLogin, header, recs, time.Now())
	header[0] = "changed"
	recs[0].Index = 9
	assert.Equal(t, "a", b.Header[0])
	assert.Equal(t, 0, b.Records[0].Index)
}
