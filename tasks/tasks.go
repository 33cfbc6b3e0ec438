package tasks

import (
	"combinaapi/logger"
	"combinaapi/models"
	"combinaapi/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

const (
	TypeHistoryRecord = "history:record"
	QueueHistory      = "history"

	historyMaxRetry = 3
)

type HistoryRecordPayload struct {
	UserID string              `json:"user_id"`
	Entry  models.RecentOutfit `json:"entry"`
}

// NewClient initializes an asynq client for enqueuing tasks
func NewClient(redisAddr, password string) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password})
}

func NewHistoryRecordTask(userID string, entry models.RecentOutfit) (*asynq.Task, error) {
	payload, err := json.Marshal(HistoryRecordPayload{UserID: userID, Entry: entry})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeHistoryRecord, payload), nil
}

// AsynqHistoryEnqueuer defers a failed history write to the worker. The task
// id is derived from the entry id so an outfit is queued at most once.
type AsynqHistoryEnqueuer struct {
	Client *asynq.Client
	Logger *logger.Logger
}

func orNop(l *logger.Logger) *logger.Logger {
	if l == nil {
		return logger.Nop()
	}
	return l
}

func (q *AsynqHistoryEnqueuer) EnqueueHistoryRecord(ctx context.Context, userID string, entry models.RecentOutfit) error {
	task, err := NewHistoryRecordTask(userID, entry)
	if err != nil {
		return err
	}
	opts := []asynq.Option{
		asynq.Queue(QueueHistory),
		asynq.MaxRetry(historyMaxRetry),
		asynq.Timeout(30 * time.Second),
	}
	if entry.RequestID != "" {
		opts = append(opts, asynq.TaskID("history:"+entry.RequestID))
	}
	info, err := q.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeHistoryRecord, err)
	}
	orNop(q.Logger).Info("[QUEUE] enqueued", "type", TypeHistoryRecord, "task_id", info.ID, "queue", info.Queue)
	return nil
}

type UserHistoryRecorder interface {
	RecordUser(ctx context.Context, userID string, entry models.RecentOutfit) error
}

type Alerter interface {
	Alert(ctx context.Context, key, text string) error
}

// HandleHistoryRecordTask replays a history write. The writer skips an entry it
// already holds, so a retry after a partial failure never charges twice.
func HandleHistoryRecordTask(ctx context.Context, t *asynq.Task, recorder UserHistoryRecorder, alerter Alerter, log *logger.Logger) error {
	log = orNop(log)
	var payload HistoryRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("[QUEUE] malformed payload", "type", TypeHistoryRecord, "error", err)
		sentry.CaptureException(fmt.Errorf("[QUEUE] Malformed %s payload: %v", TypeHistoryRecord, err))
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	if payload.UserID == "" {
		return fmt.Errorf("empty user id: %w", asynq.SkipRetry)
	}
	log = log.With("user_id", payload.UserID, "entry_id", payload.Entry.RequestID)
	log.Info("[History] recording deferred entry")

	err := recorder.RecordUser(ctx, payload.UserID, payload.Entry)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrUserNotFound) {
		log.Warn("[History] user no longer exists, dropping")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	log.Error("[History] error on recording history", "error", err)
	sentry.CaptureException(fmt.Errorf("[History: %v] %w", payload.UserID, err))

	retried, hasCount := asynq.GetRetryCount(ctx)
	maxRetry, hasMax := asynq.GetMaxRetry(ctx)
	if hasCount && hasMax && retried >= maxRetry && alerter != nil {
		_ = alerter.Alert(ctx, "history_gave_up:"+payload.UserID,
			fmt.Sprintf("History write abandoned for user %s request %s: %v", payload.UserID, payload.Entry.RequestID, err))
	}
	return err
}
