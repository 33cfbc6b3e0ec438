package tasks

import (
	"combinaapi/logger"
	"combinaapi/models"
	"combinaapi/store"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorderStub struct {
	err     error
	userIDs []string
	entries []models.RecentOutfit
}

func (r *recorderStub) RecordUser(ctx context.Context, userID string, entry models.RecentOutfit) error {
	r.userIDs = append(r.userIDs, userID)
	r.entries = append(r.entries, entry)
	return r.err
}

type alerterStub struct {
	texts []string
}

func (a *alerterStub) Alert(ctx context.Context, key, text string) error {
	a.texts = append(a.texts, text)
	return nil
}

func historyTask(t *testing.T) *asynq.Task {
	task, err := NewHistoryRecordTask("u1", models.RecentOutfit{Items: []string{"1", "2"}, Date: "2025-03-14", RequestID: "req-1"})
	require.NoError(t, err)
	return task
}

func TestNewHistoryRecordTask(t *testing.T) {
	task := historyTask(t)
	assert.Equal(t, TypeHistoryRecord, task.Type())

	var payload HistoryRecordPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "u1", payload.UserID)
	assert.Equal(t, "req-1", payload.Entry.RequestID)
	assert.Equal(t, []string{"1", "2"}, payload.Entry.Items)
}

func TestHandleHistoryRecordTaskSuccess(t *testing.T) {
	recorder := &recorderStub{}
	require.NoError(t, HandleHistoryRecordTask(context.Background(), historyTask(t), recorder, nil, logger.Nop()))
	assert.Equal(t, []string{"u1"}, recorder.userIDs)
	assert.Equal(t, "req-1", recorder.entries[0].RequestID)
}

func TestHandleHistoryRecordTaskSkipsMissingUser(t *testing.T) {
	recorder := &recorderStub{err: store.ErrUserNotFound}
	err := HandleHistoryRecordTask(context.Background(), historyTask(t), recorder, nil, logger.Nop())
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleHistoryRecordTaskRetriesStoreErrors(t *testing.T) {
	recorder := &recorderStub{err: errors.New("db down")}
	alerter := &alerterStub{}
	err := HandleHistoryRecordTask(context.Background(), historyTask(t), recorder, alerter, logger.Nop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	// outside a worker there is no retry metadata, so no give-up alert
	assert.Empty(t, alerter.texts)
}

func TestHandleHistoryRecordTaskMalformedPayload(t *testing.T) {
	recorder := &recorderStub{}
	err := HandleHistoryRecordTask(context.Background(), asynq.NewTask(TypeHistoryRecord, []byte("{")), recorder, nil, logger.Nop())
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, recorder.userIDs)
}

func TestHandleHistoryRecordTaskLogsThroughLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	recorder := &recorderStub{err: errors.New("db down")}
	require.Error(t, HandleHistoryRecordTask(context.Background(), historyTask(t), recorder, nil, log))

	assert.Equal(t, 1, logs.FilterMessage("[History] recording deferred entry").Len())
	failures := logs.FilterMessage("[History] error on recording history").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, "req-1", failures[0].ContextMap()["entry_id"])
}

func TestHandleHistoryRecordTaskToleratesNilLogger(t *testing.T) {
	recorder := &recorderStub{}
	assert.NotPanics(t, func() {
		require.NoError(t, HandleHistoryRecordTask(context.Background(), historyTask(t), recorder, nil, nil))
	})
}
