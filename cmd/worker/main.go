package main

import (
	"combinaapi/config"
	"combinaapi/logger"
	"combinaapi/store"
	"combinaapi/tasks"
	"combinaapi/telegram"
	"combinaapi/usage"
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Env,
		Release:     "combinaapi-worker@1.0.0",
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	userStore, err := store.Open(context.Background(), cfg)
	if err != nil {
		appLog.Fatal("[QUEUE] failed to open user store", "backend", cfg.StoreBackend, "error", err)
	}
	notifier, err := telegram.NewAlertNotifier(cfg.TelegramToken, cfg.TelegramAlertChatID)
	if err != nil {
		appLog.Warn("[QUEUE] telegram alerts disabled", "error", err)
	}
	// only registered users are ever deferred, so no anonymous counter
	writer := usage.NewHistoryWriter(userStore, nil, cfg.HistoryMaxLength)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueHistory: 7,
				"default":          3,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				appLog.Error("[QUEUE] task failed", "type", task.Type(), "retried", retried, "error", err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeHistoryRecord, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleHistoryRecordTask(ctx, t, writer, notifier, appLog)
	})

	appLog.Info("[QUEUE] starting worker", "redis", cfg.RedisAddr)
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
