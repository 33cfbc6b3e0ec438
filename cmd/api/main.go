package main

import (
	"combinaapi/config"
	"combinaapi/controllers"
	"combinaapi/logger"
	"combinaapi/services"
	"combinaapi/store"
	"combinaapi/stylist"
	"combinaapi/tasks"
	"combinaapi/telegram"
	"combinaapi/usage"
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
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
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          "combinaapi@1.0.0",
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	userStore, err := store.Open(ctx, cfg)
	if err != nil {
		appLog.Fatal("failed to open user store", "backend", cfg.StoreBackend, "error", err)
	}
	redisClient, err := usage.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		appLog.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
	}
	defer redisClient.Close()

	notifier, err := telegram.NewAlertNotifier(cfg.TelegramToken, cfg.TelegramAlertChatID)
	if err != nil {
		appLog.Warn("telegram alerts disabled", "error", err)
	}

	model := services.ParseLLMModelName(cfg.GenAIModel)
	primary, err := services.NewGoogleGenerativeClient(ctx, cfg.GenAIKeyPrimary, model)
	if err != nil {
		appLog.Fatal("failed to create primary generative client", "error", err)
	}
	backends := []services.Backend{{Tag: "primary", Client: primary}}
	if cfg.GenAIKeySecondary != "" {
		secondary, err := services.NewGoogleGenerativeClient(ctx, cfg.GenAIKeySecondary, model)
		if err != nil {
			appLog.Fatal("failed to create secondary generative client", "error", err)
		}
		backends = append(backends, services.Backend{Tag: "secondary", Client: secondary})
	}
	balancer, err := services.NewBalancer(services.BalancerConfig{
		MaxFailures: cfg.BalancerMaxFailures,
		ResetWindow: cfg.BalancerResetWindow,
		OnExhausted: notifier.BalancerExhausted,
	}, backends...)
	if err != nil {
		appLog.Fatal("failed to create balancer", "error", err)
	}

	assembler := &stylist.Assembler{Bucket: cfg.R2BucketName, Logger: appLog}
	awsService := &services.AWSService{}
	if err := awsService.InitPresignClient(ctx); err != nil {
		appLog.Warn("image links disabled, R2 presigner unavailable", "error", err)
	} else {
		urlCache, err := services.NewURLCacheService(awsService, cfg.R2BucketName)
		if err != nil {
			appLog.Fatal("failed to initialize URL cache service", "error", err)
		}
		assembler.URLCache = urlCache
		assembler.AWSService = awsService
	}

	asynqClient := tasks.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	defer asynqClient.Close()

	anonymous := usage.NewRedisAnonymousCounter(redisClient)
	ledger := usage.NewLedger(userStore, anonymous)
	engine := &stylist.Engine{
		Rules:     stylist.DefaultRuleBook(),
		Prompts:   stylist.PromptBuilder{MaxItems: cfg.PromptMaxItems},
		Generator: stylist.NewGenerator(balancer, cfg.GenerationMaxAttempts, cfg.GenerationTransportRetries, cfg.GenerationRetryDelay, appLog),
		Assembler: assembler,
		Quota:     ledger,
		History:   usage.NewHistoryWriter(userStore, anonymous, cfg.HistoryMaxLength),
		Deferred:  &tasks.AsynqHistoryEnqueuer{Client: asynqClient, Logger: appLog},
		Logger:    appLog,
		Now:       time.Now,
	}

	e := controllers.SetupServer(controllers.ServerDeps{
		Store:      userStore,
		Engine:     engine,
		Ledger:     ledger,
		Balancer:   balancer,
		Logger:     appLog,
		JWTSecret:  cfg.JWTSecret,
		AnonSecret: cfg.AnonSecret,
	})
	// echo debug leaks internal error text to clients
	e.Debug = cfg.Debug && !cfg.IsProduction()
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS))))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	appLog.Info("starting api", "addr", cfg.Addr(), "store", cfg.StoreBackend, "backends", len(backends))
	e.Logger.Fatal(e.Start(cfg.Addr()))
}
