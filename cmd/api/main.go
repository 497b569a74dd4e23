package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kidpech/xbox_link_demo/internal/app"
	"github.com/kidpech/xbox_link_demo/internal/app/diagnostics"
	"github.com/kidpech/xbox_link_demo/internal/config"
	"github.com/kidpech/xbox_link_demo/internal/domain/xbox"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/auth"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/logging"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/monitoring"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/ratelimit"
	redisinfra "github.com/kidpech/xbox_link_demo/internal/infrastructure/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.App.Env, cfg.Diagnostics.EnableDebugLogs)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync(logger)

	if err := monitoring.InitSentry(cfg.Monitoring, cfg.App); err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	monitoring.Init()
	defer monitoring.Flush()

	var redisClient *redisinfra.Client
	if cfg.Redis.Addr != "" {
		client, err := redisinfra.Connect(ctx, cfg.Redis, logger)
		if err == nil {
			redisClient = client
			defer client.Close()
		} else {
			logger.Warn("redis connect failed, using in-memory rate limits", zap.Error(err))
		}
	}

	var ipLimiter, userLimiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			ipLimiter = ratelimit.NewRedisLimiter(redisClient.Native, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.RedisPrefix+":ip")
			userLimiter = ratelimit.NewRedisLimiter(redisClient.Native, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.RedisPrefix+":user")
		} else {
			ipLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
			userLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		}
	}

	provider := auth.NewXboxLiveProvider(cfg.Xbox.ClientID)
	service := xbox.NewService(provider, xbox.NewClockIDs(nil), cfg.Xbox.DefaultRedirectURI)
	dispatcher := xbox.NewDispatcher(service, logger.Named("xbox"), xbox.DispatcherOptions{
		StrictActions: cfg.Xbox.StrictActions,
		Observe:       monitoring.ObserveAction,
	})

	logBuffer := diagnostics.NewLogBuffer(cfg.Diagnostics.MaxLogLines)
	router := app.NewRouter(app.RouterDeps{
		Config:      cfg,
		XboxHandler: xbox.NewHandler(dispatcher),
		Diagnostics: diagnostics.NewHandler(logBuffer, cfg.App.Version, xbox.Actions()),
		AuthManager: auth.NewManager(cfg.Admin),
		Logger:      logger,
		LogBuffer:   logBuffer,
		IPLimiter:   ipLimiter,
		UserLimiter: userLimiter,
	})

	server := &app.Server{Engine: router, Addr: ":" + cfg.App.Port, Logger: logger}
	if err := server.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
