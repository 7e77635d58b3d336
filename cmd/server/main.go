package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskhive/backend/api/handler"
	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/infrastructure/auditlog"
	"github.com/taskhive/backend/internal/infrastructure/auditspill"
	"github.com/taskhive/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskhive/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskhive/backend/internal/infrastructure/redis"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/router"
	"github.com/taskhive/backend/internal/services/audit"
	"github.com/taskhive/backend/internal/services/lifecycle"
	"github.com/taskhive/backend/pkg/httpcontext"
	"github.com/taskhive/backend/pkg/logger"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/repository/memory"
	"github.com/taskhive/backend/repository/postgres"
	redisRepo "github.com/taskhive/backend/repository/redis"
	commandUC "github.com/taskhive/backend/usecase/command"
	queryUC "github.com/taskhive/backend/usecase/query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		pool        *pgxpool.Pool
		redisClient *redislib.Client
		taskRepo    repository.TaskRepository
	)

	switch cfg.Store.Driver {
	case "memory":
		taskRepo = memory.NewTaskRepository()
		zapLogger.Info("using in-memory task store")
	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		taskRepo = postgres.NewTaskRepository(pool)
	}

	if cfg.Redis.Enabled {
		redisClient, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		taskRepo = redisRepo.NewTaskCache(taskRepo, redisClient, cfg.Store.CacheTTL, zapLogger)
	}

	spill, err := auditspill.Open(cfg.Audit.SpillPath)
	if err != nil {
		zapLogger.Fatal("failed to open audit spill store", zap.Error(err))
	}
	manager.Register("audit_spill", func(ctx context.Context) error {
		return spill.Close()
	})

	auditWriter := auditlog.New(cfg.Audit.LogPath)
	notifier := audit.NewNotifier(auditWriter, spill, zapLogger)

	flusher := audit.NewFlusher(auditWriter, spill, zapLogger, audit.FlusherConfig{
		Interval:   cfg.Audit.FlushInterval,
		BatchSize:  cfg.Audit.FlushBatch,
		MaxRetries: cfg.Audit.MaxRetries,
	})
	flusher.Start()
	manager.Register("audit_flusher", func(ctx context.Context) error {
		flusher.Stop()
		return nil
	})

	mon := monitor.New(pool, redisClient, spill, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	commands := commandUC.New(taskRepo, notifier, zapLogger)
	queries := queryUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(commands, queries, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	requestLog := middleware.RequestLog(auditlog.New(cfg.Audit.RequestLog), zapLogger)
	r := router.New(handlers, authMiddleware, requestLog)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
