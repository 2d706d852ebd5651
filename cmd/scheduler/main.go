package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-engine/internal/cache"
	"github.com/segyhp/loan-engine/internal/config"
	"github.com/segyhp/loan-engine/internal/repository"
	"github.com/segyhp/loan-engine/internal/scheduler"
	"github.com/segyhp/loan-engine/internal/service"
	"github.com/segyhp/loan-engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger(os.Stdout).With(slog.String("process", "scheduler"))
	slog.SetDefault(logger)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxIdleConns)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	store := repository.NewStore(db)
	loanService := service.NewLoanService(
		store,
		storage.NewOSFileStore(cfg.Storage.Root),
		cache.NewOutstandingCache(redisClient, cfg.Redis.OutstandingTTL),
		logger,
	)
	ledgerService := service.NewLedgerService(store, logger)

	c := scheduler.New(cfg.Location(), logger)
	jobs := scheduler.NewJobs(ledgerService, loanService, logger)
	if err := jobs.Register(c, cfg.Scheduler.AuditSpec, cfg.Scheduler.WarmupSpec); err != nil {
		logger.Error("failed to schedule jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	c.Start()
	logger.Info("scheduler started",
		slog.String("audit", cfg.Scheduler.AuditSpec),
		slog.String("cache_warmup", cfg.Scheduler.WarmupSpec),
		slog.String("timezone", cfg.Scheduler.Timezone),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}
