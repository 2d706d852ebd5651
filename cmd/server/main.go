package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-engine/internal/cache"
	"github.com/segyhp/loan-engine/internal/config"
	"github.com/segyhp/loan-engine/internal/handler"
	"github.com/segyhp/loan-engine/internal/migrations"
	"github.com/segyhp/loan-engine/internal/repository"
	"github.com/segyhp/loan-engine/internal/service"
	"github.com/segyhp/loan-engine/internal/storage"
	"github.com/segyhp/loan-engine/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Up(db.DB, logger); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	store := repository.NewStore(db)
	balances := cache.NewOutstandingCache(redisClient, cfg.Redis.OutstandingTTL)
	documents := storage.NewOSFileStore(cfg.Storage.Root)

	loanService := service.NewLoanService(store, documents, balances, logger)
	savingsService := service.NewSavingsService(store, logger)
	saleService := service.NewSaleService(store, logger)
	accountService := service.NewAccountService(store, logger)
	ledgerService := service.NewLedgerService(store, logger)

	router := setupRoutes(
		logger,
		handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout),
		handler.NewLoanHandler(loanService),
		handler.NewLedgerHandler(savingsService, saleService, accountService, ledgerService),
	)

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", server.Addr), slog.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.String("error", err.Error()))
		return
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(logger *slog.Logger, health *handler.HealthHandler, loans *handler.LoanHandler, ledger *handler.LedgerHandler) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(response.RouteNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(response.MethodNotAllowed)
	router.Use(response.LoggingMiddleware(logger))

	health.Register(router)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(response.JSONMiddleware, handler.UserIDMiddleware)

	loans.Register(api)
	ledger.Register(api)

	return router
}
