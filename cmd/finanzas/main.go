package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finanzas/internal/amqp"
	"finanzas/internal/backend"
	"finanzas/internal/cache"
	"finanzas/internal/config"
	apphttp "finanzas/internal/http"
	applog "finanzas/internal/log"
	"finanzas/internal/services"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(cfg.LogLevel)
	// slog.SetDefault so the packages logging through the default logger
	// share the handler.
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := backend.Open(cfg, applog.WithComponent(logger, applog.ComponentBackend))
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	// AMQP is optional: without a broker the API still serves, it just
	// stops publishing events.
	var events services.EventPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		events = amqpClient
	}

	summaries, err := openSummaryCache(cfg)
	if err != nil {
		logger.Error("Failed to initialize summary cache", "error", err, "backend", cfg.CacheBackend)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Debts:        services.NewDebtService(store, events),
		Goals:        services.NewGoalService(store, events),
		Budgets:      services.NewBudgetService(store),
		Transactions: services.NewTransactionService(store),
		Reminders:    services.NewReminderService(store),
		Alerts:       services.NewAlertService(store),
		Summaries:    summaries,
	})
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finanzas server",
		"port", cfg.Port, "backend", cfg.DataBackend, "cache", cfg.CacheBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func openSummaryCache(cfg *config.Config) (cache.SummaryCache, error) {
	if cfg.CacheBackend == "redis" {
		return cache.NewRedisSummaryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
	}
	return cache.NewMemorySummaryCache(cfg.CacheSize, cfg.CacheTTL), nil
}
