package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"finanzas/internal/amqp"
	"finanzas/internal/backend"
	"finanzas/internal/config"
	applog "finanzas/internal/log"
	"finanzas/internal/services"
	"finanzas/internal/worker"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(cfg.LogLevel)
	applog.SetDefault(logger)

	logger.Info("Starting finanzas-worker")

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

	// Without a broker the worker still runs its scheduled passes; it just
	// loses the event-driven re-evaluations.
	var (
		events     services.EventPublisher
		amqpClient *amqp.Client
	)
	amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, event consumption disabled", "error", err)
		amqpClient = nil
	} else {
		defer amqpClient.Close()
		events = amqpClient
	}

	w := worker.New(store,
		services.NewGoalService(store, events),
		services.NewAlertService(store),
		cfg.WorkerConcurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if amqpClient != nil {
		go func() {
			if err := amqpClient.ConsumeEvents(ctx, w.HandleEntityEvent); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error("Event consumption failed", "error", err)
				}
				cancel()
			}
		}()
	}

	// On startup, catch up on anything missed while the worker was down.
	if err := w.RunAutoSavePass(ctx); err != nil {
		logger.Error("Startup auto-save pass failed", "error", err)
	}
	if err := w.RunAlertScan(ctx); err != nil {
		logger.Error("Startup alert scan failed", "error", err)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.AutoSaveSchedule, func() {
		if err := w.RunAutoSavePass(ctx); err != nil {
			logger.Error("Scheduled auto-save pass failed", "error", err)
		}
	}); err != nil {
		logger.Error("Invalid auto-save schedule", "error", err, "schedule", cfg.AutoSaveSchedule)
		os.Exit(1)
	}
	if _, err := scheduler.AddFunc(cfg.AlertScanSchedule, func() {
		if err := w.RunAlertScan(ctx); err != nil {
			logger.Error("Scheduled alert scan failed", "error", err)
		}
	}); err != nil {
		logger.Error("Invalid alert scan schedule", "error", err, "schedule", cfg.AlertScanSchedule)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Schedules registered",
		"autosave", cfg.AutoSaveSchedule, "alert_scan", cfg.AlertScanSchedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
		logger.Info("Worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
