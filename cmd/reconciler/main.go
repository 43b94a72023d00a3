package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"rwaconsole/internal/chain"
	"rwaconsole/internal/config"
	"rwaconsole/internal/database"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/metrics"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/scheduler"
	"rwaconsole/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Reconciler error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required for reconciliation")
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, client, err := chain.Dial(ctx, cfg.RPCURL, cfg.ChainCallTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to chain: %w", err)
	}
	defer client.Close()

	store := repository.NewGormStore(dbManager.DB())
	syncSvc := services.NewSyncService(store, reader, metrics.New(), services.SyncOptions{
		Concurrency: cfg.SyncConcurrency,
		BatchSize:   cfg.SyncBatchSize,
	})

	runner := cron.New()
	job := scheduler.NewReconcileJob(syncSvc, 0)
	if _, err := job.Start(runner, cfg.SyncCron); err != nil {
		return err
	}

	if len(os.Args) > 1 && os.Args[1] == "once" {
		job.Run()
		return nil
	}

	runner.Start()
	log.Infof("Reconciler started (schedule %s)", cfg.SyncCron)

	<-ctx.Done()
	log.Info("Stopping reconciler, waiting for running pass")
	<-runner.Stop().Done()
	return nil
}
