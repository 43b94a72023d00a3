package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rwaconsole/internal/chain"
	"rwaconsole/internal/config"
	"rwaconsole/internal/database"
	"rwaconsole/internal/logger"
	"rwaconsole/internal/metrics"
	"rwaconsole/internal/repository"
	"rwaconsole/internal/router"
	"rwaconsole/internal/services"

	_ "rwaconsole/internal/docs" // Import swagger docs
)

// @title           RWA Console API
// @version         1.0
// @description     Back end for a tokenized real-world-asset investment console: asset catalogue, on-chain balance reconciliation, investment ledger and admin operations.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey WalletAddress
// @in header
// @name x-wallet-address
// @description Lower-case or checksummed 0x wallet address of the caller.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @securityDefinitions.apikey ServiceKey
// @in header
// @name X-API-Key
// @description Shared key for internal callers.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Without an RPC endpoint the API still serves reads; sync reports failures.
	var (
		balances chain.BalanceReader
		tokens   services.TokenReader
	)
	if appConfig.RPCURL != "" {
		reader, client, err := chain.Dial(ctx, appConfig.RPCURL, appConfig.ChainCallTimeout)
		if err != nil {
			log.Warnf("chain reader unavailable: %v", err)
		} else {
			defer client.Close()
			balances, tokens = reader, reader
		}
	}

	store := repository.NewGormStore(dbManager.DB())
	m := metrics.New()

	audit := services.NewAuditService(store)
	svc := router.Services{
		Admin: services.NewAdminService(store),
		Asset: services.NewAssetService(store, audit, tokens, m),
		User:  services.NewUserService(store, audit),
		Sync: services.NewSyncService(store, balances, m, services.SyncOptions{
			Concurrency: appConfig.SyncConcurrency,
			BatchSize:   appConfig.SyncBatchSize,
		}),
		Transaction: services.NewTransactionService(store, appConfig.DefaultChainID),
		Balance:     services.NewBalanceService(store),
		Stats:       services.NewStatsService(store),
		Auth:        services.NewAuthService(store, appConfig.JWTSecret, appConfig.JWTExpirationDur),
	}

	engine := router.New(svc, router.Options{
		WalletAuthMode: appConfig.WalletAuthMode,
		ServiceAPIKey:  appConfig.ServiceAPIKey,
		CORSOrigins:    appConfig.CORSOrigins,
		Metrics:        m,
		Ping:           dbManager.Ping,
		Swagger:        appConfig.Env != "production",
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting RWA console API on port %s (wallet auth: %s)", appConfig.Port, appConfig.WalletAuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
