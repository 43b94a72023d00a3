package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Wallet authentication modes.
const (
	WalletAuthHeader  = "header"
	WalletAuthSession = "session"
)

// Config holds application configuration
type Config struct {
	// Server
	Port        string
	Env         string
	CORSOrigins []string

	// Chain
	RPCURL           string
	DefaultChainID   int64
	ChainCallTimeout time.Duration

	// Reconciliation
	SyncConcurrency int
	SyncCron        string
	SyncBatchSize   int

	// Auth
	WalletAuthMode   string
	JWTSecret        string
	JWTExpirationDur time.Duration
	ServiceAPIKey    string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		RPCURL:         getEnv("RPC_URL", "https://ethereum-sepolia-rpc.publicnode.com"),
		DefaultChainID: getEnvInt64("DEFAULT_CHAIN_ID", 11155111),

		SyncConcurrency: int(getEnvInt64("SYNC_CONCURRENCY", 8)),
		SyncCron:        getEnv("SYNC_CRON", "@every 15m"),
		SyncBatchSize:   int(getEnvInt64("SYNC_BATCH_SIZE", 100)),

		WalletAuthMode: strings.ToLower(getEnv("WALLET_AUTH_MODE", WalletAuthHeader)),
		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		ServiceAPIKey:  getEnv("SERVICE_API_KEY", ""),
	}

	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.CORSOrigins = append(config.CORSOrigins, origin)
		}
	}

	if config.WalletAuthMode != WalletAuthHeader && config.WalletAuthMode != WalletAuthSession {
		log.Printf("Warning: unknown WALLET_AUTH_MODE '%s', falling back to header\n", config.WalletAuthMode)
		config.WalletAuthMode = WalletAuthHeader
	}
	if config.SyncConcurrency <= 0 {
		config.SyncConcurrency = 8
	}
	if config.SyncBatchSize <= 0 {
		config.SyncBatchSize = 100
	}

	config.ChainCallTimeout = getEnvDuration("CHAIN_CALL_TIMEOUT", 10*time.Second)
	config.JWTExpirationDur = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
