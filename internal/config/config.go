package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Addr string

	// Database configuration
	DBPath          string
	DBEncryptionKey string

	// PINSalt is the server-wide secret mixed into PIN and IP hashes.
	// It must stay stable across restarts: changing it invalidates PIN
	// verification for existing users and breaks IP-hash continuity.
	PINSalt string

	// BcryptCost is the bcrypt cost factor for PIN hashing
	BcryptCost int

	// Session configuration
	SessionTTL time.Duration

	// Trending configuration
	TrendingWindowDays int
	TrendingLimit      int

	// Backup configuration
	BackupDir           string
	BackupInterval      time.Duration
	BackupRetentionDays int

	// Audit configuration
	AuditLogPath   string
	AuditAsyncMode bool

	// Per-IP throttling on auth endpoints
	RateLimitRPS   int
	RateLimitBurst int

	// Application settings
	Environment string
	LogFormat   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (not required in production)
	godotenv.Load()

	config := &Config{
		Addr:                getEnv("LISTKY_ADDR", ":8080"),
		DBPath:              getEnv("DB_PATH", "./data/listky.db"),
		DBEncryptionKey:     getEnv("DB_ENCRYPTION_KEY", ""),
		PINSalt:             getEnv("PIN_SALT", ""),
		BcryptCost:          getEnvAsInt("BCRYPT_COST", 10),
		SessionTTL:          time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		TrendingWindowDays:  getEnvAsInt("TRENDING_WINDOW_DAYS", 7),
		TrendingLimit:       getEnvAsInt("TRENDING_LIMIT", 10),
		BackupDir:           getEnv("BACKUP_DIR", "./backups"),
		BackupInterval:      time.Duration(getEnvAsInt("BACKUP_INTERVAL_HOURS", 24)) * time.Hour,
		BackupRetentionDays: getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		AuditLogPath:        getEnv("AUDIT_LOG_PATH", "./logs/audit.log"),
		AuditAsyncMode:      getEnvAsBool("AUDIT_ASYNC_MODE", true),
		RateLimitRPS:        getEnvAsInt("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		RateLimitBurst:      getEnvAsInt("RATE_LIMIT_BURST", 20),
		Environment:         getEnv("APP_ENV", "development"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.PINSalt == "" {
		return fmt.Errorf("PIN_SALT is required")
	}

	if len(c.PINSalt) < 16 {
		return fmt.Errorf("PIN_SALT must be at least 16 characters")
	}

	if c.DBEncryptionKey == "" {
		return fmt.Errorf("DB_ENCRYPTION_KEY is required")
	}

	if len(c.DBEncryptionKey) < 32 {
		return fmt.Errorf("DB_ENCRYPTION_KEY must be at least 32 characters")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
