package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// DBMigrate runs the embedded migrations on startup when true.
	DBMigrate  bool
	ServerPort string
	// NATSURL enables transaction-posted event publishing when set.
	NATSURL string
	// DefaultCreditLimit is the available credit limit assigned to newly
	// created accounts. With the default of 0 the first posting against a
	// fresh account must be a payment; operators who want an initial
	// spending allowance provision a positive value here.
	DefaultCreditLimit decimal.Decimal
}

// Load reads configuration from the environment, picking up a local .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "credit_ledger"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBMigrate:  getEnv("DB_MIGRATE", "true") == "true",
		ServerPort: getEnv("SERVER_PORT", "8080"),
		NATSURL:    getEnv("NATS_URL", ""),
	}

	limit, err := decimal.NewFromString(getEnv("ACCOUNT_DEFAULT_CREDIT_LIMIT", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_DEFAULT_CREDIT_LIMIT: %w", err)
	}
	if limit.IsNegative() {
		return nil, fmt.Errorf("ACCOUNT_DEFAULT_CREDIT_LIMIT must not be negative, got %s", limit)
	}
	cfg.DefaultCreditLimit = limit

	return cfg, nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
