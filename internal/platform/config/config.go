package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Ledger store
	StoreDriver       string // postgres | memory
	DirectorySeedFile string // Patients, users and catalog for the memory driver
	MigrationsPath    string
	LedgerMaxAttempts uint

	// Acting-user tokens are issued by the external identity provider
	JWTSecret string
	JWTIssuer string

	// Bill listing cache, disabled when RedisURL is empty
	RedisURL     string
	BillCacheTTL time.Duration

	SnowflakeNode      int64
	RateLimit          string `mapstructure:"RATE_LIMIT"` // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DIRECTORY_SEED_FILE", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("LEDGER_MAX_ATTEMPTS", 5)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "hms-identity")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("BILL_CACHE_TTL", "5m")
	v.SetDefault("SNOWFLAKE_NODE", 1)
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       v.GetString("PGSQL_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		DirectorySeedFile: v.GetString("DIRECTORY_SEED_FILE"),
		MigrationsPath:    v.GetString("MIGRATIONS_PATH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		RedisURL:          v.GetString("REDIS_URL"),
		SnowflakeNode:     v.GetInt64("SNOWFLAKE_NODE"),
		RateLimit:         v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		log.Println("Warning: STORE_DRIVER is memory. Ledger data will not survive a restart.")
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	attempts := v.GetInt("LEDGER_MAX_ATTEMPTS")
	if attempts < 1 {
		log.Printf("Warning: Invalid LEDGER_MAX_ATTEMPTS (%d). Defaulting to 5.\n", attempts)
		attempts = 5
	}
	cfg.LedgerMaxAttempts = uint(attempts)

	// Load bill cache TTL (e.g., "30s", "5m")
	ttlStr := v.GetString("BILL_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 5 * time.Minute
		log.Printf("Warning: Invalid value for BILL_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl.String())
	}
	cfg.BillCacheTTL = ttl

	if cfg.SnowflakeNode < 0 || cfg.SnowflakeNode > 1023 {
		return nil, fmt.Errorf("SNOWFLAKE_NODE must be between 0 and 1023, got %d", cfg.SnowflakeNode)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
