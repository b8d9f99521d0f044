package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/p-karari/hms-sub002/internal/adapters/cache"
	"github.com/p-karari/hms-sub002/internal/adapters/database/memory"
	"github.com/p-karari/hms-sub002/internal/adapters/database/pgsql"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	"github.com/p-karari/hms-sub002/internal/core/services"
	"github.com/p-karari/hms-sub002/internal/handlers"
	"github.com/p-karari/hms-sub002/internal/middleware"
	"github.com/p-karari/hms-sub002/internal/platform/config"
	"github.com/p-karari/hms-sub002/pkg/database"
	"github.com/p-karari/hms-sub002/pkg/idgen"
)

// @title Billing Ledger API
// @version 1.0
// @description Bills, line items, payments and soft voids for hospital cash points.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	repos, closeStore, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	receipts, err := idgen.NewReceiptNumbers(cfg.SnowflakeNode)
	if err != nil {
		logger.Error("Failed to initialize receipt numbering", slog.String("error", err.Error()))
		os.Exit(1)
	}
	repos.ReceiptNumbering = receipts

	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		repos.BillCache = cache.NewRedisBillListingCache(redisClient, cfg.BillCacheTTL)
		logger.Info("Bill listing cache enabled", slog.Duration("ttl", cfg.BillCacheTTL))
	}

	serviceContainer := services.NewServiceContainer(cfg, repos)

	var rateLimiter *limiter.Limiter
	if cfg.RateLimit != "" {
		rateLimiter, err = middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			logger.Error("Invalid RATE_LIMIT", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store_driver", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories opens the configured ledger store and returns a cleanup function.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		directory := memory.NewDirectory()
		if cfg.DirectorySeedFile != "" {
			var err error
			directory, err = memory.LoadDirectory(cfg.DirectorySeedFile)
			if err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
			logger.Info("Directory seeded", slog.String("file", cfg.DirectorySeedFile))
		} else {
			logger.Warn("DIRECTORY_SEED_FILE not set. Every patient and user lookup will fail.")
		}
		return memory.NewRepositoryProvider(memory.New(), directory), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
