// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tally/internal/config"
	"tally/internal/handlers"
	"tally/internal/logger"
	"tally/internal/repositories"
	"tally/internal/repositories/cache"
	"tally/internal/routes"
	"tally/internal/services/account"
	"tally/internal/services/notification"
	"tally/internal/services/transfer"
	"tally/internal/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	envErr := config.LoadEnv()

	log, err := logger.New(config.IsProduction(), config.GetEnv("LOG_LEVEL", ""))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if envErr != nil {
		log.Debug("no .env file loaded", zap.Error(envErr))
	}

	checks := map[string]handlers.HealthChecker{}
	var closers []func() error

	// Account store
	var repo repositories.AccountRepository
	switch driver := config.GetEnv("STORE_DRIVER", "memory"); driver {
	case "memory":
		repo = repositories.NewMemoryAccountRepository()
	case "postgres":
		db, err := repositories.NewPostgres(repositories.LoadDBConfig())
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("failed to get database instance", zap.Error(err))
		}
		closers = append(closers, sqlDB.Close)
		checks["database"] = repositories.PostgresHealth{DB: db}
		repo = repositories.NewAccountRepository(db)
	default:
		log.Fatal("unknown STORE_DRIVER", zap.String("driver", driver))
	}
	log.Info("account store ready", zap.String("driver", config.GetEnv("STORE_DRIVER", "memory")))

	// Redis backs the account cache and the notification sink, both optional
	var redisClient *redis.Client
	if config.GetBoolEnv("REDIS_ENABLED", false) {
		redisClient = cache.NewRedisClient(&cache.RedisConfig{
			Host:     config.GetEnv("REDIS_HOST", "localhost"),
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetIntEnv("REDIS_DB", 0),
		})
		cacheService := cache.NewCacheService(redisClient, config.GetDurationEnv("CACHE_TTL", 24*time.Hour))
		closers = append(closers, cacheService.Close)
		checks["redis"] = cacheService

		if config.GetBoolEnv("CACHE_ENABLED", true) {
			repo = cache.NewCachedAccountRepository(repo, cacheService, log)
		}
	}

	// Notifications
	var sink notification.Sink = notification.NewLogSink(log)
	if config.GetEnv("NOTIFY_SINK", "log") == "redis" {
		if redisClient == nil {
			log.Fatal("NOTIFY_SINK=redis requires REDIS_ENABLED=true")
		}
		sink = notification.NewRedisSink(redisClient, int64(config.GetIntEnv("NOTIFY_MAX_LEN", notification.DefaultMaxLen)))
	}
	notifier := notification.NewService(sink, log, config.GetDurationEnv("NOTIFY_TIMEOUT", notification.DefaultTimeout))

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	locking := config.GetEnv("TRANSFER_LOCKING", transfer.LockingGlobal)
	transferService := transfer.NewService(repo, notifier, transfer.Config{
		Locker:  transfer.NewLocker(locking),
		Metrics: telemetry.NewTransferMetrics(registry),
		Logger:  log,
	})
	log.Info("transfer engine ready", zap.String("locking", locking))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "tally " + version,
		ReadTimeout:  config.GetDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: config.GetDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,HEAD",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/v1/accounts/transfer", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("TRANSFER_RATE_LIMIT", 100),
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Accounts:  account.NewService(repo, log),
		Transfers: transferService,
		Health:    handlers.NewHealthHandler(version, checks),
		Gatherer:  registry,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + config.GetEnv("PORT", "3000")
		log.Info("http server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}

	// Pending notifications go out before their transport closes.
	notifier.Close()

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Warn("failed to close resource", zap.Error(err))
		}
	}
}
