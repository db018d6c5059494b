package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cuongbtq/labour-market/internal/api/events"
	"github.com/cuongbtq/labour-market/internal/api/handler"
	"github.com/cuongbtq/labour-market/internal/api/router"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/api/storage"
	"github.com/cuongbtq/labour-market/internal/api/storage/memstore"
	"github.com/cuongbtq/labour-market/internal/bootstrap"
	"github.com/cuongbtq/labour-market/internal/config"
	"github.com/cuongbtq/labour-market/internal/security"
	"github.com/cuongbtq/labour-market/internal/station"
	"github.com/cuongbtq/labour-market/internal/upload"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := bootstrap.InitLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("database_driver", cfg.Database.Driver),
	)

	deps := &handler.Dependencies{Logger: appLogger.Logger, RateLimitPerSec: cfg.Redis.RateLimit}
	var (
		store     service.Store
		publisher service.EventPublisher
		closers   []func() error
	)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				appLogger.Warn("Failed to close resource", slog.Any("error", err))
			}
		}
	}()

	if cfg.Database.IsMemory() {
		appLogger.Warn("Using in-memory store; data is lost on restart and events are applied in-process")
		mem := memstore.New()
		store = mem
		publisher = events.NewLocalPublisher(mem, appLogger.Logger)
	} else {
		dbClient, err := bootstrap.InitPostgreSQL(&cfg.Database, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		closers = append(closers, dbClient.Close)
		appLogger.Info("Database connection established")

		rabbitClient, err := bootstrap.InitRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		closers = append(closers, rabbitClient.Close)
		appLogger.Info("RabbitMQ connection established")

		store = storage.NewStorage(dbClient)
		publisher = events.NewRabbitPublisher(rabbitClient)
		deps.DB = dbClient
	}

	redisClient, err := bootstrap.InitRedis(&cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		closers = append(closers, redisClient.Close)
		deps.Redis = redisClient
		appLogger.Info("Redis rate limiting enabled", slog.Int("per_sec", cfg.Redis.RateLimit))
	}

	stationNames := cfg.Marketplace.Stations
	if len(stationNames) == 0 {
		stationNames = station.DefaultNames()
	}
	stations, err := station.New(stationNames)
	if err != nil {
		return fmt.Errorf("invalid station list: %w", err)
	}

	uploads, err := upload.NewStorage(cfg.Marketplace.UploadDir, cfg.Server.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	tokens := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	svc := service.New(store, stations, publisher, tokens, appLogger.Logger, service.Options{
		PaymentWindow:       cfg.Marketplace.PaymentWindow,
		StrictStationFilter: cfg.Marketplace.Strict(),
		FeedLimit:           cfg.Marketplace.FeedLimit,
	})

	if cfg.Auth.AdminPhone != "" && cfg.Auth.AdminPassword != "" {
		if err := svc.EnsureAdmin(context.Background(), cfg.Auth.AdminPhone, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
	}

	deps.Service = svc
	deps.Uploads = uploads
	deps.Tokens = tokens

	bootstrap.SetGinMode(cfg.App.Environment)
	r := router.SetupRouter(deps)
	r.MaxMultipartMemory = cfg.Server.MaxUploadSize

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	appLogger.Info("API service is running", slog.String("address", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}
