package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/config"
	"github.com/SAP-F-2025/survey-portal/internal/events"
	"github.com/SAP-F-2025/survey-portal/internal/handlers"
	"github.com/SAP-F-2025/survey-portal/internal/repositories/store"
	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
	"github.com/SAP-F-2025/survey-portal/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database (only needed by the postgres draft store)
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = pkg.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Failed to initialize Redis, continuing without cache", "error", err)
			redisClient = nil
		}
	}

	// Initialize repositories
	repoManager := store.NewRepositoryManager(store.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
		DraftStore:  cfg.DraftStore,
		DraftTTL:    cfg.DraftTTL,
		Logger:      slogLogger.With("component", "repositories"),
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Initialize event bus
	bus, err := events.NewBus(events.BusConfig{
		KafkaBrokers:  cfg.KafkaBrokers,
		ConsumerGroup: cfg.KafkaConsumerGroup,
	}, slogLogger.With("component", "events"))
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}

	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, slogLogger.With("component", "backend"))

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceDependencies{
		Backend:    backendClient,
		Repo:       repoManager.GetRepository(),
		Cache:      repoManager.Portal().Cache(),
		Publisher:  events.NewWatermillPublisher(bus.Publisher, slogLogger),
		Subscriber: bus.Subscriber,
		Validator:  validator.New(),
		Logger:     slogLogger,
	}, services.ServiceManagerConfig{
		PublicSurveyTTL: cfg.PublicSurveyTTL,
		StatisticsTTL:   cfg.StatisticsTTL,
		SessionTTL:      cfg.SessionTTL,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// A 401 from the backend drops the session that carried the token
	backendClient.OnUnauthorized(func(ctx context.Context) {
		serviceManager.Auth().ExpireSession(ctx)
	})

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger, handlers.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SecureCookies,
	})

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger, handlers.MiddlewareConfig{
		CORSOrigins:   cfg.CORSOrigins,
		DefaultLocale: cfg.DefaultLocale,
	})

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "backend", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	if err := bus.Close(); err != nil {
		logger.Error("Failed to close event bus", "error", err)
	}

	// Closes the database and Redis connections
	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown repositories", "error", err)
	}

	logger.Info("Server exited")
}
