package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/config"
	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/handlers"
	"github.com/SAP-F-2025/academy-service/internal/observability"
	"github.com/SAP-F-2025/academy-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/academy-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
	"github.com/SAP-F-2025/academy-service/pkg"
)

const serviceName = "academy-service"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing := observability.InitOTel(rootCtx, slogLogger, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		SampleRatio: 1,
	})

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Redis is optional: without it views are never cached
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Failed to initialize Redis, running without cache", "error", err)
			redisClient = nil
		}
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	publisher, err := newEventPublisher(rootCtx, cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	v := validator.New()

	serviceManager := services.NewServiceManager(db, repoManager.GetRepository(), slogLogger, v, services.ServiceManagerConfig{
		Cache:     cache.NewCacheManager(redisClient),
		Publisher: publisher,
		JWTSecret: cfg.AuthSecret,
		TokenTTL:  cfg.TokenTTL,
	})
	if err := serviceManager.Initialize(rootCtx); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	if err := serviceManager.Auth().EnsureAdmin(rootCtx, cfg.SeedAdminEmail, cfg.SeedAdminPasswd); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	authMiddleware, store := newAuthenticator(cfg, serviceManager, redisClient, slogLogger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, handlers.MiddlewareConfig{
		ServiceName:    serviceName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Tracing:        cfg.OtelEnabled,
	})

	handlerManager := handlers.NewHandlerManager(serviceManager, authMiddleware, store, logger, serviceName)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "auth_provider", cfg.AuthProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stops the audit consumers before the publisher closes
	stop()

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	if err := repoManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to close repositories", "error", err)
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Error("Failed to flush traces", "error", err)
	}

	logger.Info("Server exited")
}

// newEventPublisher publishes to Kafka when brokers are configured, otherwise
// to an in-process channel drained by the audit log.
func newEventPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	if len(cfg.KafkaBrokers) > 0 {
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, logger)
	}

	publisher, channel := events.NewInMemoryPublisher(cfg.KafkaTopicPrefix, logger)
	if err := events.RunAuditLog(ctx, channel, cfg.KafkaTopicPrefix, logger); err != nil {
		_ = publisher.Close()
		return nil, err
	}
	logger.Info("Kafka not configured, events go to the audit log")
	return publisher, nil
}

// newAuthenticator picks the token middleware for the configured provider.
// Sessions only exist for local accounts.
func newAuthenticator(cfg *config.Config, sm services.ServiceManager, redisClient *redis.Client, logger *slog.Logger) (handlers.Authenticator, sessions.Store) {
	if cfg.AuthProvider == config.AuthProviderCasdoor {
		client := casdoor.NewClient(casdoor.CasdoorConfig{
			Endpoint:         cfg.Casdoor.Endpoint,
			ClientID:         cfg.Casdoor.ClientID,
			ClientSecret:     cfg.Casdoor.ClientSecret,
			Certificate:      cfg.Casdoor.Cert,
			OrganizationName: cfg.Casdoor.Organization,
			ApplicationName:  cfg.Casdoor.Application,
		})
		directory := casdoor.NewIdentityCasdoor(client, redisClient)
		return handlers.NewCasdoorAuthMiddleware(client, sm.Auth(), directory, logger), nil
	}

	store := handlers.NewSessionStore(cfg.SessionKey, int(cfg.TokenTTL.Seconds()), cfg.IsProduction())
	return handlers.NewTokenAuthMiddleware(sm.Auth(), store), store
}
