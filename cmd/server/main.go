package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/controlx/backoffice/internal/config"
	"github.com/controlx/backoffice/internal/database"
	"github.com/controlx/backoffice/internal/handlers"
	"github.com/controlx/backoffice/internal/realtime"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/controlx/backoffice/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to create postgres pool", zap.Error(err))
	}
	defer postgresPool.Close()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to create redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	eventRepo := repositories.NewPostgresEventRepository(postgresPool)
	userRepo := repositories.NewPostgresUserRepository(postgresPool)
	principalRepo := repositories.NewPostgresPrincipalRepository(postgresPool)
	noteRepo := repositories.NewPostgresNoteRepository(postgresPool)
	sessionRepo := repositories.NewRedisSessionRepository(redisClient)

	// Change bus and snapshot feeds
	bus := realtime.NewRedisBus(redisClient)
	eventsFeed := realtime.NewEventsFeed(bus, eventRepo, logger)
	notesFeed := realtime.NewNotesFeed(bus, noteRepo, logger)

	// Services
	authSvc := services.NewAuthService(principalRepo, userRepo, sessionRepo, cfg.JWTSecret, cfg.JWTExpiry)
	userSvc := services.NewUserService(userRepo, authSvc, logger)
	eventSvc := services.NewEventService(eventRepo, bus, logger)
	noteSvc := services.NewNoteService(noteRepo, bus, logger)

	router := handlers.NewRouter(handlers.Options{
		Auth:         authSvc,
		Users:        userSvc,
		Events:       eventSvc,
		Notes:        noteSvc,
		EventsFeed:   eventsFeed,
		NotesFeed:    notesFeed,
		PageSize:     cfg.PageSize,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("Starting server", zap.String("port", cfg.ServerPort))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	return cfg.Build()
}
