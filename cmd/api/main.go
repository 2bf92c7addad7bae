package main

import (
	"context"
	"elitesite-backend/config"
	v1 "elitesite-backend/internal/delivery/http/v1"
	"elitesite-backend/internal/usecase"
	"elitesite-backend/pkg/email"
	"elitesite-backend/pkg/logger"
	"elitesite-backend/pkg/redis"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// @title           Elite Site Contact Relay API
// @version         1.0
// @description     Relays contact form submissions from the agency website to the team inbox.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting contact relay", "port", cfg.Port, "transport", cfg.MailTransport)

	// 3. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.New(context.Background(), redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable - rate limiting uses in-memory counters", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	// 4. Setup Email Service
	transport, err := email.NewTransport(cfg, logger.Log)
	if err != nil {
		logger.Log.Error("Invalid mail transport configuration", "error", err)
		os.Exit(1)
	}
	emailService := email.NewEmailService(cfg, transport)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will answer with server errors",
			"transport", emailService.TransportName())
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(emailService)
	healthUC := usecase.NewHealthUsecase()

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Redis:     redisClient,
		Config:    cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTPReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTPWriteTimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
