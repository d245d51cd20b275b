package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/app"
	"github.com/brightnest/cleaning-booking-backend/internal/config"
	"github.com/brightnest/cleaning-booking-backend/internal/db"
	"github.com/brightnest/cleaning-booking-backend/internal/notification"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/logging"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/ratelimit"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	// Outbound email
	var sender notification.Sender
	if cfg.SMTPHost != "" {
		sender = notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
		logger.Info("email delivery enabled (smtp)", zap.String("host", cfg.SMTPHost))
	} else {
		sender = notification.NewLogSender(logger)
		logger.Info("email delivery disabled, messages are logged only")
	}

	// Rate limiting
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "rl")
		logger.Info("rate limiting enabled (redis)", zap.Int("per_minute", cfg.RateLimitPerMinute), zap.String("redis_addr", cfg.RedisAddr))
	} else {
		mem := ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute)
		go mem.Run(ctx, time.Minute)
		limiter = mem
		logger.Info("rate limiting enabled (in-memory)", zap.Int("per_minute", cfg.RateLimitPerMinute))
	}

	container, err := app.NewContainer(app.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		DBPool:            pool,
		Logger:            logger,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTAccessTokenTTL,
		BcryptCost:        cfg.BcryptCost,
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
		Location:          cfg.Location,
		BufferMinutes:     cfg.BufferMinutes,
		Sender:            sender,
		NotifyEmail:       cfg.NotifyEmail,
		Limiter:           limiter,
		ActivityLogSize:   cfg.ActivityLogSize,
		ActivityLogTTL:    cfg.ActivityLogTTL,
	})
	if err != nil {
		logger.Fatal("failed to build application", zap.Error(err))
	}

	// Background jobs
	if err := container.Scheduler.Register(cfg.ReminderCron, cfg.CompletionCron); err != nil {
		logger.Fatal("failed to schedule jobs", zap.Error(err))
	}
	container.Scheduler.Start()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("timezone", cfg.Location.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	// Let running jobs finish
	select {
	case <-container.Scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("background jobs still running at shutdown")
	}

	logger.Info("server exited gracefully")
}
