package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/config"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/data/postgres"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/ingestion"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/logger"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/platform/messaging/rabbitmq"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting ingestion worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Apply database migrations before accepting any work
	if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repository and domain factory
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	transactionFactory := transaction.NewFactory()

	// Initialize publisher factory for completion events
	publisherFactory := rabbitmq.NewPublisherFactory(log, &cfg.RabbitMQ)

	// Wire the event router
	createHandler := ingestion.NewCreateTransactionHandler(log, transactionFactory, transactionRepo, publisherFactory)
	registry := ingestion.NewDefaultRegistry(createHandler)

	// Initialize metrics and consumer
	registerer := prometheus.NewRegistry()
	registerer.MustRegister(collectors.NewGoCollector())
	metrics := rabbitmq.NewMetrics(registerer)
	consumer := rabbitmq.NewConsumer(log, &cfg.RabbitMQ, registry, metrics)

	// Health and metrics listener
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpRouter := gin.New()
	httpRouter.GET("/health", func(c *gin.Context) {
		healthy, reasons := consumer.CheckHealth()
		status := http.StatusOK
		body := gin.H{"status": "ok", "timestamp": time.Now().UTC()}
		if !healthy {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["reasons"] = reasons
		}
		c.JSON(status, body)
	})
	httpRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registerer, promhttp.HandlerOpts{})))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting RabbitMQ consumer",
			"queue", cfg.RabbitMQ.QueueName,
			"dead_letter_queue", cfg.RabbitMQ.QueueName+".dlq",
		)
		if err := consumer.StartConsuming(appCtx); err != nil {
			errChan <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	// Start health/metrics listener in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting health and metrics listener", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("health listener error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	consumer.Close()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during health listener shutdown", "error", err)
	}

	// Wait for all goroutines to finish
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close completion-event publishers
	if err = publisherFactory.Close(); err != nil {
		log.Error("Error closing publisher factory", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serviceErr != nil {
		log.Error("Ingestion worker shutdown with errors", "error", serviceErr)
	} else {
		log.Info("Ingestion worker shutdown completed successfully")
	}
}
