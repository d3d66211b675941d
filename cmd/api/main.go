package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/api"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/api/service"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/config"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/data/mongo"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/data/postgres"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/logger"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/platform/persistence"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/receipts"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	signedLinkRepo := postgres.NewSignedLinkRepository(log, postgresDB)
	receiptRepo := mongo.NewReceiptRepository(log, mongoDB.Database())

	// Initialize receipt rendering
	renderPool, err := receipts.NewRenderPool(receipts.NewHTMLRenderer(), cfg.Receipts.RenderPoolSize, log)
	if err != nil {
		log.Error("Failed to initialize render pool", "error", err)
		os.Exit(1)
	}
	signer := receipts.NewTokenSigner(cfg.Receipts.SigningSecret)

	// Initialize services
	transactionService := service.NewTransactionService(log, transactionRepo)
	receiptService := receipts.NewService(transactionRepo, receiptRepo, signedLinkRepo, renderPool, signer, &cfg.Receipts, log)

	// Initialize REST server
	server := api.NewServer(log, cfg, transactionService, receiptService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Stop accepting render jobs
	renderPool.Shutdown()

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
