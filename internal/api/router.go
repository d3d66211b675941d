package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/api/handler"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	receiptHandler *handler.ReceiptHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Transaction queries
		transactions := v1.Group("/transactions")
		{
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.GET("/:id/receipt", receiptHandler.Get)
			transactions.POST("/:id/receipt/share", receiptHandler.Share)
		}

		// Account transaction history
		accounts := v1.Group("/accounts")
		{
			accounts.GET("/:id/transactions", transactionHandler.GetByAccountID)
		}

		// Shared receipt links
		receipts := v1.Group("/receipts")
		{
			receipts.GET("/shared/:token", receiptHandler.ResolveShared)
			receipts.DELETE("/links/:id", receiptHandler.Revoke)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
