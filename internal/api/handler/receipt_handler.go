package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/api/service"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/receipt"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/receipts"
)

// ReceiptHandler handles HTTP requests for receipt operations
type ReceiptHandler struct {
	receiptService service.ReceiptService
	logger         *slog.Logger
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(logger *slog.Logger, receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		logger:         logger,
	}
}

// Get serves the rendered receipt for a transaction, generating it on first
// access. Returns 404 when the transaction does not exist.
func (h *ReceiptHandler) Get(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	doc, err := h.receiptService.Generate(c.Request.Context(), id)
	if err != nil {
		var txNotFound transaction.ErrTransactionNotFound
		if errors.As(err, &txNotFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to generate receipt", "transaction_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// Share mints a shareable, time-limited link to a transaction's receipt
func (h *ReceiptHandler) Share(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req ShareReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shareRequest, err := receipt.NewShareRequest(id, req.ExpirationHours, req.RequestedBy)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	link, err := h.receiptService.Share(c.Request.Context(), shareRequest)
	if err != nil {
		var txNotFound transaction.ErrTransactionNotFound
		if errors.As(err, &txNotFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to share receipt", "transaction_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapSignedLinkToResponse(link))
}

// ResolveShared serves a receipt through its share token. Expired and revoked
// links return 410, tampered or unknown tokens 404.
func (h *ReceiptHandler) ResolveShared(c *gin.Context) {
	token := c.Param("token")

	doc, err := h.receiptService.Resolve(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, receipts.ErrTokenExpired), errors.Is(err, receipts.ErrLinkNotValid):
			RespondGone(c, "Share link has expired or been revoked")
		case errors.Is(err, receipts.ErrInvalidToken):
			RespondNotFound(c, "Share link not found")
		default:
			var linkNotFound receipt.ErrSignedLinkNotFound
			if errors.As(err, &linkNotFound) {
				RespondNotFound(c, "Share link not found")
				return
			}
			h.logger.Error("Failed to resolve share link", "error", err)
			RespondInternalError(c)
		}
		return
	}

	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// Revoke deactivates a share link so its URL stops resolving
func (h *ReceiptHandler) Revoke(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid link ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid link ID")
		return
	}

	if err := h.receiptService.Revoke(c.Request.Context(), id); err != nil {
		var linkNotFound receipt.ErrSignedLinkNotFound
		if errors.As(err, &linkNotFound) {
			RespondNotFound(c, "Share link not found")
			return
		}
		h.logger.Error("Failed to revoke share link", "link_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// mapSignedLinkToResponse maps a signed link to its response DTO
func mapSignedLinkToResponse(link *receipt.SignedLink) SignedLinkResponse {
	return SignedLinkResponse{
		ID:           link.ID.String(),
		ResourceType: link.ResourceType,
		ShareableURL: link.ShareableURL,
		ExpiresAt:    link.ExpiresAt.Format(time.RFC3339),
		CreatedAt:    link.CreatedAt.Format(time.RFC3339),
		IsActive:     link.IsActive,
	}
}
