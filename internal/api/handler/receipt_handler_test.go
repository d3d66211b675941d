package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/receipt"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/receipts"
)

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Generate(ctx context.Context, transactionID uuid.UUID) (*receipt.Document, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.Document), args.Error(1)
}

func (m *MockReceiptService) Share(ctx context.Context, req *receipt.ShareRequest) (*receipt.SignedLink, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.SignedLink), args.Error(1)
}

func (m *MockReceiptService) Resolve(ctx context.Context, token string) (*receipt.Document, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.Document), args.Error(1)
}

func (m *MockReceiptService) Revoke(ctx context.Context, linkID uuid.UUID) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}

func sampleDocument(transactionID uuid.UUID) *receipt.Document {
	return &receipt.Document{
		ID:            uuid.New(),
		TransactionID: transactionID,
		FileName:      "receipt-TR-20260829153005123.html",
		ContentType:   "text/html; charset=utf-8",
		Content:       []byte("<html><body>receipt</body></html>"),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestReceiptHandler_Get(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("ServesRenderedReceipt", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		txID := uuid.New()
		doc := sampleDocument(txID)
		mockService.On("Generate", mock.Anything, txID).Return(doc, nil)

		router := gin.New()
		router.GET("/transactions/:id/receipt", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/"+txID.String()+"/receipt", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, doc.ContentType, rr.Header().Get("Content-Type"))
		assert.Equal(t, string(doc.Content), rr.Body.String())
	})

	t.Run("TransactionNotFound", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		txID := uuid.New()
		mockService.On("Generate", mock.Anything, txID).
			Return(nil, transaction.ErrTransactionNotFound{TransactionID: txID})

		router := gin.New()
		router.GET("/transactions/:id/receipt", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/"+txID.String()+"/receipt", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		router := gin.New()
		router.GET("/transactions/:id/receipt", handler.Get)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/nope/receipt", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})
}

func TestReceiptHandler_Share(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("MintsLink", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		txID := uuid.New()
		link := &receipt.SignedLink{
			ID:           uuid.New(),
			ResourceID:   uuid.New(),
			ResourceType: receipt.ResourceTypeReceipt,
			ShareableURL: "https://api.example.com/api/v1/receipts/shared/token",
			ExpiresAt:    time.Now().UTC().Add(24 * time.Hour),
			CreatedAt:    time.Now().UTC(),
			IsActive:     true,
		}

		mockService.On("Share", mock.Anything, mock.MatchedBy(func(req *receipt.ShareRequest) bool {
			return req.TransactionID == txID && req.ExpirationHours == 24 && req.RequestedBy == "ops@example.com"
		})).Return(link, nil)

		router := gin.New()
		router.POST("/transactions/:id/receipt/share", handler.Share)

		body, _ := json.Marshal(ShareReceiptRequest{ExpirationHours: 24, RequestedBy: "ops@example.com"})
		req, _ := http.NewRequest(http.MethodPost, "/transactions/"+txID.String()+"/receipt/share", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			Data SignedLinkResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, link.ID.String(), resp.Data.ID)
		assert.Equal(t, link.ShareableURL, resp.Data.ShareableURL)
		assert.True(t, resp.Data.IsActive)

		mockService.AssertExpectations(t)
	})

	t.Run("ExpirationOutOfBounds", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		router := gin.New()
		router.POST("/transactions/:id/receipt/share", handler.Share)

		body, _ := json.Marshal(ShareReceiptRequest{ExpirationHours: 500, RequestedBy: "ops@example.com"})
		req, _ := http.NewRequest(http.MethodPost, "/transactions/"+uuid.NewString()+"/receipt/share", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Share", mock.Anything, mock.Anything)
	})

	t.Run("MissingRequestedBy", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		router := gin.New()
		router.POST("/transactions/:id/receipt/share", handler.Share)

		body, _ := json.Marshal(map[string]any{"expiration_hours": 24})
		req, _ := http.NewRequest(http.MethodPost, "/transactions/"+uuid.NewString()+"/receipt/share", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestReceiptHandler_ResolveShared(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	router := func(h *ReceiptHandler) *gin.Engine {
		r := gin.New()
		r.GET("/receipts/shared/:token", h.ResolveShared)
		return r
	}

	t.Run("ValidToken", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		doc := sampleDocument(uuid.New())
		mockService.On("Resolve", mock.Anything, "good-token").Return(doc, nil)

		req, _ := http.NewRequest(http.MethodGet, "/receipts/shared/good-token", nil)
		rr := httptest.NewRecorder()
		router(handler).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, string(doc.Content), rr.Body.String())
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		mockService.On("Resolve", mock.Anything, "stale-token").Return(nil, receipts.ErrTokenExpired)

		req, _ := http.NewRequest(http.MethodGet, "/receipts/shared/stale-token", nil)
		rr := httptest.NewRecorder()
		router(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusGone, rr.Code)
	})

	t.Run("RevokedLink", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		mockService.On("Resolve", mock.Anything, "revoked-token").Return(nil, receipts.ErrLinkNotValid)

		req, _ := http.NewRequest(http.MethodGet, "/receipts/shared/revoked-token", nil)
		rr := httptest.NewRecorder()
		router(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusGone, rr.Code)
	})

	t.Run("TamperedToken", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		mockService.On("Resolve", mock.Anything, "bad-token").Return(nil, receipts.ErrInvalidToken)

		req, _ := http.NewRequest(http.MethodGet, "/receipts/shared/bad-token", nil)
		rr := httptest.NewRecorder()
		router(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("UnknownLink", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		linkID := uuid.New()
		mockService.On("Resolve", mock.Anything, "orphan-token").
			Return(nil, receipt.ErrSignedLinkNotFound{LinkID: linkID})

		req, _ := http.NewRequest(http.MethodGet, "/receipts/shared/orphan-token", nil)
		rr := httptest.NewRecorder()
		router(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestReceiptHandler_Revoke(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		linkID := uuid.New()
		mockService.On("Revoke", mock.Anything, linkID).Return(nil)

		router := gin.New()
		router.DELETE("/receipts/links/:id", handler.Revoke)

		req, _ := http.NewRequest(http.MethodDelete, "/receipts/links/"+linkID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingLink", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		linkID := uuid.New()
		mockService.On("Revoke", mock.Anything, linkID).
			Return(receipt.ErrSignedLinkNotFound{LinkID: linkID})

		router := gin.New()
		router.DELETE("/receipts/links/:id", handler.Revoke)

		req, _ := http.NewRequest(http.MethodDelete, "/receipts/links/"+linkID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockReceiptService)
		handler := NewReceiptHandler(logger, mockService)

		linkID := uuid.New()
		mockService.On("Revoke", mock.Anything, linkID).Return(errors.New("db down"))

		router := gin.New()
		router.DELETE("/receipts/links/:id", handler.Revoke)

		req, _ := http.NewRequest(http.MethodDelete, "/receipts/links/"+linkID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
