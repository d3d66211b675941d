// Package service contains the read-side services backing the HTTP API.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/receipt"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
)

// TransactionService defines the interface for transaction query operations
type TransactionService interface {
	// GetTransactionByID retrieves a transaction by its ID
	// Returns nil if the transaction is not found
	GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Transaction, error)

	// GetTransactionsByAccountID retrieves paginated list of transactions for an account
	// Returns transactions, total count of all transactions, and any error
	GetTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*transaction.Transaction, int64, error)
}

// ReceiptService defines the interface for receipt operations
type ReceiptService interface {
	// Generate renders and stores the receipt for a transaction, returning the
	// existing document when one was already generated
	Generate(ctx context.Context, transactionID uuid.UUID) (*receipt.Document, error)

	// Share mints a signed, time-limited link to a transaction's receipt
	Share(ctx context.Context, req *receipt.ShareRequest) (*receipt.SignedLink, error)

	// Resolve validates a share token and returns the receipt it points to
	Resolve(ctx context.Context, token string) (*receipt.Document, error)

	// Revoke deactivates a share link
	Revoke(ctx context.Context, linkID uuid.UUID) error
}
