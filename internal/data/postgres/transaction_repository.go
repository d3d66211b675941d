// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the transaction service.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/platform/persistence"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Save upserts a transaction keyed by id. Redelivered events that produce the
// same transaction id overwrite the existing row instead of failing, which
// keeps event processing idempotent.
func (r *TransactionRepository) Save(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, destination_account_id, amount, opening_balance, closing_balance, narration, type, currency, channel, status, reference, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			closing_balance = EXCLUDED.closing_balance,
			narration = EXCLUDED.narration,
			status = EXCLUDED.status,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.querier.Exec(ctx, query,
		t.ID,
		t.AccountID,
		t.DestinationAccountID,
		t.Amount,
		t.OpeningBalance,
		t.ClosingBalance,
		t.Narration,
		t.Type,
		t.Currency,
		t.Channel,
		t.Status,
		t.Reference,
		t.Metadata,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save transaction", "id", t.ID.String(), "error", err)
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `
		SELECT id, account_id, destination_account_id, amount, opening_balance, closing_balance, narration, type, currency, channel, status, reference, metadata, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	var t transaction.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.AccountID,
		&t.DestinationAccountID,
		&t.Amount,
		&t.OpeningBalance,
		&t.ClosingBalance,
		&t.Narration,
		&t.Type,
		&t.Currency,
		&t.Channel,
		&t.Status,
		&t.Reference,
		&t.Metadata,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &t, nil
}

// ListByAccountID retrieves transactions for an account, newest first
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, account_id, destination_account_id, amount, opening_balance, closing_balance, narration, type, currency, channel, status, reference, metadata, created_at, updated_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.DestinationAccountID,
			&t.Amount,
			&t.OpeningBalance,
			&t.ClosingBalance,
			&t.Narration,
			&t.Type,
			&t.Currency,
			&t.Channel,
			&t.Status,
			&t.Reference,
			&t.Metadata,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// CountByAccountID counts the total number of transactions for an account
func (r *TransactionRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}
