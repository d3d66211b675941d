package transaction

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines transaction persistence operations. Save is an upsert
// keyed by transaction id and is assumed durable and transactional per call.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	Save(ctx context.Context, t *Transaction) error
}

// ErrTransactionNotFound indicates a missing transaction
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}
