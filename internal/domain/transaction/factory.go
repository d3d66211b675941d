package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateParams carries the inputs for building a new transaction. Reference
// and Metadata are optional; Reference defaults to a generated "TR-" value.
type CreateParams struct {
	AccountID            uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	OpeningBalance       decimal.Decimal
	ClosingBalance       decimal.NullDecimal
	Narration            string
	Type                 Type
	Channel              Channel
	Currency             Currency
	Reference            string
	Metadata             string
}

// UpdateParams carries the optional mutations applied by Factory.Update.
// Blank or absent values are no-ops; Status is always applied.
type UpdateParams struct {
	Status         Status
	ClosingBalance decimal.NullDecimal
	Narration      string
	Metadata       string
}

// Factory builds and updates transactions while enforcing the domain
// invariants. It is stateless beyond its configured validator chain and safe
// for concurrent use.
type Factory struct {
	creationChain *CompositeValidator
}

func NewFactory() *Factory {
	return &Factory{
		creationChain: NewCompositeValidator(SameAccountValidator{}),
	}
}

// Create builds a new PENDING transaction with a generated id, stamping both
// timestamps to the current UTC instant.
func (f *Factory) Create(p CreateParams) (*Transaction, error) {
	if p.Amount.IsNegative() {
		return nil, &OutOfRangeError{Field: "amount", Message: "amount cannot be negative"}
	}
	if p.Type == TypeDebit && p.ClosingBalance.Valid && p.ClosingBalance.Decimal.GreaterThan(p.OpeningBalance) {
		return nil, &InvalidStateError{Message: "closing balance cannot exceed opening balance for debit transactions"}
	}

	now := time.Now().UTC()
	reference := p.Reference
	if reference == "" {
		reference = generateReference(now)
	}

	t := &Transaction{
		ID:                   uuid.New(),
		AccountID:            p.AccountID,
		DestinationAccountID: p.DestinationAccountID,
		Amount:               p.Amount,
		OpeningBalance:       p.OpeningBalance,
		ClosingBalance:       p.ClosingBalance,
		Narration:            p.Narration,
		Type:                 p.Type,
		Currency:             p.Currency,
		Channel:              p.Channel,
		Status:               StatusPending,
		Reference:            reference,
		Metadata:             p.Metadata,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if !f.creationChain.Validate(t) {
		return nil, &InvalidStateError{Message: "sender and recipient accounts cannot be the same"}
	}

	return t, nil
}

// Update applies a status change and the provided optional fields to an
// existing transaction, bumping UpdatedAt. The balance-consistency checks run
// before any mutation so a failed update leaves the transaction untouched.
func (f *Factory) Update(existing *Transaction, p UpdateParams) (*Transaction, error) {
	if existing.Type == TypeDebit && p.ClosingBalance.Valid && p.ClosingBalance.Decimal.GreaterThan(existing.OpeningBalance) {
		return nil, &InvalidStateError{Message: "closing balance cannot exceed opening balance for debit transactions"}
	}
	if existing.Type == TypeCredit && p.ClosingBalance.Valid && p.ClosingBalance.Decimal.LessThan(existing.OpeningBalance) {
		return nil, &InvalidStateError{Message: "closing balance cannot be less than opening balance for credit transactions"}
	}
	if !p.Status.IsValid() {
		return nil, &InvalidArgumentError{Field: "status", Message: fmt.Sprintf("invalid transaction status %q", p.Status)}
	}
	// PENDING is the only non-terminal status.
	if existing.Status != StatusPending && p.Status != existing.Status {
		return nil, &InvalidStateError{Message: fmt.Sprintf("transaction status %s is terminal", existing.Status)}
	}

	if p.Narration != "" {
		existing.Narration = p.Narration
	}
	if p.Metadata != "" {
		existing.Metadata = p.Metadata
	}
	if p.ClosingBalance.Valid {
		existing.ClosingBalance = p.ClosingBalance
	}

	existing.Status = p.Status
	existing.UpdatedAt = time.Now().UTC()

	return existing, nil
}

// generateReference formats a "TR-" reference from a UTC instant with
// millisecond precision, e.g. TR-20260829153005123.
func generateReference(now time.Time) string {
	return fmt.Sprintf("TR-%s%03d", now.Format("20060102150405"), now.Nanosecond()/int(time.Millisecond))
}
