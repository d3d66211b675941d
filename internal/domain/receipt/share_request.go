package receipt

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Shareable links live at most seven days.
const MaxExpirationHours = 168

var (
	ErrEmptyRequestedBy      = errors.New("requestedBy parameter is required")
	ErrExpirationOutOfBounds = errors.New("expirationHours must be between 1 and 168 hours")
)

// ShareRequest is a validated request to mint a shareable receipt link.
type ShareRequest struct {
	TransactionID   uuid.UUID
	ExpirationHours int
	RequestedBy     string
}

// NewShareRequest validates and builds a share request
func NewShareRequest(transactionID uuid.UUID, expirationHours int, requestedBy string) (*ShareRequest, error) {
	if transactionID == uuid.Nil {
		return nil, ErrEmptyTransactionID
	}
	if requestedBy == "" {
		return nil, ErrEmptyRequestedBy
	}
	if expirationHours <= 0 || expirationHours > MaxExpirationHours {
		return nil, ErrExpirationOutOfBounds
	}

	return &ShareRequest{
		TransactionID:   transactionID,
		ExpirationHours: expirationHours,
		RequestedBy:     requestedBy,
	}, nil
}

// ExpiresAt computes the expiry instant from now
func (r *ShareRequest) ExpiresAt() time.Time {
	return time.Now().UTC().Add(time.Duration(r.ExpirationHours) * time.Hour)
}
