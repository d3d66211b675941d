package transaction

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names as they appear on the wire. Lookup against these is
// case-insensitive.
const (
	EventTypeCreateTransaction  = "CreateTransaction"
	EventTypeTransactionCreated = "TransactionCreated"
)

// InboundEvent is a decoded broker event. Events identify themselves by their
// wire event type and the account they concern.
type InboundEvent interface {
	EventType() string
	AccountID() uuid.UUID
}

// CreateTransactionEvent is the inbound request to materialize a transaction.
// JSON field names follow the wire envelope; matching is case-insensitive and
// enum fields accept symbolic names or wire aliases.
type CreateTransactionEvent struct {
	AccountId            uuid.UUID       `json:"AccountId"`
	DestinationAccountId uuid.UUID       `json:"DestinationAccountId"`
	Amount               decimal.Decimal `json:"Amount"`
	OpeningBalance       decimal.Decimal `json:"OpeningBalance"`
	Narration            string          `json:"Narration"`
	Type                 Type            `json:"Type"`
	Currency             Currency        `json:"Currency"`
	Channel              Channel         `json:"Channel"`
	Metadata             json.RawMessage `json:"Metadata,omitempty"`
}

func (e *CreateTransactionEvent) EventType() string {
	return EventTypeCreateTransaction
}

func (e *CreateTransactionEvent) AccountID() uuid.UUID {
	return e.AccountId
}

// TransactionCreatedEvent is published once per successfully ingested
// transaction.
type TransactionCreatedEvent struct {
	TransactionID uuid.UUID `json:"TransactionId"`
}
