// Package transaction holds the transaction domain entity, the factory that
// enforces its invariants, and the composable business validators.
package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the durable domain record materialized from an inbound
// transaction event. Instances are created through Factory.Create and mutated
// only through Factory.Update, never directly.
type Transaction struct {
	ID                   uuid.UUID           `json:"id"`
	AccountID            uuid.UUID           `json:"account_id"`
	DestinationAccountID uuid.UUID           `json:"destination_account_id"`
	Amount               decimal.Decimal     `json:"amount"`
	OpeningBalance       decimal.Decimal     `json:"opening_balance"`
	ClosingBalance       decimal.NullDecimal `json:"closing_balance"`
	Narration            string              `json:"narration"`
	Type                 Type                `json:"type"`
	Currency             Currency            `json:"currency"`
	Channel              Channel             `json:"channel"`
	Status               Status              `json:"status"`
	Reference            string              `json:"reference"`
	Metadata             string              `json:"metadata,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}
