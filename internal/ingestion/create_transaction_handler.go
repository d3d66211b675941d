package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
)

// CreateTransactionHandler translates one CreateTransactionEvent into a
// persisted transaction and a published completion event, as a single logical
// unit of work. Any failure propagates unchanged to the consumer, which
// treats it as a retryable handler failure.
type CreateTransactionHandler struct {
	factory    *transaction.Factory
	repo       transaction.Repository
	publishers transaction.EventPublisherFactory
	logger     *slog.Logger
}

func NewCreateTransactionHandler(
	logger *slog.Logger,
	factory *transaction.Factory,
	repo transaction.Repository,
	publishers transaction.EventPublisherFactory,
) *CreateTransactionHandler {
	return &CreateTransactionHandler{
		factory:    factory,
		repo:       repo,
		publishers: publishers,
		logger:     logger,
	}
}

// Handle builds the transaction via the factory, persists it, then publishes
// the completion event through a publisher obtained from the factory.
func (h *CreateTransactionHandler) Handle(ctx context.Context, event transaction.InboundEvent) error {
	createEvent, ok := event.(*transaction.CreateTransactionEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for CreateTransaction handler", event)
	}

	h.logger.Info("processing CreateTransactionEvent",
		"account_id", createEvent.AccountId.String(),
	)

	tx, err := h.factory.Create(transaction.CreateParams{
		AccountID:            createEvent.AccountId,
		DestinationAccountID: createEvent.DestinationAccountId,
		Amount:               createEvent.Amount,
		OpeningBalance:       createEvent.OpeningBalance,
		Narration:            createEvent.Narration,
		Type:                 createEvent.Type,
		Channel:              createEvent.Channel,
		Currency:             createEvent.Currency,
		Metadata:             string(createEvent.Metadata),
	})
	if err != nil {
		return fmt.Errorf("failed to build transaction for account %s: %w", createEvent.AccountId, err)
	}

	if err := h.repo.Save(ctx, tx); err != nil {
		return fmt.Errorf("failed to persist transaction %s: %w", tx.ID, err)
	}

	publisher, err := h.publishers.Create(ctx)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}

	if err := publisher.Publish(ctx, transaction.TransactionCreatedEvent{TransactionID: tx.ID}); err != nil {
		return fmt.Errorf("failed to publish transaction created event for %s: %w", tx.ID, err)
	}

	h.logger.Info("successfully processed CreateTransactionEvent",
		"account_id", createEvent.AccountId.String(),
		"transaction_id", tx.ID.String(),
		"reference", tx.Reference,
	)
	return nil
}

// NewDefaultRegistry wires the supported inbound event kinds.
func NewDefaultRegistry(createHandler *CreateTransactionHandler) *Registry {
	registry := NewRegistry()
	registry.Register(transaction.EventTypeCreateTransaction, DecodeCreateTransactionEvent, createHandler.Handle)
	return registry
}
