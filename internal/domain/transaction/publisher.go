package transaction

import "context"

// EventPublisher is the outbound capability for completion events. Initialize
// is idempotent; implementations perform connection setup on first use.
type EventPublisher interface {
	Initialize(ctx context.Context) error
	Publish(ctx context.Context, event TransactionCreatedEvent) error
	Close() error
}

// EventPublisherFactory hands out an initialized publisher. Implementations
// create lazily and may return the same publisher for the lifetime of a
// processing context.
type EventPublisherFactory interface {
	Create(ctx context.Context) (EventPublisher, error)
}
