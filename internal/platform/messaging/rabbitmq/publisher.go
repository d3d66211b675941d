package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/config"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// transactionCreatedEnvelope is the outbound wire format for completion
// events.
type transactionCreatedEnvelope struct {
	EventType     string    `json:"EventType"`
	TransactionId uuid.UUID `json:"TransactionId"`
}

// Publisher sends completion events to the outbound queue. Initialize is
// idempotent and performs connection, channel and queue setup on first use;
// Publish failures propagate to the caller.
type Publisher struct {
	cfg    *config.RabbitMQConfig
	logger *slog.Logger
	dial   DialFunc

	mu          sync.Mutex
	conn        Connection
	channel     Channel
	initialized bool
}

var _ transaction.EventPublisher = (*Publisher)(nil)

func NewPublisher(logger *slog.Logger, cfg *config.RabbitMQConfig) *Publisher {
	return &Publisher{
		cfg:    cfg,
		logger: logger,
		dial:   Dial,
	}
}

// Initialize connects and declares the outbound queue. Calling it on an
// already-initialized publisher is a no-op while the channel remains open.
func (p *Publisher) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized && p.channel != nil && !p.channel.IsClosed() {
		return nil
	}

	conn, err := p.dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize publisher: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to initialize publisher: open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(p.cfg.PublishQueueName, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to initialize publisher: declare queue %s: %w", p.cfg.PublishQueueName, err)
	}

	p.conn = conn
	p.channel = ch
	p.initialized = true

	p.logger.Info("event publisher initialized", "queue", p.cfg.PublishQueueName)
	return nil
}

// Publish serializes and sends exactly one completion event via the default
// exchange.
func (p *Publisher) Publish(ctx context.Context, event transaction.TransactionCreatedEvent) error {
	p.mu.Lock()
	ch := p.channel
	initialized := p.initialized
	p.mu.Unlock()

	if !initialized || ch == nil {
		return errors.New("publisher not initialized")
	}

	body, err := json.Marshal(transactionCreatedEnvelope{
		EventType:     transaction.EventTypeTransactionCreated,
		TransactionId: event.TransactionID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transaction created event: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", p.cfg.PublishQueueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish transaction created event: %w", err)
	}

	p.logger.Info("published transaction created event",
		"queue", p.cfg.PublishQueueName,
		"transaction_id", event.TransactionID.String(),
	)
	return nil
}

// Close releases the channel and connection. Safe to call on an
// uninitialized publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.initialized = false

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("error closing publisher channel", "error", err)
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Warn("error closing publisher connection", "error", err)
		}
		p.conn = nil
	}
	return nil
}

// PublisherFactory lazily creates and initializes a single shared publisher.
// Create is idempotent: every call returns the same initialized publisher for
// the factory's lifetime.
type PublisherFactory struct {
	cfg    *config.RabbitMQConfig
	logger *slog.Logger

	mu        sync.Mutex
	publisher transaction.EventPublisher

	// newPublisher is swappable in tests.
	newPublisher func() transaction.EventPublisher
}

var _ transaction.EventPublisherFactory = (*PublisherFactory)(nil)

func NewPublisherFactory(logger *slog.Logger, cfg *config.RabbitMQConfig) *PublisherFactory {
	f := &PublisherFactory{cfg: cfg, logger: logger}
	f.newPublisher = func() transaction.EventPublisher {
		return NewPublisher(logger, cfg)
	}
	return f
}

// Create returns the shared publisher, constructing and initializing it on
// first use.
func (f *PublisherFactory) Create(ctx context.Context) (transaction.EventPublisher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.publisher == nil {
		f.publisher = f.newPublisher()
	}
	if err := f.publisher.Initialize(ctx); err != nil {
		return nil, err
	}
	return f.publisher, nil
}

// Close disposes the shared publisher if one was created.
func (f *PublisherFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.publisher == nil {
		return nil
	}
	err := f.publisher.Close()
	f.publisher = nil
	return err
}
