// Package rabbitmq owns the broker-facing pieces of the ingestion pipeline:
// the consumer that drains the work queue, the dead-letter path, and the
// outbound completion-event publisher.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/config"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	maxConsecutiveFailures = 5
	breakerCooldown        = 2 * time.Minute
	maxRetries             = 3

	// retryCountHeader carries the per-message attempt count across
	// republishes, giving exact retry accounting where the broker's
	// Redelivered flag only distinguishes first delivery from the rest.
	retryCountHeader = "x-retry-count"
)

// State is the consumer's connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConsuming
	StateDegraded
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConsuming:
		return "consuming"
	case StateDegraded:
		return "degraded"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// EventRouter decodes an inbound payload into a typed event and dispatches it
// to the matching handler. Implemented by ingestion.Registry.
type EventRouter interface {
	// Decode returns the typed event for a wire event type. The bool reports
	// whether the event type is registered at all.
	Decode(eventType string, payload []byte) (transaction.InboundEvent, bool, error)
	Dispatch(ctx context.Context, event transaction.InboundEvent) error
}

// eventEnvelope extracts only the routing field from an inbound message.
type eventEnvelope struct {
	EventType string `json:"EventType"`
}

// deadLetterMessage is the envelope published to the dead-letter queue.
type deadLetterMessage struct {
	OriginalMessage string `json:"OriginalMessage"`
	Reason          string `json:"Reason"`
	Timestamp       string `json:"Timestamp"`
	OriginalQueue   string `json:"OriginalQueue"`
	DeliveryTag     uint64 `json:"DeliveryTag"`
}

type outcomeKind int

const (
	outcomeAck outcomeKind = iota
	outcomeRequeue
	outcomeReject
	outcomeCancelled
)

// outcome is the explicit result of processing one delivery. The settle step
// applies the acknowledgement, backoff and dead-letter policy from it; the
// processing step never touches the broker.
type outcome struct {
	kind       outcomeKind
	reason     string        // dead-letter reason, set for rejects
	backoff    time.Duration // pre-requeue delay for retryable failures
	retryCount int           // attempts observed before this one
}

// Consumer reliably drains one named work queue. It declares the queue and
// its companion dead-letter queue at startup, limits itself to one
// unacknowledged message at a time, and acknowledges a delivery only after
// the full decode/dispatch chain succeeds.
type Consumer struct {
	cfg     *config.RabbitMQConfig
	logger  *slog.Logger
	router  EventRouter
	metrics *Metrics
	breaker *circuitBreaker

	dial  DialFunc
	sleep func(ctx context.Context, d time.Duration)

	mu      sync.Mutex
	state   State
	started bool
	conn    Connection
	channel Channel

	closing   chan struct{}
	closeOnce sync.Once
}

func NewConsumer(logger *slog.Logger, cfg *config.RabbitMQConfig, router EventRouter, metrics *Metrics) *Consumer {
	return &Consumer{
		cfg:     cfg,
		logger:  logger,
		router:  router,
		metrics: metrics,
		breaker: newCircuitBreaker(maxConsecutiveFailures, breakerCooldown),
		dial:    Dial,
		sleep:   sleepContext,
		state:   StateDisconnected,
		closing: make(chan struct{}),
	}
}

// StartConsuming connects, declares the work queue and its dead-letter queue,
// applies prefetch=1 and begins draining deliveries in a background
// goroutine. Startup failure is fatal and returned to the caller, never
// retried internally; connections dropped after a successful start are
// redialed automatically.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	c.setState(StateConnecting)

	deliveries, err := c.connect(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("failed to start consuming from queue %s: %w", c.cfg.QueueName, err)
	}

	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
	c.setState(StateConsuming)

	go c.run(ctx, deliveries)

	c.logger.Info("started consuming", "queue", c.cfg.QueueName)
	return nil
}

// connect performs the startup contract against a fresh connection.
func (c *Consumer) connect(ctx context.Context) (<-chan amqp.Delivery, error) {
	conn, err := c.dial(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(c.cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", c.cfg.QueueName, err)
	}
	if _, err := ch.QueueDeclare(c.deadLetterQueue(), true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare dead-letter queue %s: %w", c.deadLetterQueue(), err)
	}

	// One unacknowledged message at a time: strict per-message backpressure
	// and in-order failure handling.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(c.cfg.QueueName, "", false, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("register consumer: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	go c.watchConnection(ctx, conn)

	return deliveries, nil
}

// watchConnection redials after an unexpected connection loss.
func (c *Consumer) watchConnection(ctx context.Context, conn Connection) {
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		return
	case <-c.closing:
		return
	case amqpErr := <-closed:
		if amqpErr == nil {
			// Deliberate close during shutdown.
			return
		}
		c.logger.Warn("broker connection lost, reconnecting",
			"queue", c.cfg.QueueName,
			"error", amqpErr,
		)
		c.reconnect(ctx)
	}
}

func (c *Consumer) reconnect(ctx context.Context) {
	for {
		c.setState(StateConnecting)
		deliveries, err := c.connect(ctx)
		if err == nil {
			c.setState(StateConsuming)
			c.logger.Info("reconnected to broker", "queue", c.cfg.QueueName)
			go c.run(ctx, deliveries)
			return
		}

		c.setState(StateDisconnected)
		c.logger.Error("reconnect attempt failed",
			"queue", c.cfg.QueueName,
			"retry_in", c.cfg.ReconnectInterval.String(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return
		case <-c.closing:
			return
		case <-time.After(c.cfg.ReconnectInterval):
		}
	}
}

func (c *Consumer) run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping delivery loop", "queue", c.cfg.QueueName)
			return
		case <-c.closing:
			return
		case d, ok := <-deliveries:
			if !ok {
				// Channel closed; the connection watcher handles redial.
				return
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery runs the per-message algorithm for one delivery. The whole
// attempt is recorded in the duration histogram regardless of outcome.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	start := time.Now()
	defer func() {
		c.metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	// Shed load while the breaker is open without paying decode cost.
	if c.breaker.isOpen(time.Now()) {
		c.setState(StateDegraded)
		c.logger.Warn("circuit breaker open, requeuing message", "delivery_tag", d.DeliveryTag)
		if err := d.Nack(false, true); err != nil {
			c.logger.Error("failed to requeue message", "delivery_tag", d.DeliveryTag, "error", err)
		}
		c.metrics.Requeued.Inc()
		return
	}
	if c.currentState() == StateDegraded {
		c.setState(StateConsuming)
	}

	c.settle(ctx, d, c.process(ctx, d))
}

// process classifies one delivery into an explicit outcome. It never touches
// the broker; settle applies the resulting policy.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) outcome {
	var env eventEnvelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		c.logger.Error("failed to deserialize message", "delivery_tag", d.DeliveryTag, "error", err)
		return outcome{kind: outcomeReject, reason: "JSON deserialization error: " + err.Error()}
	}
	if env.EventType == "" {
		c.logger.Error("message missing EventType property", "delivery_tag", d.DeliveryTag)
		return outcome{kind: outcomeReject, reason: "Message missing EventType property"}
	}

	event, known, err := c.router.Decode(env.EventType, d.Body)
	if !known {
		c.logger.Error("unknown or unsupported event type", "event_type", env.EventType)
		return outcome{kind: outcomeReject, reason: "Unknown event type: " + env.EventType}
	}
	if err != nil {
		c.logger.Error("failed to deserialize event payload", "event_type", env.EventType, "error", err)
		return outcome{kind: outcomeReject, reason: "JSON deserialization error: " + err.Error()}
	}
	if event == nil {
		c.logger.Warn("received null transaction event", "event_type", env.EventType)
		return outcome{kind: outcomeReject, reason: "Null transaction event"}
	}

	c.logger.Info("processing event",
		"event_type", event.EventType(),
		"account_id", event.AccountID().String(),
	)

	if err := c.router.Dispatch(ctx, event); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			c.logger.Warn("message processing cancelled", "event_type", event.EventType())
			return outcome{kind: outcomeCancelled}
		}

		c.breaker.recordFailure(time.Now())

		attempts := retryCount(d)
		if attempts >= maxRetries {
			c.logger.Error("max retries exceeded, sending to DLQ",
				"event_type", event.EventType(),
				"attempts", attempts,
				"error", err,
			)
			return outcome{kind: outcomeReject, reason: fmt.Sprintf("Max retries exceeded. Last error: %s", err)}
		}

		c.logger.Error("error processing message, will requeue for retry",
			"event_type", event.EventType(),
			"attempts", attempts,
			"error", err,
		)
		return outcome{
			kind:       outcomeRequeue,
			backoff:    time.Duration(1<<attempts) * time.Second,
			retryCount: attempts,
		}
	}

	c.breaker.reset()
	c.logger.Info("successfully processed event",
		"event_type", event.EventType(),
		"account_id", event.AccountID().String(),
	)
	return outcome{kind: outcomeAck}
}

// settle applies the acknowledgement discipline for a classified delivery.
func (c *Consumer) settle(ctx context.Context, d amqp.Delivery, out outcome) {
	switch out.kind {
	case outcomeAck:
		if err := d.Ack(false); err != nil {
			c.logger.Error("failed to ack message", "delivery_tag", d.DeliveryTag, "error", err)
			return
		}
		c.metrics.Processed.Inc()

	case outcomeReject:
		c.sendToDeadLetter(ctx, d, out.reason)
		if err := d.Reject(false); err != nil {
			c.logger.Error("failed to reject message", "delivery_tag", d.DeliveryTag, "error", err)
			return
		}
		c.metrics.Rejected.Inc()

	case outcomeRequeue:
		if out.backoff > 0 {
			c.sleep(ctx, out.backoff)
			if ctx.Err() != nil {
				// Shutdown during backoff; leave the delivery unacknowledged
				// so the broker requeues it.
				return
			}
		}
		if err := c.republishForRetry(ctx, d, out.retryCount+1); err != nil {
			c.logger.Error("failed to republish for retry, falling back to broker requeue",
				"delivery_tag", d.DeliveryTag,
				"error", err,
			)
			if nackErr := d.Nack(false, true); nackErr != nil {
				c.logger.Error("failed to requeue message", "delivery_tag", d.DeliveryTag, "error", nackErr)
				return
			}
		}
		c.metrics.Requeued.Inc()

	case outcomeCancelled:
		// Neither retried nor dead-lettered; the unacknowledged delivery is
		// returned to the queue when the channel closes.
	}
}

// republishForRetry puts the original body back on the work queue with an
// incremented attempt header, then acknowledges the consumed delivery. This
// keeps exact per-message retry accounting across redeliveries.
func (c *Consumer) republishForRetry(ctx context.Context, d amqp.Delivery, attempts int) error {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[retryCountHeader] = int32(attempts)

	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return errors.New("channel not open")
	}

	err := ch.PublishWithContext(ctx, "", c.cfg.QueueName, false, false, amqp.Publishing{
		ContentType: d.ContentType,
		Body:        d.Body,
		Headers:     headers,
	})
	if err != nil {
		return err
	}

	return d.Ack(false)
}

// sendToDeadLetter publishes a copy of the message to the dead-letter queue
// via the default exchange. Failures are logged and never escalate; a DLQ
// outage must not crash the consumer.
func (c *Consumer) sendToDeadLetter(ctx context.Context, d amqp.Delivery, reason string) {
	body, err := json.Marshal(deadLetterMessage{
		OriginalMessage: string(d.Body),
		Reason:          reason,
		Timestamp:       time.Now().UTC().Format(time.RFC3339Nano),
		OriginalQueue:   c.cfg.QueueName,
		DeliveryTag:     d.DeliveryTag,
	})
	if err != nil {
		c.logger.Error("failed to marshal dead-letter message", "error", err)
		return
	}

	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		c.logger.Error("cannot send message to DLQ: channel not open", "reason", reason)
		return
	}

	err = ch.PublishWithContext(ctx, "", c.deadLetterQueue(), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		c.logger.Error("failed to send message to DLQ", "reason", reason, "error", err)
		return
	}

	c.logger.Warn("message sent to DLQ", "queue", c.deadLetterQueue(), "reason", reason)
}

// CheckHealth reports whether the consumer is healthy along with the reasons
// it is not. It only reads state and is safe to poll.
func (c *Consumer) CheckHealth() (bool, []string) {
	c.mu.Lock()
	started := c.started
	conn := c.conn
	ch := c.channel
	c.mu.Unlock()

	var reasons []string
	if !started {
		reasons = append(reasons, "consumer not started")
	}
	if conn == nil || conn.IsClosed() {
		reasons = append(reasons, "connection closed")
	}
	if ch == nil || ch.IsClosed() {
		reasons = append(reasons, "channel closed")
	}
	if c.breaker.isOpen(time.Now()) {
		reasons = append(reasons, "circuit breaker open")
	}

	return len(reasons) == 0, reasons
}

// Close stops accepting deliveries and disposes the channel then the
// connection. Disposal failures are logged, not returned.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() {
		close(c.closing)
	})

	c.mu.Lock()
	ch := c.channel
	conn := c.conn
	c.channel = nil
	c.conn = nil
	c.started = false
	c.mu.Unlock()

	if ch != nil {
		if err := ch.Close(); err != nil {
			c.logger.Warn("error closing channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			c.logger.Warn("error closing connection", "error", err)
		}
	}

	c.setState(StateStopped)
	c.logger.Info("consumer stopped", "queue", c.cfg.QueueName)
}

func (c *Consumer) deadLetterQueue() string {
	return c.cfg.QueueName + ".dlq"
}

func (c *Consumer) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Consumer) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// retryCount extracts the attempt count from the retry header, falling back
// to the coarse Redelivered flag for messages requeued by the broker itself.
func retryCount(d amqp.Delivery) int {
	if v, ok := d.Headers[retryCountHeader]; ok {
		switch n := v.(type) {
		case int32:
			return int(n)
		case int64:
			return int(n)
		case int:
			return n
		}
	}
	if d.Redelivered {
		return 1
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
