// Package ingestion turns decoded broker events into persisted transactions:
// the event registry routes each inbound event kind to its decoder and
// handler, and the handlers orchestrate build/persist/publish.
package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
)

// Decoder deserializes a raw payload into a typed inbound event. A nil event
// with a nil error reports a JSON null payload.
type Decoder func(payload []byte) (transaction.InboundEvent, error)

// HandlerFunc processes one decoded inbound event.
type HandlerFunc func(ctx context.Context, event transaction.InboundEvent) error

// Registry maps wire event types to decode and handle pairs. Lookup is
// case-insensitive. The supported event kinds form a closed set registered at
// startup; an event that decodes but has no handler indicates a registry
// mismatch, not a data problem.
type Registry struct {
	decoders map[string]Decoder
	handlers map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]Decoder),
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds an event type to its decoder and handler.
func (r *Registry) Register(eventType string, decode Decoder, handle HandlerFunc) {
	key := strings.ToLower(eventType)
	r.decoders[key] = decode
	r.handlers[key] = handle
}

// RegisterDecoder binds only a decoder, leaving dispatch to fail for the
// event type. Used in tests to exercise registry mismatches.
func (r *Registry) RegisterDecoder(eventType string, decode Decoder) {
	r.decoders[strings.ToLower(eventType)] = decode
}

// Decode deserializes the payload for a wire event type. The bool reports
// whether the type is registered at all.
func (r *Registry) Decode(eventType string, payload []byte) (transaction.InboundEvent, bool, error) {
	decode, ok := r.decoders[strings.ToLower(eventType)]
	if !ok {
		return nil, false, nil
	}
	event, err := decode(payload)
	if err != nil {
		return nil, true, err
	}
	return event, true, nil
}

// Dispatch invokes the handler matching the event's type. A registered
// decode type with no handler is a deployment/registry mismatch and returns a
// fatal error; the consumer treats it like any handler failure.
func (r *Registry) Dispatch(ctx context.Context, event transaction.InboundEvent) error {
	handle, ok := r.handlers[strings.ToLower(event.EventType())]
	if !ok {
		return fmt.Errorf("no handler registered for event type: %s", event.EventType())
	}
	return handle(ctx, event)
}

// DecodeCreateTransactionEvent is the registered decoder for the
// CreateTransaction event kind. Field matching is case-insensitive and enum
// fields accept symbolic names or wire aliases.
func DecodeCreateTransactionEvent(payload []byte) (transaction.InboundEvent, error) {
	if isJSONNull(payload) {
		return nil, nil
	}
	var event transaction.CreateTransactionEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func isJSONNull(payload []byte) bool {
	return bytes.Equal(bytes.TrimSpace(payload), []byte("null"))
}
