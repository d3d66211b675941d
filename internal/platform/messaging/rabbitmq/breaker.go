package rabbitmq

import (
	"sync/atomic"
	"time"
)

// circuitBreaker sheds load during sustained failure: after a threshold of
// consecutive handler failures it stays open for a cooldown measured from the
// last failure. State is per consumer instance; a crash-looping node
// self-isolates without a shared coordinator.
//
// The counters are mutated only on the consumer's single processing path.
// Atomics are used solely so the health check can read them concurrently.
type circuitBreaker struct {
	threshold int32
	cooldown  time.Duration

	consecutiveFailures atomic.Int32
	lastFailureUnixNano atomic.Int64
}

func newCircuitBreaker(threshold int32, cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{threshold: threshold, cooldown: cooldown}
}

func (b *circuitBreaker) recordFailure(now time.Time) {
	b.consecutiveFailures.Add(1)
	b.lastFailureUnixNano.Store(now.UnixNano())
}

func (b *circuitBreaker) reset() {
	b.consecutiveFailures.Store(0)
}

// isOpen reports whether the breaker is shedding load. It never mutates
// state; the breaker closes implicitly once the cooldown elapses.
func (b *circuitBreaker) isOpen(now time.Time) bool {
	if b.consecutiveFailures.Load() < b.threshold {
		return false
	}
	lastFailure := time.Unix(0, b.lastFailureUnixNano.Load())
	return now.Sub(lastFailure) < b.cooldown
}
