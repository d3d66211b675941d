package rabbitmq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)

	t.Run("closed below threshold", func(t *testing.T) {
		b := newCircuitBreaker(5, 2*time.Minute)
		for i := 0; i < 4; i++ {
			b.recordFailure(now)
		}
		assert.False(t, b.isOpen(now))
	})

	t.Run("opens at threshold", func(t *testing.T) {
		b := newCircuitBreaker(5, 2*time.Minute)
		for i := 0; i < 5; i++ {
			b.recordFailure(now)
		}
		assert.True(t, b.isOpen(now))
	})

	t.Run("closes after cooldown elapses", func(t *testing.T) {
		b := newCircuitBreaker(5, 2*time.Minute)
		for i := 0; i < 5; i++ {
			b.recordFailure(now)
		}
		assert.True(t, b.isOpen(now.Add(2*time.Minute-time.Second)))
		assert.False(t, b.isOpen(now.Add(2*time.Minute)))
	})

	t.Run("cooldown measured from the last failure", func(t *testing.T) {
		b := newCircuitBreaker(5, 2*time.Minute)
		for i := 0; i < 5; i++ {
			b.recordFailure(now)
		}
		later := now.Add(90 * time.Second)
		b.recordFailure(later)
		assert.True(t, b.isOpen(now.Add(2*time.Minute)))
		assert.False(t, b.isOpen(later.Add(2*time.Minute)))
	})

	t.Run("reset closes immediately", func(t *testing.T) {
		b := newCircuitBreaker(5, 2*time.Minute)
		for i := 0; i < 5; i++ {
			b.recordFailure(now)
		}
		b.reset()
		assert.False(t, b.isOpen(now))
	})
}
