package lookup

import (
	"errors"
	"sync"
	"time"

	"github.com/persistorai/citegraph/internal/metrics"
)

// Circuit breaker configuration.
const (
	cbFailureThreshold = 5
	// CircuitCooldown is how long an open circuit rejects lookups.
	CircuitCooldown    = 30 * time.Second
)

// Circuit breaker states.
const (
	cbClosed   = iota // Normal operation.
	cbOpen            // Fail fast.
	cbHalfOpen        // Trial with one request.
)

// ErrCircuitOpen is returned when the breaker rejects a request without
// contacting the endpoint.
var ErrCircuitOpen = errors.New("lookup circuit breaker is open")

// breaker is a three-state circuit breaker guarding the SPARQL endpoint.
type breaker struct {
	mu            sync.Mutex
	state         int
	failures      int
	lastFailureAt time.Time
	threshold     int
	cooldown      time.Duration
	now           func() time.Time
}

func newBreaker() *breaker {
	return &breaker{
		state:     cbClosed,
		threshold: cbFailureThreshold,
		cooldown:  CircuitCooldown,
		now:       time.Now,
	}
}

// allow checks whether a request may proceed. An open breaker moves to
// half-open once the cooldown has passed and admits a single trial request.
func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case cbOpen:
		if b.now().Sub(b.lastFailureAt) >= b.cooldown {
			b.state = cbHalfOpen

			return nil
		}

		return ErrCircuitOpen
	case cbHalfOpen:
		return ErrCircuitOpen
	}

	return nil
}

func (b *breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.state = cbClosed
	metrics.CircuitOpen.Set(0)
}

func (b *breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailureAt = b.now()

	if b.failures >= b.threshold || b.state == cbHalfOpen {
		b.state = cbOpen
		metrics.CircuitOpen.Set(1)
	}
}

// release returns an unused half-open trial slot, reopening the breaker
// without counting a failure so the next caller may try immediately.
func (b *breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == cbHalfOpen {
		b.state = cbOpen
	}
}

// stateName reports the breaker state for health output.
func (b *breaker) stateName() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case cbOpen:
		return "open"
	case cbHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}
