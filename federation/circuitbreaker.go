package federation

import (
	"sync"
	"time"
)

// circuitState is the breaker's three-state machine: closed (calls
// flow), open (calls fail fast), half-open (one probe call allowed to
// decide whether to close again).
type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// circuitBreaker guards one HttpSubgraph target against retrying a
// subgraph that is already down: after consecutiveFailureThreshold
// failures in a row it opens for openDuration, then allows exactly one
// probe request before deciding whether to close or reopen (§4.G:
// retries and circuit-breaking apply only to HttpSubgraph, since Local
// and PeerDatabase failures are not network flakiness). No ecosystem
// breaker appears anywhere in the retrieved dependency stack, so this
// is hand-rolled against stdlib sync/time rather than imported.
type circuitBreaker struct {
	mu                         sync.Mutex
	state                      circuitState
	consecutiveFailures        int
	consecutiveFailureThreshold int
	openDuration               time.Duration
	openedAt                   time.Time
}

func newCircuitBreaker(threshold int, openDuration time.Duration) *circuitBreaker {
	return &circuitBreaker{
		consecutiveFailureThreshold: threshold,
		openDuration:                openDuration,
	}
}

// Allow reports whether a call may proceed, transitioning open ->
// half-open once openDuration has elapsed. The call that makes that
// transition is the probe; while half-open, every other call is refused.
func (b *circuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case circuitOpen:
		if time.Since(b.openedAt) < b.openDuration {
			return false
		}
		b.state = circuitHalfOpen
		return true
	case circuitHalfOpen:
		return false
	default:
		return true
	}
}

// RecordSuccess closes the breaker and resets its failure count.
func (b *circuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = circuitClosed
	b.consecutiveFailures = 0
}

// RecordFailure increments the failure count and opens the breaker once
// the threshold is reached, or immediately on a failed half-open probe.
func (b *circuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == circuitHalfOpen {
		b.state = circuitOpen
		b.openedAt = time.Now()
		return
	}

	b.consecutiveFailures++
	if b.consecutiveFailures >= b.consecutiveFailureThreshold {
		b.state = circuitOpen
		b.openedAt = time.Now()
	}
}
