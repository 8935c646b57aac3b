// Package breaker guards calls to flaky upstreams.
package breaker

import (
	"sync"
	"time"
)

// State represents the state of the circuit breaker
type State int

const (
	Closed   State = iota // Normal operation
	Open                  // Failing, reject calls
	HalfOpen              // Testing if recovered
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	}
	return "unknown"
}

// CircuitBreaker implements the circuit breaker pattern
type CircuitBreaker struct {
	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	lastFailureTime time.Time
	now             func() time.Time

	// Configuration
	FailureThreshold int           // Number of failures before opening
	SuccessThreshold int           // Number of successes before closing
	Timeout          time.Duration // How long to wait before half-open
	OnStateChange    func(from, to State)
}

// New creates a circuit breaker with defaults
func New() *CircuitBreaker {
	return NewWithConfig(5, 2, 30*time.Second)
}

// NewWithConfig creates a circuit breaker with custom config
func NewWithConfig(failureThreshold, successThreshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            Closed,
		now:              time.Now,
		FailureThreshold: failureThreshold,
		SuccessThreshold: successThreshold,
		Timeout:          timeout,
	}
}

// WithClock replaces time.Now, for tests.
func (cb *CircuitBreaker) WithClock(now func() time.Time) *CircuitBreaker {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.now = now
	return cb
}

// State returns the current state
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Allow checks if a call should go through
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case Closed, HalfOpen:
		return true
	case Open:
		if cb.now().Sub(cb.lastFailureTime) > cb.Timeout {
			cb.setState(HalfOpen)
			return true
		}
	}
	return false
}

// RecordSuccess records a successful call
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HalfOpen:
		cb.successes++
		if cb.successes >= cb.SuccessThreshold {
			cb.setState(Closed)
			cb.failures = 0
			cb.successes = 0
		}
	case Closed:
		cb.failures = 0
	}
}

// RecordFailure records a failed call
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case Closed:
		if cb.failures >= cb.FailureThreshold {
			cb.setState(Open)
		}
	case HalfOpen:
		cb.setState(Open)
		cb.successes = 0
	}
}

// Record is a convenience for RecordSuccess/RecordFailure keyed on err.
func (cb *CircuitBreaker) Record(err error) {
	if err != nil {
		cb.RecordFailure()
		return
	}
	cb.RecordSuccess()
}

func (cb *CircuitBreaker) setState(newState State) {
	if cb.OnStateChange != nil && cb.state != newState {
		cb.OnStateChange(cb.state, newState)
	}
	cb.state = newState
}
