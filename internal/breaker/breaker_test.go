package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpensAfterThreshold(t *testing.T) {
	cb := NewWithConfig(3, 1, time.Minute)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
		assert.Equal(t, Closed, cb.State())
	}
	cb.RecordFailure()
	assert.Equal(t, Open, cb.State())
	assert.False(t, cb.Allow())
}

func TestHalfOpenAfterTimeout(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cb := NewWithConfig(1, 2, 30*time.Second).WithClock(func() time.Time { return now })

	var transitions []string
	cb.OnStateChange = func(from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}

	cb.RecordFailure()
	assert.False(t, cb.Allow())

	now = now.Add(31 * time.Second)
	assert.True(t, cb.Allow())
	assert.Equal(t, HalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, HalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, Closed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}

func TestHalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(0, 0)
	cb := NewWithConfig(1, 1, time.Second).WithClock(func() time.Time { return now })

	cb.RecordFailure()
	now = now.Add(2 * time.Second)
	assert.True(t, cb.Allow())

	cb.Record(errors.New("still down"))
	assert.Equal(t, Open, cb.State())
	assert.False(t, cb.Allow())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewWithConfig(2, 1, time.Minute)

	cb.RecordFailure()
	cb.Record(nil)
	cb.RecordFailure()

	assert.Equal(t, Closed, cb.State())
}
