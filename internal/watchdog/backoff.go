package watchdog

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

var _ backoff.BackOff = (*LinearBackOff)(nil)

// LinearBackOff yields Initial, Initial+Step, Initial+2*Step, ... capped at Max.
// It never returns backoff.Stop on its own; wrap it with backoff.WithContext
// to stop on cancellation.
type LinearBackOff struct {
	Initial time.Duration
	Step    time.Duration
	Max     time.Duration

	current time.Duration
	started bool
}

func NewLinearBackOff(initial, step, limit time.Duration) *LinearBackOff {
	b := &LinearBackOff{
		Initial: initial,
		Step:    step,
		Max:     limit,
	}
	b.Reset()

	return b
}

func (b *LinearBackOff) Reset() {
	b.current = b.Initial
	b.started = false
}

func (b *LinearBackOff) NextBackOff() time.Duration {
	if b.started {
		b.current += b.Step
	}
	b.started = true

	if b.Max > 0 && b.current > b.Max {
		b.current = b.Max
	}

	return b.current
}
