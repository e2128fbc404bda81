package progress

import "sync/atomic"

// Canceller is a one-way cooperative cancellation flag shared across a run.
// Once tripped it stays tripped for the remainder of the run; Reset is only
// meant for the start of a fresh run.
type Canceller struct {
	cancelled atomic.Bool
}

// NewCanceller returns a canceller in the not-cancelled state.
func NewCanceller() *Canceller {
	return &Canceller{}
}

// Cancel trips the flag. Calling it more than once is harmless.
func (c *Canceller) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (c *Canceller) Cancelled() bool {
	return c.cancelled.Load()
}

// Reset clears the flag so the canceller can serve a new run.
func (c *Canceller) Reset() {
	c.cancelled.Store(false)
}
