package lazygrid

import "time"

// Budget is the time an idle prediction may spend.
type Budget struct {
	deadline time.Time
	clock    Clock
}

// NewBudget returns a budget that runs out at deadline. A nil clock reads
// the wall clock.
func NewBudget(deadline time.Time, clock Clock) Budget {
	if clock == nil {
		clock = SystemClock{}
	}
	return Budget{deadline: deadline, clock: clock}
}

// Deadline returns the instant the budget runs out.
func (b Budget) Deadline() time.Time {
	return b.deadline
}

// Remaining returns the time left, negative once exceeded.
func (b Budget) Remaining() time.Duration {
	if b.clock == nil {
		return time.Until(b.deadline)
	}
	return b.deadline.Sub(b.clock.Now())
}

// Exceeded reports whether the deadline has passed.
func (b Budget) Exceeded() bool {
	return b.Remaining() <= 0
}
