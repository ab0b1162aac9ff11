package timing

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Timer measures elapsed time since it was started or last reset.
type Timer struct {
	clk   clock.Clock
	start time.Time
}

// NewTimer returns a timer already started on clk.
func NewTimer(clk clock.Clock) *Timer {
	t := &Timer{clk: clk}
	t.Start()
	return t
}

// Start (re)starts the timer from now.
func (t *Timer) Start() {
	t.start = t.clk.Now()
}

// Reset is an alias of Start; settle timers read better with it.
func (t *Timer) Reset() {
	t.Start()
}

func (t *Timer) Elapsed() time.Duration {
	return t.clk.Since(t.start)
}

// Ms reports the elapsed time in fractional milliseconds.
func (t *Timer) Ms() float64 {
	return float64(t.Elapsed()) / float64(time.Millisecond)
}
