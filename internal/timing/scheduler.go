// Package timing holds the clock abstractions control loops run on: a
// Timer for elapsed-time checks and a Scheduler whose Yield is the single
// suspension point of every loop.
package timing

import (
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultTick is the control period used when none is configured.
const DefaultTick = 10 * time.Millisecond

// Scheduler is a cooperative yield. Loops call Yield once per tick; a
// simulated scheduler advances simulated time instead of sleeping.
type Scheduler interface {
	Yield(d time.Duration)
	Clock() clock.Clock
}

// WallScheduler sleeps on a real (or injected) clock.
type WallScheduler struct {
	clk clock.Clock
}

func NewWallScheduler() *WallScheduler {
	return &WallScheduler{clk: clock.New()}
}

// NewSchedulerWithClock is mostly for tests that want a clock.Mock and
// drive it from another goroutine.
func NewSchedulerWithClock(clk clock.Clock) *WallScheduler {
	return &WallScheduler{clk: clk}
}

func (s *WallScheduler) Yield(d time.Duration) { s.clk.Sleep(d) }
func (s *WallScheduler) Clock() clock.Clock    { return s.clk }

// StepScheduler advances a mock clock by exactly the yielded duration and
// runs an optional hook first. It never blocks, which makes control loops
// deterministic under test.
type StepScheduler struct {
	mock   *clock.Mock
	before func(d time.Duration)
}

func NewStepScheduler(mock *clock.Mock, before func(d time.Duration)) *StepScheduler {
	return &StepScheduler{mock: mock, before: before}
}

func (s *StepScheduler) Yield(d time.Duration) {
	if s.before != nil {
		s.before(d)
	}
	s.mock.Add(d)
}

func (s *StepScheduler) Clock() clock.Clock { return s.mock }
