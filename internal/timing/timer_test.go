package timing

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestTimerElapsed(t *testing.T) {
	mock := clock.NewMock()
	tm := NewTimer(mock)

	mock.Add(250 * time.Millisecond)
	if got := tm.Elapsed(); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", got)
	}
	if got := tm.Ms(); got != 250 {
		t.Errorf("expected 250, got %f", got)
	}

	tm.Reset()
	if got := tm.Elapsed(); got != 0 {
		t.Errorf("expected 0 after reset, got %v", got)
	}
	mock.Add(time.Second)
	if got := tm.Elapsed(); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
}

func TestStepScheduler(t *testing.T) {
	mock := clock.NewMock()
	var stepped time.Duration
	s := NewStepScheduler(mock, func(d time.Duration) { stepped += d })

	start := s.Clock().Now()
	for i := 0; i < 5; i++ {
		s.Yield(DefaultTick)
	}

	if got := s.Clock().Since(start); got != 50*time.Millisecond {
		t.Errorf("clock advanced %v, want 50ms", got)
	}
	if stepped != 50*time.Millisecond {
		t.Errorf("hook saw %v, want 50ms", stepped)
	}
}

func TestWallSchedulerWithMock(t *testing.T) {
	mock := clock.NewMock()
	s := NewSchedulerWithClock(mock)

	done := make(chan struct{})
	go func() {
		s.Yield(10 * time.Millisecond)
		close(done)
	}()

	// Sleep registers a timer on the mock; keep advancing until it fires.
	for {
		select {
		case <-done:
			return
		case <-time.After(time.Millisecond):
			mock.Add(10 * time.Millisecond)
		}
	}
}
