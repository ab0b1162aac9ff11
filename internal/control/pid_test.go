package control

import (
	"math"
	"testing"
)

func TestPIDProportional(t *testing.T) {
	pid := NewPID(NewConstants(2, 0, 0, 0, 0, 0), 10)
	if u := pid.Out(10); u != 20 {
		t.Errorf("expected 20, got %f", u)
	}
	if u := pid.Out(-3); u != -6 {
		t.Errorf("expected -6, got %f", u)
	}
}

func TestPIDIntegralAccumulates(t *testing.T) {
	c := NewConstants(0, 1, 0, 1, 50, 1e9)
	pid := NewPID(c, 0)

	const e = 7.5
	for n := 1; n <= 20; n++ {
		pid.Out(e)
		if got := pid.Integral(); math.Abs(got-float64(n)*e) > 1e-9 {
			t.Fatalf("after %d ticks integral = %f, want %f", n, got, float64(n)*e)
		}
	}

	pid.Out(0.5)
	if pid.Integral() != 0 {
		t.Errorf("integral should reset inside tolerance, got %f", pid.Integral())
	}
}

func TestPIDIntegralNegativeError(t *testing.T) {
	pid := NewPID(NewConstants(0, 1, 0, 1, 50, 1e9), 0)
	pid.Out(-4)
	pid.Out(-4)
	if pid.Integral() != -8 {
		t.Errorf("expected -8, got %f", pid.Integral())
	}
	pid.Out(-0.9)
	if pid.Integral() != 0 {
		t.Errorf("expected reset for |e| <= tolerance, got %f", pid.Integral())
	}
}

func TestPIDIntegralFreeze(t *testing.T) {
	pid := NewPID(NewConstants(0, 1, 0, 1, 10, 1e9), 0)
	pid.Out(5)
	pid.Out(5)
	pid.Out(50)
	pid.Out(-50)
	if pid.Integral() != 10 {
		t.Errorf("integral should freeze above threshold, got %f", pid.Integral())
	}
}

func TestPIDMaxIntegral(t *testing.T) {
	pid := NewPID(NewConstants(0, 1, 0, 0, 100, 25), 0)
	pid.Out(10)
	pid.Out(10)
	if pid.Integral() != 20 {
		t.Fatalf("expected 20, got %f", pid.Integral())
	}
	pid.Out(10)
	if pid.Integral() != 0 {
		t.Errorf("integral above cap should be zeroed, got %f", pid.Integral())
	}
}

func TestPIDDerivativeSeeded(t *testing.T) {
	pid := NewPID(NewConstants(0, 0, 1, 0, 0, 0), 100)
	if u := pid.Out(100); u != 0 {
		t.Errorf("seeded derivative should not kick, got %f", u)
	}
	if u := pid.Out(90); u != -10 {
		t.Errorf("expected -10, got %f", u)
	}
}

func TestPIDUpdateKeepsState(t *testing.T) {
	pid := NewPID(NewConstants(1, 1, 0, 0, 100, 1e9), 0)
	pid.Out(5)
	pid.Update(NewConstants(0, 1, 0, 0, 100, 1e9))
	if u := pid.Out(5); u != 10 {
		t.Errorf("expected integral-only output 10, got %f", u)
	}
}

func TestPIDParams(t *testing.T) {
	pid := NewPID(Constants{}, 0)
	pid.SetParam("Kp", 3)
	pid.SetParam("MaxIntegral", 7)
	p := pid.GetParams()
	if p["Kp"] != 3 || p["MaxIntegral"] != 7 {
		t.Errorf("unexpected params %v", p)
	}

	pid.Out(4)
	pid.Reset()
	if pid.Integral() != 0 {
		t.Error("reset should clear integral")
	}
}

func TestSchedule(t *testing.T) {
	s := NewSchedule(4, 1000, 200)
	tests := []struct {
		err, want float64
	}{
		{1000, 4},
		{600, 2},
		{200, 0},
		{50, 0},
		{1500, 4},
	}
	for _, tt := range tests {
		if got := s.At(tt.err); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("At(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if got := NewSchedule(4, 100, 200).At(100); got != 0 {
		t.Errorf("start inside cutoff should schedule 0, got %v", got)
	}
}
