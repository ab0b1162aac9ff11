package geom

import (
	"math"
	"testing"
)

func TestNormalizeDeg(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-720, 0},
		{359.5, 359.5},
	}

	for _, tt := range tests {
		if got := NormalizeDeg(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeDeg(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMinError(t *testing.T) {
	tests := []struct {
		name            string
		target, current float64
		want            float64
	}{
		{"ahead", 90, 0, 90},
		{"behind", 0, 90, -90},
		{"wrap forward", 10, 350, 20},
		{"wrap backward", 350, 10, -20},
		{"half turn", 180, 0, 180},
		{"half turn reversed", 0, 180, 180},
		{"same", 42, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinError(tt.target, tt.current); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MinError(%v, %v) = %v, want %v", tt.target, tt.current, got, tt.want)
			}
		})
	}
}

func TestMinErrorProperties(t *testing.T) {
	for a := 0.0; a < 360; a += 7.5 {
		for b := 0.0; b < 360; b += 11.25 {
			e := MinError(a, b)
			if e <= -180 || e > 180 {
				t.Fatalf("MinError(%v, %v) = %v out of (-180, 180]", a, b, e)
			}
			if math.Abs(math.Abs(e)-180) > 1e-9 {
				if r := MinError(b, a); math.Abs(e+r) > 1e-9 {
					t.Fatalf("MinError not antisymmetric for (%v, %v): %v vs %v", a, b, e, r)
				}
			}
			back := NormalizeDeg(a + MinError(b, a))
			if d := math.Abs(back - NormalizeDeg(b)); d > 1e-9 && math.Abs(d-360) > 1e-9 {
				t.Fatalf("a + MinError(b, a) = %v, want %v", back, b)
			}
		}
	}
}

func TestDirToSpin(t *testing.T) {
	if d := DirToSpin(90, 0); d != 1 {
		t.Errorf("expected clockwise, got %d", d)
	}
	if d := DirToSpin(270, 0); d != -1 {
		t.Errorf("expected counter-clockwise, got %d", d)
	}
	if d := DirToSpin(5, 355); d != 1 {
		t.Errorf("expected clockwise across wrap, got %d", d)
	}
	if d := DirToSpin(30, 30); d != 1 {
		t.Errorf("zero error should report +1, got %d", d)
	}
}

func TestDegRad(t *testing.T) {
	if got := RadToDeg(DegToRad(123.4)); math.Abs(got-123.4) > 1e-9 {
		t.Errorf("round trip = %v", got)
	}
	if got := NormalizeRad(-math.Pi / 2); math.Abs(got-3*math.Pi/2) > 1e-12 {
		t.Errorf("NormalizeRad(-π/2) = %v", got)
	}
}
