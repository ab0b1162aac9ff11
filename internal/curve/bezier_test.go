package curve

import (
	"math"
	"testing"

	"github.com/san-kum/drivetrain/internal/geom"
)

func testCurve() *Bezier {
	return NewBezier(
		Pose{Position: geom.Pt(0, 0), Heading: 0},
		Pose{Position: geom.Pt(600, 600), Heading: 90},
		300, 300,
	)
}

func TestLUTEndpoints(t *testing.T) {
	b := testCurve()
	for _, res := range []int{1, 2, 7, 100, 1000} {
		lut := b.CreateLUT(res)
		if len(lut) != res+1 {
			t.Fatalf("resolution %d: got %d samples", res, len(lut))
		}
		if lut[0] != b.Start.Position {
			t.Errorf("resolution %d: first sample %v, want %v", res, lut[0], b.Start.Position)
		}
		if lut[res] != b.End.Position {
			t.Errorf("resolution %d: last sample %v, want %v", res, lut[res], b.End.Position)
		}
	}

	if lut := b.CreateLUT(0); lut != nil {
		t.Errorf("resolution 0 should give nil, got %v", lut)
	}
}

func TestApproximateLengthMonotone(t *testing.T) {
	b := testCurve()
	prev := 0.0
	for _, res := range []int{1, 2, 4, 8, 16, 32, 64, 128, 256} {
		l := ApproximateLength(b.CreateLUT(res))
		if l+1e-9 < prev {
			t.Errorf("length decreased at resolution %d: %f < %f", res, l, prev)
		}
		prev = l
	}

	chord := geom.Distance(b.Start.Position, b.End.Position)
	if prev <= chord {
		t.Errorf("curved length %f should exceed chord %f", prev, chord)
	}
}

func TestStraightLineLength(t *testing.T) {
	b := NewBezier(
		Pose{Position: geom.Pt(0, 0), Heading: 0},
		Pose{Position: geom.Pt(0, 900), Heading: 0},
		300, 300,
	)
	if l := ApproximateLength(b.CreateLUT(50)); math.Abs(l-900) > 1e-6 {
		t.Errorf("straight curve length = %f, want 900", l)
	}
}

func TestTangentHeadings(t *testing.T) {
	b := testCurve()
	if h := b.HeadingAt(0); geom.AbsError(h, 0) > 1e-6 {
		t.Errorf("start heading = %f, want 0", h)
	}
	if h := b.HeadingAt(1); geom.AbsError(h, 90) > 1e-6 {
		t.Errorf("end heading = %f, want 90", h)
	}

	flat := NewBezier(
		Pose{Position: geom.Pt(0, 0), Heading: 45},
		Pose{Position: geom.Pt(100, 0), Heading: 135},
		0, 0,
	)
	if h := flat.HeadingAt(0); h != 45 {
		t.Errorf("zero-bias start heading = %f, want 45", h)
	}
}

func TestProgressIndex(t *testing.T) {
	lut := testCurve().CreateLUT(100)
	length := ApproximateLength(lut)

	tests := []struct {
		travelled float64
		want      int
	}{
		{0, 1},
		{length * 0.001, 1},
		{length * 0.5, 50},
		{length * 0.505, 51},
		{length, 100},
		{length * 3, 100},
	}
	for _, tt := range tests {
		if got := lut.ProgressIndex(tt.travelled, length); got != tt.want {
			t.Errorf("ProgressIndex(%f) = %d, want %d", tt.travelled, got, tt.want)
		}
	}

	if got := lut.ProgressIndex(10, 0); got != 100 {
		t.Errorf("zero length should map to last sample, got %d", got)
	}
}
