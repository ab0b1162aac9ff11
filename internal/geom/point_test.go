package geom

import (
	"math"
	"testing"
)

func TestBearing(t *testing.T) {
	origin := Pt(0, 0)
	tests := []struct {
		name string
		to   Coordinate
		want float64
	}{
		{"north", Pt(0, 10), 0},
		{"east", Pt(10, 0), 90},
		{"south", Pt(0, -10), 180},
		{"west", Pt(-10, 0), 270},
		{"north east", Pt(5, 5), 45},
		{"coincident", Pt(0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bearing(origin, tt.to); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Bearing = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Pt(1, 1), Pt(4, 5)); math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := Distance(Pt(2, 2), Pt(2, 2)); d != 0 {
		t.Errorf("Distance of coincident points = %v", d)
	}
}

func TestProjectAndAlongTrack(t *testing.T) {
	p := Project(Pt(0, 0), 90, 100)
	if math.Abs(p.X-100) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("Project east = %v", p)
	}

	if a := AlongTrack(Pt(0, 0), p, 90); math.Abs(a-100) > 1e-9 {
		t.Errorf("AlongTrack ahead = %v", a)
	}
	if a := AlongTrack(Pt(0, 0), p, 270); math.Abs(a+100) > 1e-9 {
		t.Errorf("AlongTrack behind = %v", a)
	}

	// Bearing agrees with the heading used to project.
	for h := 0.0; h < 360; h += 30 {
		q := Project(Pt(3, -2), h, 50)
		if e := AbsError(Bearing(Pt(3, -2), q), h); e > 1e-6 {
			t.Errorf("heading %v: bearing error %v", h, e)
		}
	}
}
