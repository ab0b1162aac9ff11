package control

import "math"

// Schedule fades a gain linearly from Initial, when the scheduling error is
// at Start, down to 0 when it reaches Cutoff. The result is clamped to
// [0, Initial].
type Schedule struct {
	Initial float64
	Start   float64
	Cutoff  float64
}

func NewSchedule(initial, start, cutoff float64) Schedule {
	return Schedule{Initial: initial, Start: start, Cutoff: cutoff}
}

// At returns the scheduled gain for the current error. A start already at
// or inside the cutoff schedules 0 throughout.
func (s Schedule) At(err float64) float64 {
	span := s.Start - s.Cutoff
	if span <= 0 {
		return 0
	}
	slope := s.Initial / span
	g := slope*(err-s.Start) + s.Initial
	return math.Max(0, math.Min(g, math.Max(s.Initial, 0)))
}
