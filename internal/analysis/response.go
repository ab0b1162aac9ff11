package analysis

import (
	"math"
	"time"

	"github.com/san-kum/drivetrain/internal/motion"
)

// Segment is the samples of one primitive run.
type Segment struct {
	Primitive string
	Samples   []motion.Sample
}

// Split cuts samples wherever the primitive changes or the tick counter
// restarts.
func Split(samples []motion.Sample) []Segment {
	var out []Segment
	for _, s := range samples {
		n := len(out)
		if n == 0 || out[n-1].Primitive != s.Primitive || s.Tick == 0 {
			out = append(out, Segment{Primitive: s.Primitive})
			n++
		}
		out[n-1].Samples = append(out[n-1].Samples, s)
	}
	return out
}

type Response struct {
	Primitive    string
	Ticks        int
	InitialError float64
	FinalError   float64
	// Overshoot is the largest excursion past zero as a fraction of
	// |InitialError|.
	Overshoot float64
	// Crossings counts sign changes of the error.
	Crossings int
	// RiseTime is when |error| first fell to 10% of its start.
	RiseTime time.Duration
	// SettlingTime is the last instant |error| was outside band.
	SettlingTime time.Duration
	DominantHz   float64
}

// Analyze computes a Response for seg. band is the settling band in error
// units.
func Analyze(seg Segment, band float64, tick time.Duration) Response {
	r := Response{Primitive: seg.Primitive, Ticks: len(seg.Samples)}
	if len(seg.Samples) == 0 {
		return r
	}

	e0 := seg.Samples[0].Error
	r.InitialError = e0
	r.FinalError = seg.Samples[len(seg.Samples)-1].Error
	start := seg.Samples[0].Elapsed
	rise := -1 * time.Nanosecond

	errs := make([]float64, len(seg.Samples))
	prevSign := sign(e0)
	for i, s := range seg.Samples {
		e := s.Error
		errs[i] = e
		at := s.Elapsed - start

		if sg := sign(e); sg != 0 {
			if prevSign != 0 && sg != prevSign {
				r.Crossings++
			}
			prevSign = sg
		}
		if e0 != 0 && sign(e) == -sign(e0) {
			r.Overshoot = math.Max(r.Overshoot, math.Abs(e)/math.Abs(e0))
		}
		if rise < 0 && math.Abs(e) <= 0.1*math.Abs(e0) {
			rise = at
		}
		if math.Abs(e) > band {
			r.SettlingTime = at
		}
	}
	if rise >= 0 {
		r.RiseTime = rise
	}
	r.Overshoot = round(r.Overshoot, 6)
	r.DominantHz = DominantFrequency(errs, tick)
	return r
}

// AnalyzeAll splits samples and analyses every segment.
func AnalyzeAll(samples []motion.Sample, band float64, tick time.Duration) []Response {
	segs := Split(samples)
	out := make([]Response, len(segs))
	for i, seg := range segs {
		out[i] = Analyze(seg, band, tick)
	}
	return out
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
