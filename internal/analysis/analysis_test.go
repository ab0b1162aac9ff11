package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/drivetrain/internal/motion"
)

const tick = 10 * time.Millisecond

func series(prim string, errs ...float64) []motion.Sample {
	out := make([]motion.Sample, len(errs))
	for i, e := range errs {
		out[i] = motion.Sample{Primitive: prim, Tick: i, Elapsed: time.Duration(i) * tick, Error: e}
	}
	return out
}

func TestSplit(t *testing.T) {
	samples := append(series("spin_to", 90, 45, 10), series("spin_to", 30, 5)...)
	samples = append(samples, series("drive", 100, 50)...)

	segs := Split(samples)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	want := []int{3, 2, 2}
	for i, seg := range segs {
		if len(seg.Samples) != want[i] {
			t.Errorf("segment %d has %d samples, want %d", i, len(seg.Samples), want[i])
		}
	}
	if len(Split(nil)) != 0 {
		t.Error("empty input should give no segments")
	}
}

func TestAnalyzeStepResponse(t *testing.T) {
	seg := Segment{Primitive: "spin_to", Samples: series("spin_to", 90, 50, 20, 5, -9, -3, 1, 0.5, 0.2)}
	r := Analyze(seg, 2, tick)

	if r.InitialError != 90 || r.FinalError != 0.2 {
		t.Errorf("initial/final = %f/%f", r.InitialError, r.FinalError)
	}
	if math.Abs(r.Overshoot-0.1) > 1e-9 {
		t.Errorf("overshoot = %f, want 0.1", r.Overshoot)
	}
	if r.Crossings != 2 {
		t.Errorf("crossings = %d, want 2", r.Crossings)
	}
	// |5| <= 9 first at index 3
	if r.RiseTime != 30*time.Millisecond {
		t.Errorf("rise time = %v", r.RiseTime)
	}
	// |-3| > 2 last at index 5
	if r.SettlingTime != 50*time.Millisecond {
		t.Errorf("settling time = %v", r.SettlingTime)
	}
}

func TestAnalyzeNoOvershoot(t *testing.T) {
	r := Analyze(Segment{Samples: series("drive", -100, -60, -30, -10, -1)}, 5, tick)
	if r.Overshoot != 0 || r.Crossings != 0 {
		t.Errorf("monotone approach reported overshoot %f crossings %d", r.Overshoot, r.Crossings)
	}
	if empty := Analyze(Segment{}, 1, tick); empty.Ticks != 0 {
		t.Errorf("empty segment = %+v", empty)
	}
}

func TestDominantFrequency(t *testing.T) {
	// 5 Hz sampled at 100 Hz for 2 s
	data := make([]float64, 200)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*tick.Seconds())
	}
	if f := DominantFrequency(data, tick); math.Abs(f-5) > 0.5 {
		t.Errorf("dominant frequency = %f, want 5", f)
	}

	flat := []float64{1, 1, 1, 1}
	if f := DominantFrequency(flat, tick); f != 0 {
		t.Errorf("flat signal frequency = %f", f)
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("single sample should have no spectrum")
	}
}

func TestAnalyzeAll(t *testing.T) {
	samples := append(series("drive", 100, 40, 5), series("spin_to", 10, -1, 0)...)
	rs := AnalyzeAll(samples, 1, tick)
	if len(rs) != 2 || rs[0].Primitive != "drive" || rs[1].Primitive != "spin_to" {
		t.Errorf("responses = %+v", rs)
	}
}
