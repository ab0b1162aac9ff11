package motion

import (
	"fmt"
	"io"
	"time"

	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/geom"
)

// Sample is what a primitive reports each tick.
type Sample struct {
	Primitive string
	Tick      int
	Elapsed   time.Duration
	Error     float64
	Command   drivetrain.Wheels
	Heading   float64
	Rotation  float64
	Position  geom.Coordinate
}

// Observer receives every tick's sample. Observers run on the control
// loop's goroutine and must not block.
type Observer interface {
	OnTick(s Sample)
}

type ObserverFunc func(s Sample)

func (f ObserverFunc) OnTick(s Sample) { f(s) }

// ResultObserver is an Observer that also wants each primitive's Result.
type ResultObserver interface {
	Observer
	OnResult(r Result)
}

// emit fans a sample out. A panicking observer is dropped for the sample
// and never takes the loop down.
func (c *Chassis) emit(s Sample) {
	for _, o := range c.observers {
		func() {
			defer func() { _ = recover() }()
			o.OnTick(s)
		}()
	}
}

func (c *Chassis) report(r Result) {
	for _, o := range c.observers {
		ro, ok := o.(ResultObserver)
		if !ok {
			continue
		}
		func() {
			defer func() { _ = recover() }()
			ro.OnResult(r)
		}()
	}
}

// Printer writes one status line per tick. Write errors are ignored.
type Printer struct {
	w     io.Writer
	every int
}

// NewPrinter prints every n-th tick (n < 1 prints all).
func NewPrinter(w io.Writer, every int) *Printer {
	if every < 1 {
		every = 1
	}
	return &Printer{w: w, every: every}
}

func (p *Printer) OnTick(s Sample) {
	if s.Tick%p.every != 0 {
		return
	}
	_, _ = fmt.Fprintf(p.w, "%-16s t=%6dms err=%9.3f L=%7.2f R=%7.2f hdg=%7.2f\n",
		s.Primitive, s.Elapsed.Milliseconds(), s.Error, s.Command.Left, s.Command.Right, s.Heading)
}

// Recorder keeps every sample and result in memory.
type Recorder struct {
	Samples []Sample
	Results []Result
}

func (r *Recorder) OnTick(s Sample)     { r.Samples = append(r.Samples, s) }
func (r *Recorder) OnResult(res Result) { r.Results = append(r.Results, res) }

func (r *Recorder) Reset() {
	r.Samples = r.Samples[:0]
	r.Results = r.Results[:0]
}
