// Package metrics scores motion primitives from the samples they emit.
// Every metric is a motion.Observer, so it can be attached to a chassis
// directly or through a Set.
package metrics

import (
	"sort"

	"github.com/san-kum/drivetrain/internal/motion"
)

type Metric interface {
	motion.Observer
	Name() string
	Value() float64
	Reset()
}

// Set fans samples out to several metrics.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Standard returns the metrics reported after every run.
func Standard() *Set {
	return NewSet(
		NewControlEffort(),
		NewIntegratedError(),
		NewSaturation(0),
		NewPathLength(),
	)
}

func (s *Set) Add(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Set) OnTick(sample motion.Sample) {
	for _, m := range s.metrics {
		m.OnTick(sample)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
