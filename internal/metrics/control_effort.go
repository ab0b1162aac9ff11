package metrics

import (
	"math"

	"github.com/san-kum/drivetrain/internal/motion"
)

// ControlEffort is the mean of |left| + |right| over all ticks.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) OnTick(s motion.Sample) {
	c.sum += math.Abs(s.Command.Left) + math.Abs(s.Command.Right)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// PathLength sums the distance travelled between consecutive samples.
type PathLength struct {
	total float64
	last  *motion.Sample
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) OnTick(s motion.Sample) {
	if p.last != nil {
		p.total += s.Position.Sub(p.last.Position).Norm()
	}
	cp := s
	p.last = &cp
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.total = 0
	p.last = nil
}
