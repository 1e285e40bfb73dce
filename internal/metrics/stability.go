package metrics

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Containment is the fraction of records in which every body lies within
// radius of the origin on each axis. A value below 1 means something left
// the box, typically an ejected body.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(x dynamo.State, ke, pe float64) {
	c.samples++
	for i := 0; i < x.N(); i++ {
		if !c.inside(x.Pos.RawRowView(i)) {
			c.violations++
			return
		}
	}
}

func (c *Containment) inside(row []float64) bool {
	for _, v := range row {
		if v > c.radius || v < -c.radius {
			return false
		}
	}
	return true
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
