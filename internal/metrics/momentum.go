package metrics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
)

// MomentumDrift is the largest |P(t) - P(0)| seen. In the centre-of-mass
// frame P(0) is zero, so this is also the largest |P|.
type MomentumDrift struct {
	name     string
	initial  [dynamo.Dim]float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(x dynamo.State, ke, pe float64) {
	p := physics.Momentum(x)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	var sum float64
	for k := range p {
		d := p[k] - m.initial[k]
		sum += d * d
	}
	m.maxDrift = math.Max(m.maxDrift, math.Sqrt(sum))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = [dynamo.Dim]float64{}
	m.maxDrift = 0
	m.samples = 0
}
