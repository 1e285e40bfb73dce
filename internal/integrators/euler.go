package integrators

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Euler is the explicit first-order scheme. Energy drifts linearly with time;
// it exists to compare against Leapfrog.
type Euler struct {
	tmp     scratch
	prevVel mat.Dense
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(s dynamo.State, acc *mat.Dense, dt float64, forces Forces) *mat.Dense {
	e.prevVel.CloneFrom(s.Vel)

	addScaled(s.Vel, dt, acc, &e.tmp)
	addScaled(s.Pos, dt, &e.prevVel, &e.tmp)

	return forces(s)
}
