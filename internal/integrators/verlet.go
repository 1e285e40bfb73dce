package integrators

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Leapfrog is the kick-drift-kick velocity Verlet scheme:
//
//	v += a(t) dt/2
//	x += v dt
//	v += a(t+dt) dt/2
//
// It is symplectic and time-reversible, and needs one force evaluation per step.
type Leapfrog struct {
	tmp scratch
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(s dynamo.State, acc *mat.Dense, dt float64, forces Forces) *mat.Dense {
	halfDt := 0.5 * dt

	addScaled(s.Vel, halfDt, acc, &l.tmp)
	addScaled(s.Pos, dt, s.Vel, &l.tmp)

	accNew := forces(s)
	addScaled(s.Vel, halfDt, accNew, &l.tmp)

	return accNew
}
