package integrators

import (
	"fmt"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Forces returns the N×3 acceleration of every body in s.
type Forces func(s dynamo.State) *mat.Dense

// Stepper advances a state by one time step in place. acc is the acceleration
// at the start of the step; the returned matrix is the acceleration at the end.
type Stepper interface {
	Name() string
	Step(s dynamo.State, acc *mat.Dense, dt float64, forces Forces) *mat.Dense
}

// New returns the stepper registered under name.
func New(name string) (Stepper, error) {
	switch name {
	case "leapfrog", "kdk", "verlet", "":
		return NewLeapfrog(), nil
	case "euler":
		return NewEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// Names lists the registered integrators.
func Names() []string {
	return []string{"leapfrog", "euler"}
}

// scratch is a reusable N×3 buffer.
type scratch struct {
	buf mat.Dense
}

func (s *scratch) ensure(r, c int) *mat.Dense {
	if rr, cc := s.buf.Dims(); rr != r || cc != c {
		s.buf.Reset()
	}
	return &s.buf
}

// addScaled sets dst = dst + f*a using tmp as the intermediate.
func addScaled(dst *mat.Dense, f float64, a *mat.Dense, tmp *scratch) {
	r, c := a.Dims()
	t := tmp.ensure(r, c)
	t.Scale(f, a)
	dst.Add(dst, t)
}
