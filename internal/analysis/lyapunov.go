package analysis

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/physics"
)

var ErrBadPerturbation = errors.New("perturbation must be positive")

// LyapunovExponent estimates the largest Lyapunov exponent of x0 by
// integrating it alongside a copy whose first body is displaced by
// perturbation along x. After every step the phase-space separation is
// measured and the copy is pulled back to distance perturbation:
//
//	λ ≈ (1/T) Σ ln(d_k / d0)
//
// newStepper is called once per trajectory so steppers with scratch state
// are never shared.
func LyapunovExponent(
	ctx context.Context,
	x0 dynamo.State,
	cfg dynamo.Config,
	newStepper func() integrators.Stepper,
	perturbation float64,
) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := x0.Validate(); err != nil {
		return 0, err
	}
	if perturbation <= 0 || math.IsNaN(perturbation) {
		return 0, ErrBadPerturbation
	}

	forces := func(s dynamo.State) *mat.Dense {
		return physics.Accelerations(s, cfg.G, cfg.Softening)
	}

	x := physics.ToCOMFrame(x0)
	xp := x.Clone()
	xp.Pos.Set(0, 0, xp.Pos.At(0, 0)+perturbation)

	step, stepP := newStepper(), newStepper()
	acc, accP := forces(x), forces(xp)

	var dPos, dVel mat.Dense
	sumLog := 0.0
	steps := cfg.Steps()
	for k := 0; k < steps; k++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		acc = step.Step(x, acc, cfg.Dt, forces)
		accP = stepP.Step(xp, accP, cfg.Dt, forces)

		dPos.Sub(xp.Pos, x.Pos)
		dVel.Sub(xp.Vel, x.Vel)
		sep := math.Hypot(mat.Norm(&dPos, 2), mat.Norm(&dVel, 2))
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / perturbation)

		scale := perturbation / sep
		dPos.Scale(scale, &dPos)
		dVel.Scale(scale, &dVel)
		xp.Pos.Add(x.Pos, &dPos)
		xp.Vel.Add(x.Vel, &dVel)
		accP = forces(xp)
	}

	return sumLog / (float64(steps) * cfg.Dt), nil
}
