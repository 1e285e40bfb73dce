package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dim is the number of spatial dimensions.
const Dim = 3

// State is the physical configuration of N bodies at one instant.
// Row i of Pos and Vel and entry i of Mass describe the same body.
type State struct {
	Mass []float64
	Pos  *mat.Dense // N×3
	Vel  *mat.Dense // N×3
}

// NewState builds a State from row-major position and velocity buffers of
// length 3*len(mass). The buffers are copied.
func NewState(mass, pos, vel []float64) (State, error) {
	n := len(mass)
	if n == 0 {
		return State{}, ErrEmptyState
	}
	if len(pos) != n*Dim || len(vel) != n*Dim {
		return State{}, fmt.Errorf("%w: %d masses, %d position and %d velocity values",
			ErrDimensionMismatch, n, len(pos), len(vel))
	}
	m := make([]float64, n)
	copy(m, mass)
	p := make([]float64, len(pos))
	copy(p, pos)
	v := make([]float64, len(vel))
	copy(v, vel)
	return State{
		Mass: m,
		Pos:  mat.NewDense(n, Dim, p),
		Vel:  mat.NewDense(n, Dim, v),
	}, nil
}

// N returns the body count.
func (s State) N() int { return len(s.Mass) }

func (s State) Clone() State {
	c := State{Mass: make([]float64, len(s.Mass))}
	copy(c.Mass, s.Mass)
	if s.Pos != nil {
		c.Pos = mat.DenseCopyOf(s.Pos)
	}
	if s.Vel != nil {
		c.Vel = mat.DenseCopyOf(s.Vel)
	}
	return c
}

// Validate checks the body-count invariant and that every mass is positive.
func (s State) Validate() error {
	n := s.N()
	if n == 0 {
		return ErrEmptyState
	}
	if s.Pos == nil || s.Vel == nil {
		return fmt.Errorf("%w: missing position or velocity", ErrDimensionMismatch)
	}
	if r, c := s.Pos.Dims(); r != n || c != Dim {
		return fmt.Errorf("%w: position is %dx%d, want %dx%d", ErrDimensionMismatch, r, c, n, Dim)
	}
	if r, c := s.Vel.Dims(); r != n || c != Dim {
		return fmt.Errorf("%w: velocity is %dx%d, want %dx%d", ErrDimensionMismatch, r, c, n, Dim)
	}
	for i, m := range s.Mass {
		if !(m > 0) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: body %d has mass %g", ErrInvalidMass, i, m)
		}
	}
	return nil
}

// IsValid reports whether every position and velocity component is finite.
func (s State) IsValid() bool {
	for _, m := range []*mat.Dense{s.Pos, s.Vel} {
		if m == nil {
			continue
		}
		for _, v := range m.RawMatrix().Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// TotalMass returns the sum of all masses.
func (s State) TotalMass() float64 {
	total := 0.0
	for _, m := range s.Mass {
		total += m
	}
	return total
}

// Config holds the physical and stepping parameters of a run.
type Config struct {
	G         float64
	Softening float64
	Dt        float64
	Duration  float64
	Seed      int64
}

func DefaultConfig() Config {
	return Config{
		G:         1.0,
		Softening: 0.1,
		Dt:        0.01,
		Duration:  10.0,
		Seed:      42,
	}
}

// Validate fails with ErrInvalidConfig when a parameter would make the
// integration produce NaNs or no steps.
func (c Config) Validate() error {
	if !(c.G > 0) {
		return fmt.Errorf("%w: G must be positive, got %g", ErrInvalidConfig, c.G)
	}
	if !(c.Softening >= 0) {
		return fmt.Errorf("%w: softening must be non-negative, got %g", ErrInvalidConfig, c.Softening)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	return nil
}

// Steps returns ceil(Duration/Dt).
func (c Config) Steps() int {
	return int(math.Ceil(c.Duration / c.Dt))
}

// Metric accumulates a scalar diagnostic over the recorded steps.
type Metric interface {
	Name() string
	Observe(s State, ke, pe float64)
	Value() float64
	Reset()
}

// Observer is notified after every recorded step, including step 0.
type Observer interface {
	OnStep(step int, s State, acc *mat.Dense, ke, pe float64)
}
