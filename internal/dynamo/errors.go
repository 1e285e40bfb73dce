package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a non-positive G, dt or duration, or a negative softening.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrEmptyState indicates a state without bodies.
	ErrEmptyState = errors.New("dynamo: state has no bodies")

	// ErrDimensionMismatch indicates mass, position and velocity disagree on the body count.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between mass, position and velocity")

	// ErrInvalidMass indicates a body with a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: masses must be positive and finite")

	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with the step at which it happened.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
