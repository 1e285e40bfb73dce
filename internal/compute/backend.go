package compute

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
	"gonum.org/v1/gonum/mat"
)

// Backend evaluates the softened gravitational acceleration of every body.
type Backend interface {
	Name() string
	Accelerations(s dynamo.State, g, softening float64) *mat.Dense
}

// New returns the serial backend for workers <= 1 and a CPU backend with
// the given worker count otherwise.
func New(workers int) Backend {
	if workers <= 1 {
		return Serial{}
	}
	return NewCPUBackend(workers)
}

// Serial delegates to physics.Accelerations.
type Serial struct{}

func (Serial) Name() string { return "serial" }

func (Serial) Accelerations(s dynamo.State, g, softening float64) *mat.Dense {
	return physics.Accelerations(s, g, softening)
}
