package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/physics"
	"gonum.org/v1/gonum/mat"
)

// Simulator drives an integrator over the gravitational force law and
// records the full history of a run.
type Simulator struct {
	integrator integrators.Stepper
	backend    compute.Backend
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     *slog.Logger
}

func New(integrator integrators.Stepper) *Simulator {
	if integrator == nil {
		integrator = integrators.NewLeapfrog()
	}
	return &Simulator{
		integrator: integrator,
		backend:    compute.Serial{},
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// SetBackend replaces the force evaluation backend.
func (s *Simulator) SetBackend(b compute.Backend) {
	if b != nil {
		s.backend = b
	}
}

// SetLogger replaces the logger used for run diagnostics.
func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Run integrates x0 for ceil(Duration/Dt) steps. Velocities are shifted into
// the centre-of-mass frame once before the first record; x0 is not modified.
// A cancelled context stops the run between steps and returns the partial
// result together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := x0.Validate(); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := physics.ToCOMFrame(x0)
	steps := cfg.Steps()
	dt := cfg.Dt
	forces := func(st dynamo.State) *mat.Dense {
		return s.backend.Accelerations(st, cfg.G, cfg.Softening)
	}

	s.logger.Debug("simulation start",
		"bodies", x.N(), "steps", steps, "dt", dt, "integrator", s.integrator.Name(), "backend", s.backend.Name())

	result := dynamo.NewResult(steps, x.N(), dt)

	acc := forces(x)
	ke, pe := physics.Energy(x, cfg.G)
	s.record(result, 0, x, acc, ke, pe)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		acc = s.integrator.Step(x, acc, dt, forces)
		ke, pe = physics.Energy(x, cfg.G)
		s.record(result, i+1, x, acc, ke, pe)
		result.StepsTaken++
	}

	s.finish(result)
	s.logger.Debug("simulation finished",
		"steps", result.StepsTaken, "energy_drift", result.EnergyDrift)
	return result, nil
}

func (s *Simulator) record(r *dynamo.Result, k int, x dynamo.State, acc *mat.Dense, ke, pe float64) {
	r.Record(k, x, acc, ke, pe)
	for _, m := range s.metrics {
		m.Observe(x, ke, pe)
	}
	for _, o := range s.observers {
		o.OnStep(k, x, acc, ke, pe)
	}
}

func (s *Simulator) finish(r *dynamo.Result) {
	last := r.StepsTaken
	if e0 := r.Energy(0); e0 != 0 {
		r.EnergyDrift = math.Abs(r.Energy(last)-e0) / math.Abs(e0)
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}
