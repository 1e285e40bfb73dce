// Package experiment turns a run configuration into a finished simulation:
// it builds the initial state, selects the integrator, attaches the standard
// diagnostics and runs the engine.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/initial"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	logger    *slog.Logger
	simulator *sim.Simulator
	stepper   integrators.Stepper
	observers []dynamo.Observer
}

// Outcome is everything a run produced. Initial is the state as built,
// before the centre-of-mass shift applied by the engine.
type Outcome struct {
	Initial dynamo.State
	Report  initial.Report
	Result  *dynamo.Result
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, logger: logger}
}

// AddObserver registers o with the simulator built by Setup.
func (e *Experiment) AddObserver(o dynamo.Observer) {
	e.observers = append(e.observers, o)
}

// Setup resolves the integrator and wires metrics and observers.
func (e *Experiment) Setup() error {
	if err := e.cfg.SimConfig().Validate(); err != nil {
		return err
	}
	stepper, err := integrators.New(e.cfg.Integrator)
	if err != nil {
		return err
	}
	e.stepper = stepper
	e.simulator = sim.New(stepper)
	e.simulator.SetLogger(e.logger)
	e.simulator.SetBackend(compute.New(e.cfg.Workers))
	for _, m := range DefaultMetrics(e.cfg) {
		e.simulator.AddMetric(m)
	}
	for _, o := range e.observers {
		e.simulator.AddObserver(o)
	}
	return nil
}

// Integrator names the stepper chosen by Setup.
func (e *Experiment) Integrator() string {
	if e.stepper == nil {
		return ""
	}
	return e.stepper.Name()
}

// BuildState produces the initial state from the configured source.
func (e *Experiment) BuildState() (dynamo.State, initial.Report, error) {
	spec, err := e.cfg.InitialSpec()
	if err != nil {
		return dynamo.State{}, initial.Report{}, fmt.Errorf("initial conditions: %w", err)
	}
	opts := e.cfg.BuildOptions()
	opts.Logger = e.logger
	st, report := initial.Build(spec, opts)
	e.logger.Debug("initial state built",
		"source", spec.String(), "n", report.N, "randomized", report.Randomized)
	return st, report, nil
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	st, report, err := e.BuildState()
	if err != nil {
		return nil, err
	}

	result, err := e.simulator.Run(ctx, st, e.cfg.SimConfig())
	return &Outcome{Initial: st, Report: report, Result: result}, err
}

// GetSimulator returns the underlying simulator.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
