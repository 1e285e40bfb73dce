package sim

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/logging"
	"gonum.org/v1/gonum/mat"
)

func binary(t *testing.T) dynamo.State {
	t.Helper()
	s, err := dynamo.NewState(
		[]float64{50, 50},
		[]float64{-1, 0, 0, 1, 0, 0},
		[]float64{0, 2, 0, 0, -2, 0},
	)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSimulatorRun(t *testing.T) {
	sim := New(integrators.NewLeapfrog())
	cfg := dynamo.Config{G: 1, Softening: 0.1, Dt: 0.1, Duration: 1.0}

	result, err := sim.Run(context.Background(), binary(t), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Kinetic) != 11 || len(result.Potential) != 11 {
		t.Errorf("expected 11 energies, got %d/%d", len(result.Kinetic), len(result.Potential))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps taken, got %d", result.StepsTaken)
	}
	if result.Dt != 0.1 {
		t.Errorf("result dt = %v, want 0.1", result.Dt)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(nil)

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.Config{G: 1, Dt: 0, Duration: 1.0}},
		{"negative dt", dynamo.Config{G: 1, Dt: -0.1, Duration: 1.0}},
		{"zero duration", dynamo.Config{G: 1, Dt: 0.1, Duration: 0}},
		{"negative duration", dynamo.Config{G: 1, Dt: 0.1, Duration: -1.0}},
		{"zero G", dynamo.Config{G: 0, Dt: 0.1, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), binary(t), tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	s := binary(t)
	s.Mass[0] = -1
	_, err := New(nil).Run(context.Background(), s, dynamo.DefaultConfig())
	if !errors.Is(err, dynamo.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func TestSimulatorCOMFrame(t *testing.T) {
	s := binary(t)
	for i := 0; i < 2; i++ {
		s.Vel.Set(i, 0, s.Vel.At(i, 0)+3)
	}
	x0 := s.Clone()

	result, err := New(nil).Run(context.Background(), s, dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 0.05})
	if err != nil {
		t.Fatal(err)
	}

	if !mat.Equal(s.Vel, x0.Vel) || !mat.Equal(s.Pos, x0.Pos) {
		t.Error("Run modified the caller's state")
	}
	v0 := result.Velocity(0, 0)
	v1 := result.Velocity(0, 1)
	if math.Abs(v0[0]) > 1e-12 || math.Abs(v1[0]) > 1e-12 {
		t.Errorf("bulk drift not removed: vx = %v, %v", v0[0], v1[0])
	}
	if result.Position(0, 0) != [3]float64{-1, 0, 0} {
		t.Errorf("initial position changed by COM shift: %v", result.Position(0, 0))
	}
}

func TestSimulatorHistoryIndependent(t *testing.T) {
	result, err := New(nil).Run(context.Background(), binary(t), dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if mat.Equal(result.States[0], result.States[10]) {
		t.Error("first and last records are identical; history aliases the working state")
	}
	if mat.Equal(result.Accelerations[0], result.Accelerations[10]) {
		t.Error("acceleration history aliases the working matrix")
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(nil).Run(ctx, binary(t), dynamo.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("expected partial result with 0 steps, got %+v", result)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s dynamo.State, ke, pe float64) {
	t.count++
	t.sum += ke
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ steps []int }

func (c *countingObserver) OnStep(step int, s dynamo.State, acc *mat.Dense, ke, pe float64) {
	c.steps = append(c.steps, step)
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(nil)
	metric := &testMetric{}
	obs := &countingObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	cfg := dynamo.Config{G: 1, Softening: 0.1, Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), binary(t), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
	if len(obs.steps) != 11 || obs.steps[0] != 0 || obs.steps[10] != 10 {
		t.Errorf("observer saw steps %v", obs.steps)
	}
}

func TestStepTracer(t *testing.T) {
	var buf bytes.Buffer
	sim := New(nil)
	sim.AddObserver(NewStepTracer(logging.NewLogger("trace", &buf), 5))

	cfg := dynamo.Config{G: 1, Softening: 0.1, Dt: 0.1, Duration: 1.0}
	if _, err := sim.Run(context.Background(), binary(t), cfg); err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(buf.String(), "msg=step"); got != 3 {
		t.Errorf("expected 3 traced steps (0, 5, 10), got %d:\n%s", got, buf.String())
	}

	buf.Reset()
	quiet := New(nil)
	quiet.AddObserver(NewStepTracer(logging.NewLogger("info", &buf), 1))
	if _, err := quiet.Run(context.Background(), binary(t), cfg); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("tracer should be silent above trace level, got %q", buf.String())
	}
}

func TestSimulatorParallelBackend(t *testing.T) {
	n := 20
	mass := make([]float64, n)
	pos := make([]float64, n*dynamo.Dim)
	for i := range mass {
		mass[i] = 5
		pos[i*dynamo.Dim] = float64(i)
		pos[i*dynamo.Dim+1] = float64(i%4) - 1.5
	}
	x0, err := dynamo.NewState(mass, pos, make([]float64, n*dynamo.Dim))
	if err != nil {
		t.Fatal(err)
	}
	cfg := dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 0.2}

	serial, err := New(nil).Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatal(err)
	}
	par := New(nil)
	par.SetBackend(compute.NewCPUBackend(4))
	parallel, err := par.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatal(err)
	}

	last := serial.Steps()
	if !mat.EqualApprox(serial.States[last], parallel.States[last], 1e-9) {
		t.Error("parallel backend diverged from serial")
	}
}
