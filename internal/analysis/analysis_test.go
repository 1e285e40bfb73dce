package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/integrators"
)

func TestDominantPeriod(t *testing.T) {
	dt := 0.01
	data := make([]float64, 1000)
	for k := range data {
		data[k] = 3 + math.Sin(2*math.Pi*float64(k)*dt/1.0)
	}

	if p := DominantPeriod(data, dt); math.Abs(p-1.0) > 1e-9 {
		t.Errorf("period = %v, want 1", p)
	}
}

func TestDominantPeriodConstant(t *testing.T) {
	data := []float64{2, 2, 2, 2, 2, 2, 2, 2}
	if p := DominantPeriod(data, 0.1); p != 0 {
		t.Errorf("constant series period = %v, want 0", p)
	}
	if p := DominantPeriod([]float64{1}, 0.1); p != 0 {
		t.Errorf("single sample period = %v, want 0", p)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5})
	if len(ps) != 2 {
		t.Fatalf("len = %d, want 2", len(ps))
	}
	if ps[0] > 1e-12 {
		t.Errorf("dc bin = %v, want 0", ps[0])
	}
}

func TestRadialDistanceAndTotalEnergy(t *testing.T) {
	r := dynamo.NewResult(1, 2, 0.1)
	r.States[0].SetRow(0, []float64{3, 4, 0, 0, 0, 0})
	r.States[1].SetRow(0, []float64{0, 0, 2, 0, 0, 0})
	r.Kinetic[0], r.Potential[0] = 1, -3
	r.Kinetic[1], r.Potential[1] = 2, -4

	d := RadialDistance(r, 0)
	if d[0] != 5 || d[1] != 2 {
		t.Errorf("radial distance = %v, want [5 2]", d)
	}
	e := TotalEnergy(r)
	if e[0] != -2 || e[1] != -2 {
		t.Errorf("total energy = %v, want [-2 -2]", e)
	}
}

func freeBodies(t *testing.T) dynamo.State {
	t.Helper()
	s, err := dynamo.NewState(
		[]float64{1, 1},
		[]float64{-100, 0, 0, 100, 0, 0},
		[]float64{0, 1, 0, 0, -1, 0},
	)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLyapunovNearlyFreeBodies(t *testing.T) {
	cfg := dynamo.Config{G: 1e-12, Softening: 0, Dt: 0.01, Duration: 1}
	lambda, err := LyapunovExponent(context.Background(), freeBodies(t), cfg, func() integrators.Stepper {
		return integrators.NewLeapfrog()
	}, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lambda) > 1e-3 {
		t.Errorf("free bodies should not separate, lambda = %v", lambda)
	}
}

func TestLyapunovDeterministic(t *testing.T) {
	s, err := dynamo.NewState(
		[]float64{10, 10, 10},
		[]float64{-1, 0, 0, 1, 0.2, 0, 0, 1, 0.1},
		make([]float64, 9),
	)
	if err != nil {
		t.Fatal(err)
	}
	cfg := dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 1}
	newStepper := func() integrators.Stepper { return integrators.NewLeapfrog() }

	a, err := LyapunovExponent(context.Background(), s, cfg, newStepper, 1e-8)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := LyapunovExponent(context.Background(), s, cfg, newStepper, 1e-8)
	if a != b || math.IsNaN(a) || math.IsInf(a, 0) {
		t.Errorf("expected identical finite exponents, got %v and %v", a, b)
	}
	if s.Pos.At(0, 0) != -1 {
		t.Error("input state was modified")
	}
}

func TestLyapunovErrors(t *testing.T) {
	cfg := dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 1}
	newStepper := func() integrators.Stepper { return integrators.NewEuler() }

	if _, err := LyapunovExponent(context.Background(), freeBodies(t), cfg, newStepper, 0); !errors.Is(err, ErrBadPerturbation) {
		t.Errorf("expected ErrBadPerturbation, got %v", err)
	}
	if _, err := LyapunovExponent(context.Background(), freeBodies(t), dynamo.Config{G: 1, Dt: 0, Duration: 1}, newStepper, 1e-8); err == nil {
		t.Error("expected config error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LyapunovExponent(ctx, freeBodies(t), cfg, newStepper, 1e-8); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
