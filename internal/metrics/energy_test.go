package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

func state(t *testing.T, pos, vel []float64) dynamo.State {
	t.Helper()
	mass := make([]float64, len(pos)/dynamo.Dim)
	for i := range mass {
		mass[i] = 1
	}
	s, err := dynamo.NewState(mass, pos, vel)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()
	s := state(t, []float64{0, 0, 0}, []float64{0, 0, 0})

	m.Observe(s, 1, -3)
	m.Observe(s, 2, -4)
	if got := m.Value(); math.Abs(got-(-2)) > 1e-12 {
		t.Errorf("expected mean energy -2, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	s := state(t, []float64{0, 0, 0}, []float64{0, 0, 0})

	m.Observe(s, 10, -20) // E0 = -10
	m.Observe(s, 10, -21) // 10%
	m.Observe(s, 10, -20.5)

	if got := m.Value(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected drift 0.1, got %f", got)
	}

	m.Reset()
	m.Observe(s, 5, -5)
	m.Observe(s, 6, -5)
	if m.Value() != 0 {
		t.Errorf("zero initial energy should not produce a drift, got %f", m.Value())
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	m.Observe(state(t, []float64{0, 0, 0, 1, 0, 0}, []float64{1, 0, 0, -1, 0, 0}), 0, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift on first record, got %f", m.Value())
	}

	m.Observe(state(t, []float64{0, 0, 0, 1, 0, 0}, []float64{1, 0, 0, 2, 4, 0}), 0, 0)
	if got := m.Value(); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected drift 5, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestContainment(t *testing.T) {
	c := NewContainment(10)
	if c.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", c.Value())
	}

	vel := []float64{0, 0, 0, 0, 0, 0}
	c.Observe(state(t, []float64{1, 2, 3, -9, 0, 0}, vel), 0, 0)
	c.Observe(state(t, []float64{1, 2, 3, -11, 0, 0}, vel), 0, 0)

	if got := c.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}
