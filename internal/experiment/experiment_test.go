package experiment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/initial"
	"github.com/san-kum/nbodysim/internal/logging"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.1
	cfg.InitState.NumBodies = 4
	return cfg
}

func TestExperimentRun(t *testing.T) {
	exp := New(shortConfig(), logging.Discard())
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if exp.Integrator() != "leapfrog" {
		t.Errorf("expected leapfrog, got %q", exp.Integrator())
	}

	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Initial.N() != 4 || out.Result.Bodies() != 4 {
		t.Errorf("expected 4 bodies, got %d/%d", out.Initial.N(), out.Result.Bodies())
	}
	if len(out.Result.States) != 11 {
		t.Errorf("expected 11 records, got %d", len(out.Result.States))
	}
	for _, name := range []string{"energy", "energy_drift", "momentum_drift", "containment"} {
		if _, ok := out.Result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if out.Result.Metrics["momentum_drift"] > 1e-6 {
		t.Errorf("momentum drift too large: %g", out.Result.Metrics["momentum_drift"])
	}
}

func TestExperimentDeterministic(t *testing.T) {
	run := func() *dynamo.Result {
		exp := New(shortConfig(), logging.Discard())
		if err := exp.Setup(); err != nil {
			t.Fatal(err)
		}
		out, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return out.Result
	}

	a, b := run(), run()
	for k := range a.Kinetic {
		if a.Kinetic[k] != b.Kinetic[k] || a.Potential[k] != b.Potential[k] {
			t.Fatalf("record %d differs between seeded runs", k)
		}
	}
}

func TestExperimentFallbackWarns(t *testing.T) {
	var buf bytes.Buffer
	cfg := shortConfig()
	cfg.InitState.Bodies = [][]float64{{1, 2}, {3, 4}}

	exp := New(cfg, logging.NewLogger("info", &buf))
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !errors.Is(out.Report.Warning, initial.ErrInvalidInitialConditions) {
		t.Errorf("expected invalid initial conditions warning, got %v", out.Report.Warning)
	}
	if !strings.Contains(buf.String(), "invalid initial conditions") {
		t.Errorf("expected WARN record, got %q", buf.String())
	}
	if n := out.Initial.N(); n < 2 || n >= cfg.MaxPoints() {
		t.Errorf("fallback drew %d bodies", n)
	}
}

func TestExperimentSetupErrors(t *testing.T) {
	cfg := shortConfig()
	cfg.Integrator = "rk9"
	if err := New(cfg, nil).Setup(); err == nil {
		t.Error("expected unknown integrator error")
	}

	cfg = shortConfig()
	cfg.Dt = -1
	if err := New(cfg, nil).Setup(); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	if _, err := New(shortConfig(), nil).Run(context.Background()); err == nil {
		t.Error("expected error when running before setup")
	}
}
