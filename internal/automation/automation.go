// Package automation runs batches of simulations: scripted scenarios loaded
// from YAML and Monte Carlo ensembles of random systems.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. The base configuration comes from Preset or
// Config (a YAML file path), else the defaults; non-zero fields override it.
type ScenarioStep struct {
	Name       string  `yaml:"name"`
	Preset     string  `yaml:"preset"`
	Config     string  `yaml:"config"`
	NumBodies  int     `yaml:"num_bodies"`
	Integrator string  `yaml:"integrator"`
	Duration   float64 `yaml:"time"`
	Dt         float64 `yaml:"dt"`
	Softening  float64 `yaml:"softening"`
	Seed       int64   `yaml:"seed"`
	Save       bool    `yaml:"save"`
}

// StepResult summarizes one finished step.
type StepResult struct {
	Name        string
	RunID       string
	Integrator  string
	Bodies      int
	EnergyDrift float64
	Metrics     map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// Resolve builds the run configuration of the step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case s.Preset != "":
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if s.NumBodies != 0 {
		cfg.InitState.NumBodies = s.NumBodies
		cfg.InitState.Bodies = nil
		cfg.InitState.File = ""
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Softening != 0 {
		cfg.Softening = s.Softening
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
// Steps marked save are written to store, which may be nil otherwise.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("scenario step", "scenario", scenario.Name, "step", name, "index", i+1, "of", len(scenario.Steps))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{
			Name:        name,
			Integrator:  exp.Integrator(),
			Bodies:      out.Result.Bodies(),
			EnergyDrift: out.Result.EnergyDrift,
			Metrics:     out.Result.Metrics,
		}

		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			meta := storage.NewRunMetadata(cfg.SimConfig(), exp.Integrator(), out.Initial.Mass)
			if res.RunID, err = store.Save(meta, out.Result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, res)
	}

	return results, nil
}

// MonteCarloConfig runs NumTrials random systems built from Base, trial k
// using seed Seed+k.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
	// Parallel bounds the number of trials in flight; values below 2 run
	// them one at a time.
	Parallel int
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID     int
	Seed        int64
	Bodies      int
	EnergyDrift float64
	// Stable is true when every body stayed inside the containment radius
	// for the whole run.
	Stable bool
}

// RunMonteCarlo executes the trials, up to cfg.Parallel at a time. Results
// are in trial order regardless of completion order. The first failing
// trial cancels the rest.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *slog.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	results := make([]MonteCarloResult, cfg.NumTrials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Parallel))
	var done atomic.Int64

	for trial := 0; trial < cfg.NumTrials; trial++ {
		trial := trial
		g.Go(func() error {
			res, err := runTrial(ctx, base, trial, cfg.Seed+int64(trial), logger)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			results[trial] = res

			if n := done.Add(1); n%10 == 0 {
				logger.Info("monte carlo progress", "done", n, "of", cfg.NumTrials)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runTrial(ctx context.Context, base *config.Config, trial int, seed int64, logger *slog.Logger) (MonteCarloResult, error) {
	trialCfg := *base
	trialCfg.Seed = seed
	trialCfg.InitState.Bodies = nil
	trialCfg.InitState.File = ""

	exp := experiment.New(&trialCfg, logger)
	if err := exp.Setup(); err != nil {
		return MonteCarloResult{}, err
	}

	out, err := exp.Run(ctx)
	if err != nil {
		return MonteCarloResult{}, err
	}

	return MonteCarloResult{
		TrialID:     trial,
		Seed:        seed,
		Bodies:      out.Result.Bodies(),
		EnergyDrift: out.Result.EnergyDrift,
		Stable:      out.Result.Metrics["containment"] == 1,
	}, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
