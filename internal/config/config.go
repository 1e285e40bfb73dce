package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/initial"
)

const (
	DefaultG          = 1.0
	DefaultSoftening  = 0.1
	DefaultDt         = 0.01
	DefaultDuration   = 10.0
	DefaultSeed       = 42
	DefaultScale      = 10.0
	DefaultIntegrator = "leapfrog"
	DefaultFPS        = 30
	DefaultViewLim    = 20.0
)

type Config struct {
	G          float64         `yaml:"g"`
	Softening  float64         `yaml:"softening"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"time"`
	Seed       int64           `yaml:"seed"`
	Integrator string          `yaml:"integrator"`
	// Workers > 1 spreads the force evaluation over that many goroutines.
	Workers    int             `yaml:"workers,omitempty"`
	InitState  InitStateConfig `yaml:"init_state"`
	View       ViewConfig      `yaml:"view"`
}

type InitStateConfig struct {
	NumBodies int     `yaml:"num_bodies"`
	EqualMass bool    `yaml:"equal_mass"`
	InitVel   bool    `yaml:"init_vel"`
	Scale     float64 `yaml:"scale"`
	// File names a CSV table of initial conditions.
	File string `yaml:"file,omitempty"`
	// Bodies is an inline table; each row has 7, 6, 4, 3 or 1 columns.
	Bodies [][]float64 `yaml:"bodies,omitempty"`
}

type ViewConfig struct {
	FPS        int     `yaml:"fps"`
	ViewLim    float64 `yaml:"view_lim"`
	Autoscroll bool    `yaml:"autoscroll"`
}

func DefaultConfig() *Config {
	return &Config{
		G:          DefaultG,
		Softening:  DefaultSoftening,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       DefaultSeed,
		Integrator: DefaultIntegrator,
		InitState: InitStateConfig{
			Scale: DefaultScale,
		},
		View: ViewConfig{
			FPS:     DefaultFPS,
			ViewLim: DefaultViewLim,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig returns the physical parameters of the run.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		G:         c.G,
		Softening: c.Softening,
		Dt:        c.Dt,
		Duration:  c.Duration,
		Seed:      c.Seed,
	}
}

// InitialSpec picks the initial-condition source: inline bodies first, then
// the table file, then the body count.
func (c *Config) InitialSpec() (initial.Spec, error) {
	switch {
	case len(c.InitState.Bodies) > 0:
		return initial.FromTable(c.InitState.Bodies), nil
	case c.InitState.File != "":
		rows, err := initial.LoadTable(c.InitState.File)
		if err != nil {
			return initial.Spec{}, err
		}
		return initial.FromTable(rows), nil
	default:
		return initial.Count(c.InitState.NumBodies), nil
	}
}

// MaxPoints is the exclusive upper bound used when the body count is drawn.
func (c *Config) MaxPoints() int {
	return max(c.InitState.NumBodies+1, initial.DefaultMaxPoints)
}

// BuildOptions maps the initial-state section onto generator options.
func (c *Config) BuildOptions() initial.Options {
	seed := c.Seed
	return initial.Options{
		EqualMass: c.InitState.EqualMass,
		InitVel:   c.InitState.InitVel,
		MaxPoints: c.MaxPoints(),
		Seed:      &seed,
		Scale:     c.InitState.Scale,
	}
}
