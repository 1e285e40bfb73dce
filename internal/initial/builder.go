package initial

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

const (
	// TotalMass is the system mass produced by generated mass vectors.
	TotalMass = 100.0

	DefaultScale     = 10.0
	DefaultMaxPoints = 6
)

// Options control random generation.
type Options struct {
	EqualMass bool
	InitVel   bool
	// MaxPoints is the exclusive upper bound when N is drawn at random.
	// Values below 3 are raised to 3 so that N = 2 is always possible.
	MaxPoints int
	// Seed selects the generator seed; nil seeds from the clock.
	Seed *int64
	// Scale is the ball radius for positions and the bound for random
	// velocities; zero selects DefaultScale.
	Scale  float64
	Logger *slog.Logger
}

// Report describes how a state was produced.
type Report struct {
	Kind       Kind
	N          int
	Randomized bool
	// Warning is non-nil when the input was not recognized or produced an
	// invalid State.
	Warning error
}

// Build converts spec into a State satisfying the body-count invariant.
func Build(spec Spec, opts Options) (dynamo.State, Report) {
	g := newGenerator(opts)

	switch spec.kind {
	case KindCount:
		n := spec.count
		if n < 0 {
			n = -n
		}
		if n <= 1 {
			n = g.drawCount()
		}
		st := g.randomState(n, g.masses(n))
		return st, Report{Kind: KindCount, N: n, Randomized: true}

	case KindTable:
		if st, ok := g.fromTable(spec); ok {
			return st, Report{Kind: KindTable, N: st.N()}
		}
	}

	n := g.drawCount()
	warn := fmt.Errorf("%w: %s; generated %d random bodies", ErrInvalidInitialConditions, spec, n)
	g.log.Warn("invalid initial conditions", "input", spec.String(), "fallback", "random", "n", n)
	st := g.randomState(n, g.masses(n))
	return st, Report{Kind: spec.kind, N: n, Randomized: true, Warning: warn}
}

type generator struct {
	rng       *rand.Rand
	equalMass bool
	initVel   bool
	maxPoints int
	scale     float64
	log       *slog.Logger
}

func newGenerator(opts Options) *generator {
	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	maxPoints := opts.MaxPoints
	if maxPoints == 0 {
		maxPoints = DefaultMaxPoints
	}
	if maxPoints < 3 {
		maxPoints = 3
	}
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &generator{
		rng:       rand.New(rand.NewSource(seed)),
		equalMass: opts.EqualMass,
		initVel:   opts.InitVel,
		maxPoints: maxPoints,
		scale:     scale,
		log:       logger,
	}
}

// drawCount draws N uniformly from [2, maxPoints).
func (g *generator) drawCount() int {
	return 2 + g.rng.Intn(g.maxPoints-2)
}

// masses returns n equal masses or n uniform weights, both summing to TotalMass.
func (g *generator) masses(n int) []float64 {
	m := make([]float64, n)
	if g.equalMass {
		for i := range m {
			m[i] = TotalMass / float64(n)
		}
		return m
	}
	sum := 0.0
	for i := range m {
		m[i] = g.rng.Float64()
		sum += m[i]
	}
	for i := range m {
		m[i] = TotalMass * m[i] / sum
	}
	return m
}

// ballPoints samples n points uniformly inside the unit ball: a normalized
// Gaussian direction scaled by U^(1/3).
func (g *generator) ballPoints(n int) []float64 {
	dirs := make([]float64, n*dynamo.Dim)
	for i := range dirs {
		dirs[i] = g.rng.NormFloat64()
	}
	pts := make([]float64, n*dynamo.Dim)
	for i := 0; i < n; i++ {
		u := dirs[i*dynamo.Dim : (i+1)*dynamo.Dim]
		norm := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
		r := math.Pow(g.rng.Float64(), 1.0/dynamo.Dim)
		for k := 0; k < dynamo.Dim; k++ {
			pts[i*dynamo.Dim+k] = r * u[k] / norm
		}
	}
	return pts
}

// velocities draws every component uniformly in [-bound, bound) when initial
// velocities are enabled. The draws happen either way so the generator
// stream does not depend on the flag.
func (g *generator) velocities(n int, bound float64) []float64 {
	v := make([]float64, n*dynamo.Dim)
	for i := range v {
		u := 2*g.rng.Float64() - 1
		if g.initVel {
			v[i] = bound * u
		}
	}
	return v
}

func (g *generator) randomState(n int, mass []float64) dynamo.State {
	pos := g.ballPoints(n)
	for i := range pos {
		pos[i] *= g.scale
	}
	vel := g.velocities(n, g.scale)
	st, _ := dynamo.NewState(mass, pos, vel)
	return st
}

// fromTable reports false when the table has no accepted width or yields a
// State that fails Validate, such as a non-positive mass.
func (g *generator) fromTable(spec Spec) (dynamo.State, bool) {
	w, ok := spec.width()
	if !ok {
		return dynamo.State{}, false
	}
	rows := spec.table
	n := len(rows)

	var mass, pos, vel []float64
	switch w {
	case 7:
		mass, pos, vel = column(rows, 0), block(rows, 1), block(rows, 4)
	case 6:
		mass, pos, vel = g.masses(n), block(rows, 0), block(rows, 3)
	case 4:
		mass, pos, vel = column(rows, 0), block(rows, 1), g.velocities(n, 1)
	case 3:
		mass, pos, vel = g.masses(n), block(rows, 0), g.velocities(n, 1)
	case 1:
		st := g.randomState(n, column(rows, 0))
		return st, st.Validate() == nil
	default:
		return dynamo.State{}, false
	}
	st, err := dynamo.NewState(mass, pos, vel)
	if err != nil {
		return dynamo.State{}, false
	}
	return st, st.Validate() == nil
}

func column(rows [][]float64, c int) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row[c]
	}
	return out
}

// block returns columns [c, c+3) of every row, flattened row-major.
func block(rows [][]float64, c int) []float64 {
	out := make([]float64, 0, len(rows)*dynamo.Dim)
	for _, row := range rows {
		out = append(out, row[c:c+dynamo.Dim]...)
	}
	return out
}
