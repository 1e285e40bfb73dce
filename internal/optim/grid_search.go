// Package optim searches run parameters for the setting that minimizes a
// diagnostic.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/nbodysim/internal/experiment"
)

// Param is one swept parameter and the values it takes.
type Param struct {
	Name   string
	Values []float64
}

// Trial is the outcome of one grid point. Err is set when the point could
// not be built or run; Value is then +Inf.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params ...Param) *GridSearch {
	return &GridSearch{params: params}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}

// Search runs buildExperiment at every grid point and returns the trial
// with the smallest metricName value together with every trial in
// row-major order. A cancelled context aborts the search.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Trial, []Trial, error) {
	if g.Size() == 0 {
		return Trial{}, nil, fmt.Errorf("empty grid")
	}

	trials := make([]Trial, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &trials); err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Value: math.Inf(1)}
	for _, t := range trials {
		if t.Err == nil && (best.Params == nil || t.Value < best.Value) {
			best = t
		}
	}
	if best.Params == nil {
		return best, trials, fmt.Errorf("every grid point failed: %w", trials[0].Err)
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		*trials = append(*trials, evaluate(ctx, current, buildExperiment, metricName))
		return nil
	}

	param := g.params[depth]
	for _, val := range param.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[param.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, buildExperiment, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(
	ctx context.Context,
	params map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
) Trial {
	t := Trial{Params: params, Value: math.Inf(1)}

	exp, err := buildExperiment(params)
	if err != nil {
		t.Err = err
		return t
	}
	if err := exp.Setup(); err != nil {
		t.Err = err
		return t
	}
	out, err := exp.Run(ctx)
	if err != nil {
		t.Err = err
		return t
	}

	val, ok := out.Result.Metrics[metricName]
	if !ok {
		t.Err = fmt.Errorf("unknown metric: %s", metricName)
		return t
	}
	t.Value = val
	return t
}
