package sim

import (
	"context"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/logging"
)

// StepTracer logs energies every Every records at trace level.
type StepTracer struct {
	Logger *slog.Logger
	Every  int
}

func NewStepTracer(logger *slog.Logger, every int) *StepTracer {
	if every < 1 {
		every = 1
	}
	return &StepTracer{Logger: logger, Every: every}
}

func (t *StepTracer) OnStep(step int, s dynamo.State, acc *mat.Dense, ke, pe float64) {
	if step%t.Every != 0 {
		return
	}
	ctx := context.Background()
	if !t.Logger.Enabled(ctx, logging.LevelTrace) {
		return
	}
	t.Logger.Log(ctx, logging.LevelTrace, "step",
		"k", step, "ke", ke, "pe", pe, "e", ke+pe, "acc_norm", accNorm(acc))
}

// accNorm is the Frobenius norm of the acceleration matrix.
func accNorm(m *mat.Dense) float64 {
	if m == nil {
		return 0
	}
	return mat.Norm(m, 2)
}
