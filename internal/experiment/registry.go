package experiment

import (
	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
)

// DefaultMetrics are attached to every run. Containment uses twice the
// generation radius (or the view limit when larger).
func DefaultMetrics(cfg *config.Config) []dynamo.Metric {
	radius := max(2*cfg.InitState.Scale, cfg.View.ViewLim)
	if radius <= 0 {
		radius = 2 * config.DefaultScale
	}
	return []dynamo.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewContainment(radius),
	}
}
