package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// Summary is the JSON view of a run: parameters, the final state and the
// energy history.
type Summary struct {
	Integrator  string             `json:"integrator"`
	G           float64            `json:"g"`
	Softening   float64            `json:"softening"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Masses      []float64          `json:"masses"`
	Final       [][]float64        `json:"final"`
	Kinetic     []float64          `json:"kinetic"`
	Potential   []float64          `json:"potential"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

func NewSummary(integrator string, cfg dynamo.Config, masses []float64, r *dynamo.Result) Summary {
	last := r.Steps()
	final := make([][]float64, r.Bodies())
	for i := range final {
		final[i] = append([]float64(nil), r.States[last].RawRowView(i)...)
	}
	return Summary{
		Integrator:  integrator,
		G:           cfg.G,
		Softening:   cfg.Softening,
		Dt:          r.Dt,
		Duration:    cfg.Duration,
		Steps:       last,
		Masses:      masses,
		Final:       final,
		Kinetic:     r.Kinetic,
		Potential:   r.Potential,
		EnergyDrift: r.EnergyDrift,
		Metrics:     r.Metrics,
	}
}

func WriteJSON(w io.Writer, s Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}
