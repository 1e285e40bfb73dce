package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the first len(data)/2 frequency
// bins of data with its mean removed. Bin k corresponds to frequency
// k / (len(data) * dt).
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-constant frequency
// bin of data sampled every dt, or 0 when the series carries no
// oscillation.
func DominantPeriod(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}
	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] <= 1e-12*math.Max(1, floats.Norm(data, 2)) {
		return 0
	}
	return float64(len(data)) * dt / float64(k)
}

// RadialDistance returns |p_i| for every record of r. Runs are integrated
// in the centre-of-mass frame, so this is the distance from the centre of
// mass.
func RadialDistance(r *dynamo.Result, i int) []float64 {
	out := make([]float64, len(r.States))
	for k := range r.States {
		p := r.Position(k, i)
		out[k] = floats.Norm(p[:], 2)
	}
	return out
}

// TotalEnergy returns the total energy series of r.
func TotalEnergy(r *dynamo.Result) []float64 {
	out := make([]float64, len(r.Kinetic))
	floats.AddTo(out, r.Kinetic, r.Potential)
	return out
}
