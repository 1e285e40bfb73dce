package viz

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	baseMarker = 225.0
	minMarker  = -144.0
)

// NormalizeMass maps masses to marker areas. Near-uniform masses all get
// the base area; otherwise each body's z-score z against the mean absolute
// mass adds sign(z)*(10z)², with shrinkage capped at minMarker.
func NormalizeMass(mass []float64) []float64 {
	out := make([]float64, len(mass))
	if len(mass) == 0 {
		return out
	}

	abs := make([]float64, len(mass))
	for i, m := range mass {
		abs[i] = math.Abs(m)
	}
	avg := floats.Sum(abs) / float64(len(mass))
	_, std := stat.PopMeanStdDev(mass, nil)

	if std < 1e-4 {
		for i := range out {
			out[i] = baseMarker
		}
		return out
	}

	for i, m := range mass {
		z := (m - avg) / std
		d := math.Copysign(100*z*z, z)
		if d < minMarker {
			d = minMarker
		}
		out[i] = baseMarker + d
	}
	return out
}

// MarkerRadius converts a marker area to a disc radius in canvas dots.
func MarkerRadius(area float64) int {
	if area <= 0 {
		return 0
	}
	return int(math.Round(math.Sqrt(area) / 7.5))
}

// EnergyBounds returns a symmetric plot limit covering both energy series,
// rounded up to a multiple of 20, 50 or 100 depending on magnitude.
func EnergyBounds(ke, pe []float64) float64 {
	var peak float64
	for _, v := range ke {
		peak = math.Max(peak, math.Abs(v))
	}
	for _, v := range pe {
		peak = math.Max(peak, math.Abs(v))
	}

	b := int(peak) + 1
	switch {
	case b < 10:
	case b < 100:
		b = (b + 19) / 20 * 20
	case b < 1000:
		b = (b + 49) / 50 * 50
	default:
		b = (b + 99) / 100 * 100
	}
	return float64(b)
}

// ViewBounds widens the window [-viewLim, viewLim] so that every x and y in
// pts stays visible, leaving a margin of 10% or 5 units.
func ViewBounds(pts []Vec3, viewLim float64) (lo, hi float64) {
	if len(pts) == 0 {
		return -viewLim, viewLim
	}
	maxV, minV := math.Inf(-1), math.Inf(1)
	for _, p := range pts {
		maxV = math.Max(maxV, math.Max(p.X, p.Y))
		minV = math.Min(minV, math.Min(p.X, p.Y))
	}
	hi = math.Max(viewLim, math.Max(1.1*maxV, maxV+5))
	lo = math.Min(-viewLim, math.Min(1.1*minV, minV-5))
	return lo, hi
}
