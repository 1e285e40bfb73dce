package viz

import (
	"github.com/guptarohit/asciigraph"
)

// EnergyPlot draws KE, PE and their sum. bound fixes the y range to
// [-bound, bound]; pass 0 to let the graph fit the data.
func EnergyPlot(ke, pe []float64, width, height int, bound float64) string {
	n := min(len(ke), len(pe))
	if n == 0 {
		return ""
	}
	total := make([]float64, n)
	for i := range total {
		total[i] = ke[i] + pe[i]
	}
	series := [][]float64{ke[:n], pe[:n], total}
	if n == 1 {
		for i, s := range series {
			series[i] = []float64{s[0], s[0]}
		}
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.DarkOrange, asciigraph.LawnGreen),
		asciigraph.Caption("KE (blue)  PE (orange)  E (green)"),
	}
	if bound > 0 {
		opts = append(opts, asciigraph.LowerBound(-bound), asciigraph.UpperBound(bound))
	}
	return asciigraph.PlotMany(series, opts...)
}
