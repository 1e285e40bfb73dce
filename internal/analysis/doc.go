// Package analysis characterizes finished or prospective runs.
//
//   - [DominantPeriod]: strongest oscillation period of a sampled series
//   - [RadialDistance]: distance of one body from the centre of mass
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(ctx, x0, cfg, integrators.NewLeapfrog, 1e-8)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
