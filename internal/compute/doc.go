// Package compute provides interchangeable backends for the pairwise force
// evaluation.
//
// The serial backend is the dense matrix form in package physics. The CPU
// backend splits the bodies across worker goroutines and pays off once N
// reaches a few dozen:
//
//	b := compute.New(runtime.NumCPU())
//	acc := b.Accelerations(state, g, softening)
//
// Both backends agree to rounding.
package compute
