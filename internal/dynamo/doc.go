// Package dynamo provides the core data model for gravitational N-body runs.
//
// The package defines the values passed between the simulation stages:
//
//   - [State]: masses, positions and velocities of N bodies at one instant
//   - [Config]: physical and stepping parameters of a run
//   - [Result]: full trajectory, acceleration and energy histories
//   - [Metric], [Observer]: hooks invoked by the simulator after every step
//
// Positions, velocities and accelerations are stored as N×3 gonum matrices so
// the force kernel can work on whole-system matrix operations.
//
// # Example
//
//	st, _ := initial.Build(initial.Count(5), initial.Options{Scale: 10})
//	s := sim.New(integrators.NewLeapfrog())
//	result, _ := s.Run(ctx, st, dynamo.DefaultConfig())
//
// # Thread Safety
//
// State values are mutated in place by the simulator. Clone a State before
// sharing it between goroutines.
package dynamo
