// Package physics evaluates softened Newtonian gravity for a [dynamo.State].
//
// The kernels build full N×N pairwise matrices with gonum instead of looping
// over pairs:
//
//   - [Accelerations]: softened acceleration of every body
//   - [Energy]: kinetic and (unsoftened) potential energy
//   - [Momentum], [AngularMomentum]: conserved quantities for diagnostics
//   - [ToCOMFrame]: shift velocities into the centre-of-mass frame
//
// # Softening
//
// The force law adds S² to every squared separation, so the acceleration stays
// bounded as two bodies meet. The potential energy deliberately ignores S:
//
//	acc := physics.Accelerations(state, 1.0, 0.1)
//	ke, pe := physics.Energy(state, 1.0)
package physics
