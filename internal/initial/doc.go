// Package initial builds validated initial conditions for an N-body run.
//
// A [Spec] is a tagged variant selecting one of the accepted input forms:
//
//   - [Count]: a body count; every property is randomized
//   - [FromTable]: N rows of width 7, 6, 4, 3 or 1; missing columns are randomized
//
// Anything else, including a zero Spec, an empty table or an unsupported width,
// falls back to a fully random state and is reported as
// [ErrInvalidInitialConditions]. [Build] never fails.
//
// All randomness for one call comes from a single generator seeded from
// [Options].Seed, so equal seeds and inputs reproduce identical states.
package initial
