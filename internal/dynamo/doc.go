// Package dynamo provides the shared primitives of the particle simulation.
//
// The package defines the small vocabulary every other package builds on:
//
//   - [Vec]: a 2-D vector (an alias of gonum's r2.Vec)
//   - [Clamp], [Lerp], [Map]: scalar helpers used by the integrator and lifecycle
//   - [ParallelFor]: chunked fan-out over an index range
//   - domain errors such as [ErrParameterBounds]
//
// # Example
//
//	v := dynamo.V(3, 4)
//	n := dynamo.Norm(v) // 5
//	dynamo.ParallelFor(len(items), 256, 0, func(start, end int) { ... })
//
// # Thread Safety
//
// All functions are pure. [ParallelFor] blocks until every chunk has returned.
package dynamo
