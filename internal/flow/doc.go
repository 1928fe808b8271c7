// Package flow produces the 2-D force field that perturbs the particle grid.
//
// A [Worker] runs on its own goroutine. Each iteration it polls a [Camera]
// for a new frame, decimates it to grayscale, and hands the previous and
// current grayscale frames to an [Algorithm] that returns a dense [Field] of
// per-cell displacements. The result is published to a [Buffer] together
// with the full-resolution colour frame.
//
// The [Buffer] is the only state shared between the worker and the
// simulation tick. One mutex covers the published frame, its version and the
// two signalling flags, so a consumer always copies out a field, snapshot and
// version that belong to the same publish:
//
//	worker                          simulation tick
//	------                          ---------------
//	Ready()? ─ no ─> drop frame     Acquire(&local)  // sets consumerReady
//	Publish(field, snap)            ... update particles from local.Field ...
//	                                Handoff(local.Version)
//
// The worker advances only when the consumer has asked for a field and has
// handed off the previous one; neither side blocks on the other beyond the
// critical section.
package flow
