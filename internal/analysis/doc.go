// Package analysis summarises recorded runs.
//
// The package works on the per-tick series a run records:
//
//   - [DominantPeriod]: strongest oscillation of a series via FFT
//   - [ResetCycles]: spans of consecutive ticks with the bulk reset active
//   - [Summarize]: count, length and spacing of reset cycles
//   - [NewPortrait]: two series plotted against each other
//
// # Reset Rhythm
//
// The detach ratio rises while the flow tears particles loose and falls as
// they return, so its dominant period approximates the bulk-reset interval:
//
//	period, _ := analysis.DominantPeriod(storage.Series(ticks))
package analysis
