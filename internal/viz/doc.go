// Package viz renders a running flowgrid scene in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps the scene once per frame and draws every particle
//   - [Canvas]: braille dot grid with per-cell colour
//   - [Recorder]: captures frames into an animated GIF
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single tick while paused
//	R     - Rebuild the scene
//	F     - Toggle the flow field overlay
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	Tab   - Cycle parameters, Up/Down to tune
//	?     - Show help overlay
package viz
