// Package viz renders simulation results in the terminal.
//
// Bodies are drawn on a Braille [Canvas] through a rotatable [Camera]; the
// replay animator ([Model], [Animate]) is a Bubble Tea program that steps
// through a recorded run with per-body trails and a live energy plot.
//
// # Key Bindings
//
//	Space - Play/Pause
//	R     - Restart from the first record
//	[ ]   - Step one record back/forward
//	{ }   - Skip one second of frames
//	A     - Toggle autoscroll
//	x/y/z - Rotate (shift reverses)
//	+/-   - Zoom
//	G     - Toggle GIF recording
//	Q     - Quit
package viz
