// Package viz renders a running world in the terminal.
//
// The live view is a Bubble Tea program drawing every circle on a
// [Canvas] of braille cells, next to an energy chart and a stats panel.
// [NewMenu] lists the registered scenes and opens the live view for the
// chosen one.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Spawn a random circle
//	R     - Rebuild the scene from its seed
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
