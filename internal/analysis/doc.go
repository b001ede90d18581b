// Package analysis extracts signals from recorded runs.
//
// States are the flattened rows stored by a run, x,y,vx,vy per body:
//
//	ys := analysis.Column(states, analysis.Index(0, analysis.Y))
//	f, ok := analysis.DominantFrequency(ys, dt)
//
// [PowerSpectrum] and [DominantFrequency] use an FFT, so a bouncing body's
// period shows up as a peak. [Bounces] counts floor contacts directly from
// the vertical velocity.
package analysis
