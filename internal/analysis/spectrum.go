package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the FFT of the
// mean-removed series, zero-padded to the next power of two.
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}

	padded := make([]float64, nextPow2(len(series)))
	mean := Describe(series).Mean
	for i, v := range series {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin. ok is false when the series is too short or flat.
func DominantFrequency(series []float64, dt float64) (freq float64, ok bool) {
	ps := PowerSpectrum(series)
	if len(ps) < 2 || dt <= 0 {
		return 0, false
	}

	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-12 {
		return 0, false
	}

	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt), true
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
