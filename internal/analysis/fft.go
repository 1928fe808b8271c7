package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k| for the first half of the spectrum of data.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantPeriod finds the strongest non-constant component of series and
// returns its period in ticks with its spectral magnitude. Series shorter
// than four samples or without variation return 0, 0.
func DominantPeriod(series []float64) (period, power float64) {
	if len(series) < 4 {
		return 0, 0
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centred := make([]float64, len(series))
	for i, v := range series {
		centred[i] = v - mean
	}

	ps := PowerSpectrum(centred)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-9 {
		return 0, 0
	}
	return float64(len(series)) / float64(best), ps[best]
}
