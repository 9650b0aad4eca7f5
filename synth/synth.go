// Package synth generates synthetic power spectra from known aperiodic and
// peak parameters. It is the forward counterpart of the fit package, used
// for testing, examples, and regenerating model curves from stored
// parameters. It does not compute spectra from time series.
package synth

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

// FreqAxis returns a linearly spaced frequency axis from lo to hi inclusive
// with the given resolution.
func FreqAxis(lo, hi, res float64) []float64 {
	n := int(math.Floor((hi-lo)/res)) + 1
	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = lo + float64(i)*res
	}
	return freqs
}

// PowerSpectrum evaluates the model on the axis and returns linear power
// (10^model). With noiseStd > 0, Gaussian noise of that standard deviation
// is added in log10-power space, seeded deterministically.
func PowerSpectrum(freqs []float64, ap spectral.AperiodicParams, peaks []spectral.GaussianParams, noiseStd float64, seed uint64) []float64 {
	logPower := make([]float64, len(freqs))
	spectral.Model(logPower, freqs, ap, peaks)

	if noiseStd > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: noiseStd, Src: rand.NewSource(seed)}
		for i := range logPower {
			logPower[i] += noise.Rand()
		}
	}

	power := make([]float64, len(logPower))
	for i, lp := range logPower {
		power[i] = math.Pow(10, lp)
	}
	return power
}
