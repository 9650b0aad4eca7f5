package fit

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

const (
	// robustKeepQuantile selects, in the second aperiodic pass, the samples
	// at or below this quantile of the positive residual. Samples above the
	// first-pass curve (where peaks live) are dropped.
	robustKeepQuantile = 0.025

	offsetBound  = 1e3
	maxKneeBound = 1e7
)

// fitAperiodic fits the aperiodic background in two passes: a plain bounded
// least-squares fit, then a refit that ignores samples rising above the
// first-pass curve, reducing peak contamination.
func fitAperiodic(sp Spectrum, s Settings) (spectral.AperiodicParams, error) {
	first, err := fitAperiodicOn(sp.Freqs, sp.LogPower, aperiodicGuess(sp, s), s)
	if err != nil {
		return spectral.AperiodicParams{}, fmt.Errorf("%w: %v", ErrAperiodicFit, err)
	}

	keepFreqs, keepPower := nonPeakSamples(sp, first)
	if len(keepFreqs) < s.AperiodicMode.NParams()+2 {
		// Too few uncontaminated samples to refit; keep the first pass.
		return first, nil
	}

	final, err := fitAperiodicOn(keepFreqs, keepPower, first, s)
	if err != nil {
		return spectral.AperiodicParams{}, fmt.Errorf("%w: %v", ErrAperiodicFit, err)
	}

	return final, nil
}

// aperiodicGuess builds the initial parameter estimate: the offset from the
// lowest-frequency power value, the exponent from the regression slope of
// log power over log frequency.
func aperiodicGuess(sp Spectrum, s Settings) spectral.AperiodicParams {
	logFreqs := make([]float64, len(sp.Freqs))
	for i, f := range sp.Freqs {
		logFreqs[i] = math.Log10(f)
	}

	_, slope := stat.LinearRegression(logFreqs, sp.LogPower, nil, false)

	exp := -slope
	if exp < s.ExponentLimits[0] {
		exp = s.ExponentLimits[0]
	}
	if exp > s.ExponentLimits[1] {
		exp = s.ExponentLimits[1]
	}

	return spectral.AperiodicParams{
		Mode:     s.AperiodicMode,
		Offset:   sp.LogPower[0],
		Knee:     0,
		Exponent: exp,
	}
}

// fitAperiodicOn runs one bounded least-squares fit of the aperiodic model
// over the given samples, seeded at guess.
func fitAperiodicOn(freqs, logPower []float64, guess spectral.AperiodicParams, s Settings) (spectral.AperiodicParams, error) {
	mode := s.AperiodicMode
	scratch := make([]float64, len(freqs))

	objective := func(x []float64) float64 {
		p := spectral.AperiodicFromSlice(mode, x)
		p.EvalAll(scratch, freqs)
		return sumSquaredDiff(scratch, logPower)
	}

	var b bounds
	if mode == spectral.ModeKnee {
		b = bounds{
			lo: []float64{-offsetBound, 0, s.ExponentLimits[0]},
			hi: []float64{offsetBound, maxKneeBound, s.ExponentLimits[1]},
		}
	} else {
		b = bounds{
			lo: []float64{-offsetBound, s.ExponentLimits[0]},
			hi: []float64{offsetBound, s.ExponentLimits[1]},
		}
	}

	x, err := minimizeBounded(objective, guess.Slice(), b, s.MaxIterations)
	if err != nil {
		return spectral.AperiodicParams{}, err
	}

	return spectral.AperiodicFromSlice(mode, x), nil
}

// nonPeakSamples returns the samples lying at or below the fitted curve,
// within the keep quantile of the positive residual.
func nonPeakSamples(sp Spectrum, p spectral.AperiodicParams) (freqs, logPower []float64) {
	n := len(sp.Freqs)

	resid := make([]float64, n)
	p.EvalAll(resid, sp.Freqs)
	for i := range resid {
		r := sp.LogPower[i] - resid[i]
		if r < 0 {
			r = 0
		}
		resid[i] = r
	}

	sorted := make([]float64, n)
	copy(sorted, resid)
	sort.Float64s(sorted)
	thresh := stat.Quantile(robustKeepQuantile, stat.Empirical, sorted, nil)

	for i, r := range resid {
		if r <= thresh {
			freqs = append(freqs, sp.Freqs[i])
			logPower = append(logPower, sp.LogPower[i])
		}
	}

	return freqs, logPower
}

// sumSquaredDiff returns sum((a-b)^2). a is clobbered as scratch.
func sumSquaredDiff(a, b []float64) float64 {
	vecmath.ScaleBlockInPlace(a, -1)
	vecmath.AddBlockInPlace(a, b)
	return vecmath.DotProduct(a, a)
}
