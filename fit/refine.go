package fit

import (
	"fmt"
	"math"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

const (
	// maxRefineRounds bounds the joint-fit / aperiodic-refit alternation.
	maxRefineRounds = 3
	// refineTol stops the alternation once the absolute error change
	// between rounds falls below it.
	refineTol = 1e-4

	peakHeightBound = 1e2
)

// refineModel jointly re-optimizes the aperiodic parameters and all peak
// candidates against the original log-power spectrum, then refits the
// aperiodic component on the peak-subtracted spectrum. The alternation
// repeats while the fit error keeps moving, up to maxRefineRounds.
func refineModel(sp Spectrum, ap spectral.AperiodicParams, cands []spectral.GaussianParams, s Settings) (spectral.AperiodicParams, []spectral.GaussianParams, error) {
	if len(cands) == 0 {
		// Aperiodic-only model: a single seeded refit on the full spectrum.
		p, err := fitAperiodicOn(sp.Freqs, sp.LogPower, ap, s)
		if err != nil {
			return spectral.AperiodicParams{}, nil, fmt.Errorf("%w: %v", ErrJointFit, err)
		}
		return p, nil, nil
	}

	prevErr := math.Inf(1)
	for round := 0; round < maxRefineRounds; round++ {
		jointAp, peaks, err := jointFit(sp, ap, cands, s)
		if err != nil {
			return spectral.AperiodicParams{}, nil, fmt.Errorf("%w: %v", ErrJointFit, err)
		}

		ap, err = refitSubtracted(sp, jointAp, peaks, s)
		if err != nil {
			return spectral.AperiodicParams{}, nil, fmt.Errorf("%w: %v", ErrJointFit, err)
		}
		cands = peaks

		model := make([]float64, len(sp.Freqs))
		spectral.Model(model, sp.Freqs, ap, cands)
		e := meanAbsDiff(model, sp.LogPower)

		if math.Abs(prevErr-e) <= refineTol {
			break
		}
		prevErr = e
	}

	return ap, cands, nil
}

// jointFit optimizes aperiodic and all Gaussian parameters simultaneously
// over a flat [aperiodic..., mean, height, std, ...] vector.
func jointFit(sp Spectrum, ap spectral.AperiodicParams, cands []spectral.GaussianParams, s Settings) (spectral.AperiodicParams, []spectral.GaussianParams, error) {
	mode := s.AperiodicMode
	nAp := mode.NParams()

	x0 := append(ap.Slice(), spectral.FlattenGaussians(cands)...)

	var b bounds
	if mode == spectral.ModeKnee {
		b.lo = []float64{-offsetBound, 0, s.ExponentLimits[0]}
		b.hi = []float64{offsetBound, maxKneeBound, s.ExponentLimits[1]}
	} else {
		b.lo = []float64{-offsetBound, s.ExponentLimits[0]}
		b.hi = []float64{offsetBound, s.ExponentLimits[1]}
	}

	fLo, fHi := sp.FreqRange()
	loStd, hiStd := s.stdLimits()
	for range cands {
		b.lo = append(b.lo, fLo, 1e-6, loStd)
		b.hi = append(b.hi, fHi, peakHeightBound, hiStd)
	}

	scratch := make([]float64, len(sp.Freqs))
	objective := func(x []float64) float64 {
		p := spectral.AperiodicFromSlice(mode, x[:nAp])
		gs := spectral.GroupGaussians(x[nAp:])
		spectral.Model(scratch, sp.Freqs, p, gs)
		return sumSquaredDiff(scratch, sp.LogPower)
	}

	x, err := minimizeBounded(objective, x0, b, s.MaxIterations)
	if err != nil {
		return spectral.AperiodicParams{}, nil, err
	}

	return spectral.AperiodicFromSlice(mode, x[:nAp]), spectral.GroupGaussians(x[nAp:]), nil
}

// refitSubtracted refits the aperiodic model on the spectrum with the
// optimized peaks removed.
func refitSubtracted(sp Spectrum, ap spectral.AperiodicParams, peaks []spectral.GaussianParams, s Settings) (spectral.AperiodicParams, error) {
	stripped := make([]float64, len(sp.Freqs))
	copy(stripped, sp.LogPower)
	for _, g := range peaks {
		for i, f := range sp.Freqs {
			stripped[i] -= g.Eval(f)
		}
	}

	return fitAperiodicOn(sp.Freqs, stripped, ap, s)
}
