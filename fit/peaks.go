package fit

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

// fwhmToStd converts a full width at half maximum to a Gaussian std.
var fwhmToStd = 1 / (2 * math.Sqrt(2*math.Ln2))

// extractPeaks iteratively discovers Gaussian peak candidates on the
// flattened spectrum (log power minus the aperiodic fit).
//
// Each round takes the largest unmasked residual value; if it clears both
// thresholds, a Gaussian is fitted around it on a local window and
// subtracted from the residual. Candidates whose fitted bandwidth falls
// outside the width limits are discarded and their region masked from
// future searches without consuming peak budget. The returned candidates
// are initial guesses for the joint refinement, never reported directly.
func extractPeaks(sp Spectrum, ap spectral.AperiodicParams, s Settings) []spectral.GaussianParams {
	n := len(sp.Freqs)

	resid := make([]float64, n)
	ap.EvalAll(resid, sp.Freqs)
	for i := range resid {
		resid[i] = sp.LogPower[i] - resid[i]
	}

	masked := make([]bool, n)
	var found []spectral.GaussianParams

	// Masking guarantees progress on rejected candidates, so the loop is
	// bounded by the peak budget plus the bin count.
	for iter := 0; iter < s.MaxNPeaks+n && len(found) < s.MaxNPeaks; iter++ {
		noise := stat.StdDev(resid, nil)

		idx, maxVal := argmaxUnmasked(resid, masked)
		if idx < 0 {
			break
		}

		thresh := s.PeakThreshold * noise
		if s.MinPeakHeight > thresh {
			thresh = s.MinPeakHeight
		}
		if maxVal <= thresh || maxVal <= 0 {
			break
		}

		guess := candidateGuess(sp, resid, idx, s)

		g, err := fitCandidate(sp, resid, guess, s)
		if err != nil {
			maskRegion(masked, sp, idx, guess.Std)
			continue
		}

		if bw := 2 * g.Std; bw < s.PeakWidthLimits[0] || bw > s.PeakWidthLimits[1] {
			maskRegion(masked, sp, idx, guess.Std)
			continue
		}

		for i, f := range sp.Freqs {
			resid[i] -= g.Eval(f)
		}
		found = append(found, g)
	}

	return found
}

// candidateGuess estimates a Gaussian analytically around the residual
// maximum at idx. The std comes from the half-height crossing on the
// shorter flank; if neither flank crosses, the midpoint of the allowed std
// range is used.
func candidateGuess(sp Spectrum, resid []float64, idx int, s Settings) spectral.GaussianParams {
	height := resid[idx]
	half := height / 2

	left, right := -1, -1
	for i := idx - 1; i >= 0; i-- {
		if resid[i] <= half {
			left = idx - i
			break
		}
	}
	for i := idx + 1; i < len(resid); i++ {
		if resid[i] <= half {
			right = i - idx
			break
		}
	}

	short := left
	if short < 0 || (right > 0 && right < short) {
		short = right
	}

	loStd, hiStd := s.stdLimits()
	std := (loStd + hiStd) / 2
	if short > 0 {
		fwhm := 2 * float64(short) * sp.FreqRes
		std = fwhm * fwhmToStd
	}

	return spectral.GaussianParams{
		Mean:   sp.Freqs[idx],
		Height: height,
		Std:    std,
	}
}

// fitCandidate refines a candidate guess with a bounded least-squares fit of
// a single Gaussian against the residual, on a fixed-width window around the
// guess center. The std bounds deliberately extend past the width limits so
// genuinely too-narrow or too-wide candidates can surface and be rejected.
func fitCandidate(sp Spectrum, resid []float64, guess spectral.GaussianParams, s Settings) (spectral.GaussianParams, error) {
	windowHalf := s.PeakWidthLimits[1]

	lo, hi := windowIndices(sp.Freqs, guess.Mean, windowHalf)
	freqs := sp.Freqs[lo:hi]
	target := resid[lo:hi]

	scratch := make([]float64, len(freqs))
	objective := func(x []float64) float64 {
		g := spectral.GaussianParams{Mean: x[0], Height: x[1], Std: x[2]}
		for i, f := range freqs {
			scratch[i] = g.Eval(f)
		}
		return sumSquaredDiff(scratch, target)
	}

	_, hiStd := s.stdLimits()
	b := bounds{
		lo: []float64{freqs[0], 1e-6, sp.FreqRes / 4},
		hi: []float64{freqs[len(freqs)-1], 3 * guess.Height, 2 * hiStd},
	}

	x, err := minimizeBounded(objective, []float64{guess.Mean, guess.Height, guess.Std}, b, s.MaxIterations)
	if err != nil {
		return spectral.GaussianParams{}, err
	}

	return spectral.GaussianParams{Mean: x[0], Height: x[1], Std: x[2]}, nil
}

// windowIndices returns the half-open index range of frequencies within
// center +/- halfWidth, widened to at least two bins per side where the axis
// allows.
func windowIndices(freqs []float64, center, halfWidth float64) (lo, hi int) {
	n := len(freqs)
	lo, hi = 0, n
	for lo < n && freqs[lo] < center-halfWidth {
		lo++
	}
	for hi > lo && freqs[hi-1] > center+halfWidth {
		hi--
	}

	ci := nearestIndex(freqs, center)
	if lo > ci-2 {
		lo = max(ci-2, 0)
	}
	if hi < ci+3 {
		hi = min(ci+3, n)
	}

	return lo, hi
}

// maskRegion masks bins within two estimated stds of the frequency at idx,
// always including idx itself, so a rejected candidate cannot be reselected.
func maskRegion(masked []bool, sp Spectrum, idx int, std float64) {
	halfWidth := 2 * std
	center := sp.Freqs[idx]

	masked[idx] = true
	for i, f := range sp.Freqs {
		if math.Abs(f-center) <= halfWidth {
			masked[i] = true
		}
	}
}

func argmaxUnmasked(resid []float64, masked []bool) (int, float64) {
	idx, best := -1, math.Inf(-1)
	for i, v := range resid {
		if masked[i] {
			continue
		}
		if v > best {
			best = v
			idx = i
		}
	}
	return idx, best
}

func nearestIndex(freqs []float64, f float64) int {
	idx, best := 0, math.Inf(1)
	for i, v := range freqs {
		if d := math.Abs(v - f); d < best {
			best = d
			idx = i
		}
	}
	return idx
}
