package fit

import (
	"fmt"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

// Result holds the parameterization of one spectrum. It is created once per
// fit and never mutated afterwards; a refit produces a new Result.
type Result struct {
	Aperiodic spectral.AperiodicParams
	Peaks     []spectral.PeakParams     // sorted by CF ascending
	Gaussians []spectral.GaussianParams // raw fit space, parallel to Peaks
	Error     float64                   // mean absolute deviation in log10-power space
	RSquared  float64
}

// Fitter parameterizes spectra with a fixed set of settings. It holds no
// per-fit state, so a single Fitter is safe for concurrent use.
type Fitter struct {
	settings Settings
}

// New returns a Fitter with normalized settings.
func New(settings Settings) *Fitter {
	return &Fitter{settings: normalizeSettings(settings)}
}

// Settings returns the normalized settings the Fitter runs with.
func (f *Fitter) Settings() Settings {
	return f.settings
}

// Fit is a one-shot fit with the given settings.
func Fit(freqs, power []float64, rng Range, settings Settings) (*Result, error) {
	return New(settings).Fit(freqs, power, rng)
}

// Fit parameterizes one spectrum. The stages run in a fixed order and the
// first failing stage aborts the fit; the returned error wraps the stage
// name around one of the package sentinels.
func (f *Fitter) Fit(freqs, power []float64, rng Range) (*Result, error) {
	sp, err := Preprocess(freqs, power, rng)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	return f.FitPrepared(sp)
}

// FitPrepared parameterizes an already-preprocessed spectrum.
func (f *Fitter) FitPrepared(sp Spectrum) (*Result, error) {
	s := f.settings

	ap, err := fitAperiodic(sp, s)
	if err != nil {
		return nil, fmt.Errorf("aperiodic: %w", err)
	}

	cands := extractPeaks(sp, ap, s)

	ap, gaussians, err := refineModel(sp, ap, cands, s)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}

	return assemble(sp, ap, gaussians), nil
}
