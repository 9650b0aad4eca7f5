package fit

import "github.com/Brain-Modulation-Lab/fooof/spectral"

// Defaults applied by normalizeSettings for unset or invalid fields.
const (
	defaultMinPeakWidth  = 0.5 // Hz
	defaultMaxPeakWidth  = 12.0
	defaultMaxNPeaks     = 8
	defaultPeakThreshold = 2.0
	defaultMaxIterations = 3000
	defaultMaxExponent   = 10.0
)

// Settings control how a spectrum is parameterized. The zero value is not
// usable directly; start from [DefaultSettings] and override fields.
//
// Settings are immutable for the duration of a fit and safe to share across
// concurrent fits.
type Settings struct {
	// PeakWidthLimits bounds reported peak bandwidths (2*std) in Hz,
	// as [min, max].
	PeakWidthLimits [2]float64

	// MaxNPeaks caps the number of peaks. Zero disables peak extraction
	// entirely, leaving an aperiodic-only fit.
	MaxNPeaks int

	// MinPeakHeight is an absolute threshold in log10-power units a
	// residual maximum must exceed to seed a peak.
	MinPeakHeight float64

	// PeakThreshold is a relative threshold as a multiple of the residual
	// standard deviation. A candidate must clear both thresholds; the
	// stricter one wins.
	PeakThreshold float64

	// AperiodicMode selects the background model (fixed or knee).
	AperiodicMode spectral.AperiodicMode

	// ExponentLimits bounds the aperiodic exponent during optimization.
	// The default [0, 10] keeps the exponent non-negative.
	ExponentLimits [2]float64

	// MaxIterations caps optimizer iterations per least-squares call,
	// per free parameter. Hitting the cap is treated as a failed fit.
	MaxIterations int
}

// DefaultSettings returns the settings used when fields are left unset.
func DefaultSettings() Settings {
	return Settings{
		PeakWidthLimits: [2]float64{defaultMinPeakWidth, defaultMaxPeakWidth},
		MaxNPeaks:       defaultMaxNPeaks,
		MinPeakHeight:   0,
		PeakThreshold:   defaultPeakThreshold,
		AperiodicMode:   spectral.ModeFixed,
		ExponentLimits:  [2]float64{0, defaultMaxExponent},
		MaxIterations:   defaultMaxIterations,
	}
}

// normalizeSettings repairs invalid fields. An explicit MaxNPeaks of zero is
// preserved: it means "no peaks", not "use the default".
func normalizeSettings(s Settings) Settings {
	if s.PeakWidthLimits[0] <= 0 || s.PeakWidthLimits[1] <= s.PeakWidthLimits[0] {
		s.PeakWidthLimits = [2]float64{defaultMinPeakWidth, defaultMaxPeakWidth}
	}

	if s.MaxNPeaks < 0 {
		s.MaxNPeaks = defaultMaxNPeaks
	}

	if s.MinPeakHeight < 0 {
		s.MinPeakHeight = 0
	}

	if s.PeakThreshold <= 0 {
		s.PeakThreshold = defaultPeakThreshold
	}

	if s.ExponentLimits[1] <= s.ExponentLimits[0] {
		s.ExponentLimits = [2]float64{0, defaultMaxExponent}
	}

	if s.MaxIterations <= 0 {
		s.MaxIterations = defaultMaxIterations
	}

	return s
}

// stdLimits returns the Gaussian std bounds implied by the width limits
// (half the bandwidth limits).
func (s Settings) stdLimits() (lo, hi float64) {
	return s.PeakWidthLimits[0] / 2, s.PeakWidthLimits[1] / 2
}
