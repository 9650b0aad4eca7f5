package fit

import (
	"math"
	"testing"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

// makeSpectrum builds a preprocessed spectrum directly from model parameters
// in log-power space.
func makeSpectrum(lo, hi, res float64, ap spectral.AperiodicParams, peaks []spectral.GaussianParams) Spectrum {
	freqs := linspace(lo, hi, res)

	logPower := make([]float64, len(freqs))
	spectral.Model(logPower, freqs, ap, peaks)

	return Spectrum{Freqs: freqs, LogPower: logPower, FreqRes: res}
}

func TestFitAperiodicFixed(t *testing.T) {
	truth := spectral.AperiodicParams{Mode: spectral.ModeFixed, Offset: 1.5, Exponent: 2}
	sp := makeSpectrum(3, 40, 0.25, truth, nil)

	got, err := fitAperiodic(sp, normalizeSettings(DefaultSettings()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(got.Exponent-truth.Exponent) > 0.05 {
		t.Fatalf("exponent: got %f, want %f +/- 0.05", got.Exponent, truth.Exponent)
	}

	if math.Abs(got.Offset-truth.Offset) > 0.05 {
		t.Fatalf("offset: got %f, want %f +/- 0.05", got.Offset, truth.Offset)
	}
}

func TestFitAperiodicKnee(t *testing.T) {
	truth := spectral.AperiodicParams{Mode: spectral.ModeKnee, Offset: 2, Knee: 25, Exponent: 2}
	sp := makeSpectrum(3, 40, 0.25, truth, nil)

	s := DefaultSettings()
	s.AperiodicMode = spectral.ModeKnee

	got, err := fitAperiodic(sp, normalizeSettings(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Mode != spectral.ModeKnee {
		t.Fatalf("mode: got %v, want knee", got.Mode)
	}

	if math.Abs(got.Exponent-truth.Exponent) > 0.3 {
		t.Fatalf("exponent: got %f, want %f +/- 0.3", got.Exponent, truth.Exponent)
	}
}

func TestFitAperiodicResistsPeakContamination(t *testing.T) {
	truth := spectral.AperiodicParams{Mode: spectral.ModeFixed, Offset: 1.5, Exponent: 2}
	peak := []spectral.GaussianParams{{Mean: 10, Height: 0.8, Std: 1.5}}
	sp := makeSpectrum(3, 40, 0.25, truth, peak)

	got, err := fitAperiodic(sp, normalizeSettings(DefaultSettings()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The robust second pass drops samples above the first-pass curve, so
	// a strong peak should not drag the exponent far off.
	if math.Abs(got.Exponent-truth.Exponent) > 0.1 {
		t.Fatalf("exponent under contamination: got %f, want %f +/- 0.1", got.Exponent, truth.Exponent)
	}
}

func TestFitAperiodicRespectsExponentBounds(t *testing.T) {
	// An upward-sloping spectrum would want a negative exponent; the
	// default lower bound keeps it at zero.
	freqs := linspace(3, 40, 0.5)
	logPower := make([]float64, len(freqs))
	for i, f := range freqs {
		logPower[i] = 0.5 * math.Log10(f)
	}
	sp := Spectrum{Freqs: freqs, LogPower: logPower, FreqRes: 0.5}

	got, err := fitAperiodic(sp, normalizeSettings(DefaultSettings()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Exponent < 0 {
		t.Fatalf("exponent below bound: %f", got.Exponent)
	}
}
