package synth

import (
	"math"
	"testing"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

func TestFreqAxis(t *testing.T) {
	freqs := FreqAxis(3, 40, 0.5)

	if freqs[0] != 3 {
		t.Fatalf("first: got %f, want 3", freqs[0])
	}

	if last := freqs[len(freqs)-1]; last != 40 {
		t.Fatalf("last: got %f, want 40", last)
	}

	if len(freqs) != 75 {
		t.Fatalf("len: got %d, want 75", len(freqs))
	}
}

func TestPowerSpectrumNoiseless(t *testing.T) {
	freqs := FreqAxis(3, 40, 0.5)
	ap := spectral.AperiodicParams{Mode: spectral.ModeFixed, Offset: 1, Exponent: 1}

	power := PowerSpectrum(freqs, ap, nil, 0, 0)

	for i, f := range freqs {
		want := math.Pow(10, ap.Eval(f))
		if math.Abs(power[i]-want) > 1e-9*want {
			t.Fatalf("power at %f: got %g, want %g", f, power[i], want)
		}
	}
}

func TestPowerSpectrumNoiseDeterministic(t *testing.T) {
	freqs := FreqAxis(3, 40, 0.5)
	ap := spectral.AperiodicParams{Mode: spectral.ModeFixed, Offset: 1, Exponent: 1}

	a := PowerSpectrum(freqs, ap, nil, 0.05, 7)
	b := PowerSpectrum(freqs, ap, nil, 0.05, 7)
	clean := PowerSpectrum(freqs, ap, nil, 0, 0)

	different := false
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed differs at %d", i)
		}
		if a[i] != clean[i] {
			different = true
		}
	}

	if !different {
		t.Fatal("noise had no effect")
	}
}
