package spectral

import (
	"math"
	"testing"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAperiodicEvalFixed(t *testing.T) {
	p := AperiodicParams{Mode: ModeFixed, Offset: 1.5, Exponent: 2}

	// L(f) = offset - exponent*log10(f) in fixed mode.
	got := p.Eval(10)
	want := 1.5 - 2.0
	if !almostEqual(got, want, tolerance) {
		t.Fatalf("Eval(10): got %f, want %f", got, want)
	}

	// Knee value must be ignored in fixed mode.
	p.Knee = 100
	if got := p.Eval(10); !almostEqual(got, want, tolerance) {
		t.Fatalf("Eval(10) with stray knee: got %f, want %f", got, want)
	}
}

func TestAperiodicEvalKnee(t *testing.T) {
	p := AperiodicParams{Mode: ModeKnee, Offset: 2, Knee: 100, Exponent: 2}

	got := p.Eval(10)
	want := 2 - math.Log10(100+100)
	if !almostEqual(got, want, tolerance) {
		t.Fatalf("Eval(10): got %f, want %f", got, want)
	}
}

func TestGaussianEval(t *testing.T) {
	g := GaussianParams{Mean: 10, Height: 0.5, Std: 1}

	if got := g.Eval(10); !almostEqual(got, 0.5, tolerance) {
		t.Fatalf("Eval at mean: got %f, want 0.5", got)
	}

	// One standard deviation out: height * exp(-1/2).
	want := 0.5 * math.Exp(-0.5)
	if got := g.Eval(11); !almostEqual(got, want, tolerance) {
		t.Fatalf("Eval at mean+std: got %f, want %f", got, want)
	}

	if got := g.Eval(9); !almostEqual(got, want, tolerance) {
		t.Fatalf("Eval at mean-std: got %f, want %f", got, want)
	}
}

func TestModelSumsComponents(t *testing.T) {
	freqs := []float64{3, 5, 10, 20, 40}
	ap := AperiodicParams{Mode: ModeFixed, Offset: 1, Exponent: 1.5}
	peaks := []GaussianParams{
		{Mean: 10, Height: 0.5, Std: 1},
		{Mean: 20, Height: 0.3, Std: 2},
	}

	dst := make([]float64, len(freqs))
	Model(dst, freqs, ap, peaks)

	for i, f := range freqs {
		want := ap.Eval(f) + peaks[0].Eval(f) + peaks[1].Eval(f)
		if !almostEqual(dst[i], want, tolerance) {
			t.Fatalf("Model at %f: got %f, want %f", f, dst[i], want)
		}
	}
}

func TestGaussianRoundTrip(t *testing.T) {
	peaks := []GaussianParams{
		{Mean: 10, Height: 0.5, Std: 1},
		{Mean: 21, Height: 0.2, Std: 3},
	}

	flat := FlattenGaussians(peaks)
	if len(flat) != 6 {
		t.Fatalf("expected 6 values, got %d", len(flat))
	}

	back := GroupGaussians(flat)
	if len(back) != len(peaks) {
		t.Fatalf("expected %d peaks, got %d", len(peaks), len(back))
	}

	for i := range peaks {
		if back[i] != peaks[i] {
			t.Fatalf("peak %d: got %+v, want %+v", i, back[i], peaks[i])
		}
	}
}

func TestAperiodicSliceRoundTrip(t *testing.T) {
	fixed := AperiodicParams{Mode: ModeFixed, Offset: 1.2, Exponent: 0.8}
	if got := AperiodicFromSlice(ModeFixed, fixed.Slice()); got != fixed {
		t.Fatalf("fixed round trip: got %+v, want %+v", got, fixed)
	}

	knee := AperiodicParams{Mode: ModeKnee, Offset: 1.2, Knee: 40, Exponent: 1.8}
	if got := AperiodicFromSlice(ModeKnee, knee.Slice()); got != knee {
		t.Fatalf("knee round trip: got %+v, want %+v", got, knee)
	}
}

func TestModeString(t *testing.T) {
	if ModeFixed.String() != "fixed" || ModeKnee.String() != "knee" {
		t.Fatalf("mode names: got %q/%q", ModeFixed, ModeKnee)
	}

	if ModeFixed.NParams() != 2 || ModeKnee.NParams() != 3 {
		t.Fatalf("NParams: got %d/%d", ModeFixed.NParams(), ModeKnee.NParams())
	}
}
