package fit

import (
	"fmt"
	"math"
)

// Range selects the frequency band to fit, inclusive on both ends.
// The zero value selects the full axis.
type Range struct {
	Lo, Hi float64
}

// full reports whether the range selects the whole axis.
func (r Range) full() bool {
	return r.Lo == 0 && r.Hi == 0
}

// Spectrum is a validated, fit-ready spectrum in log10-power space.
type Spectrum struct {
	Freqs    []float64 // trimmed frequency axis, strictly increasing
	LogPower []float64 // log10 of the input power, parallel to Freqs
	FreqRes  float64   // minimum consecutive frequency delta
}

// FreqRange returns the first and last frequency of the trimmed axis.
func (s Spectrum) FreqRange() (lo, hi float64) {
	return s.Freqs[0], s.Freqs[len(s.Freqs)-1]
}

// Preprocess validates a raw (freqs, power) spectrum, trims it to the given
// range, and converts power to log10-power space.
//
// The frequency axis must be strictly increasing and every power value must
// be strictly positive (log power is undefined otherwise). The returned
// Spectrum owns fresh slices; the inputs are not retained.
func Preprocess(freqs, power []float64, rng Range) (Spectrum, error) {
	if len(freqs) != len(power) {
		return Spectrum{}, fmt.Errorf("%w: %d freqs, %d powers", ErrLengthMismatch, len(freqs), len(power))
	}

	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			return Spectrum{}, fmt.Errorf("%w: freqs[%d]=%g, freqs[%d]=%g",
				ErrInvalidFrequencyAxis, i-1, freqs[i-1], i, freqs[i])
		}
	}

	lo, hi := 0, len(freqs)
	if !rng.full() {
		// Inclusive trim by index on the sorted axis.
		for lo < len(freqs) && freqs[lo] < rng.Lo {
			lo++
		}
		for hi > lo && freqs[hi-1] > rng.Hi {
			hi--
		}
	}

	if hi-lo < 2 {
		return Spectrum{}, fmt.Errorf("%w: [%g, %g]", ErrEmptyRange, rng.Lo, rng.Hi)
	}

	sp := Spectrum{
		Freqs:    make([]float64, hi-lo),
		LogPower: make([]float64, hi-lo),
		FreqRes:  math.Inf(1),
	}
	copy(sp.Freqs, freqs[lo:hi])

	for i, p := range power[lo:hi] {
		if p <= 0 || math.IsNaN(p) {
			return Spectrum{}, fmt.Errorf("%w: power[%d]=%g", ErrNonPositivePower, lo+i, p)
		}
		sp.LogPower[i] = math.Log10(p)
	}

	for i := 1; i < len(sp.Freqs); i++ {
		if d := sp.Freqs[i] - sp.Freqs[i-1]; d < sp.FreqRes {
			sp.FreqRes = d
		}
	}

	return sp, nil
}
