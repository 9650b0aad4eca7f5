package spectral

import "math"

// AperiodicMode selects the form of the aperiodic background model.
type AperiodicMode int

const (
	// ModeFixed models the background as a straight line in log-log space
	// (offset and exponent only).
	ModeFixed AperiodicMode = iota
	// ModeKnee adds a knee parameter, allowing the slope to bend across
	// frequency.
	ModeKnee
)

// String returns the canonical name of the mode.
func (m AperiodicMode) String() string {
	switch m {
	case ModeKnee:
		return "knee"
	default:
		return "fixed"
	}
}

// NParams returns the number of free parameters of the mode (2 for fixed,
// 3 for knee).
func (m AperiodicMode) NParams() int {
	if m == ModeKnee {
		return 3
	}
	return 2
}

// AperiodicParams holds the fitted aperiodic background parameters.
//
// Knee is meaningful only when Mode is [ModeKnee]; in fixed mode it is kept
// at zero.
type AperiodicParams struct {
	Mode     AperiodicMode
	Offset   float64
	Knee     float64
	Exponent float64
}

// Eval returns the aperiodic model value at frequency f, in log10-power:
//
//	L(f) = offset - log10(knee + f^exponent)
func (p AperiodicParams) Eval(f float64) float64 {
	knee := p.Knee
	if p.Mode == ModeFixed {
		knee = 0
	}
	return p.Offset - math.Log10(knee+math.Pow(f, p.Exponent))
}

// EvalAll evaluates the aperiodic model on every frequency into dst.
// dst and freqs must have the same length.
func (p AperiodicParams) EvalAll(dst, freqs []float64) {
	for i, f := range freqs {
		dst[i] = p.Eval(f)
	}
}

// Slice returns the parameters as a flat vector: [offset, exponent] in fixed
// mode, [offset, knee, exponent] in knee mode.
func (p AperiodicParams) Slice() []float64 {
	if p.Mode == ModeKnee {
		return []float64{p.Offset, p.Knee, p.Exponent}
	}
	return []float64{p.Offset, p.Exponent}
}

// AperiodicFromSlice is the inverse of [AperiodicParams.Slice].
func AperiodicFromSlice(mode AperiodicMode, v []float64) AperiodicParams {
	if mode == ModeKnee {
		return AperiodicParams{Mode: ModeKnee, Offset: v[0], Knee: v[1], Exponent: v[2]}
	}
	return AperiodicParams{Mode: ModeFixed, Offset: v[0], Exponent: v[1]}
}

// GaussianParams holds one peak in raw fit space.
type GaussianParams struct {
	Mean   float64 // center frequency in Hz
	Height float64 // height over the aperiodic fit, log10-power units
	Std    float64 // Gaussian standard deviation in Hz
}

// Eval returns the Gaussian value at frequency f.
func (g GaussianParams) Eval(f float64) float64 {
	d := f - g.Mean
	return g.Height * math.Exp(-d*d/(2*g.Std*g.Std))
}

// AddTo accumulates the Gaussian into dst over the given frequency axis.
func (g GaussianParams) AddTo(dst, freqs []float64) {
	for i, f := range freqs {
		dst[i] += g.Eval(f)
	}
}

// PeakParams holds one reported peak.
//
// PW differs from the raw Gaussian height: it is measured on the full model
// above the aperiodic fit at CF, so overlapping peaks are accounted for.
type PeakParams struct {
	CF float64 // center frequency in Hz
	PW float64 // power above the aperiodic fit, log10-power units
	BW float64 // bandwidth in Hz (2 * std)
}

// Model evaluates the full model (aperiodic plus all peaks) into dst.
// dst and freqs must have the same length.
func Model(dst, freqs []float64, ap AperiodicParams, peaks []GaussianParams) {
	ap.EvalAll(dst, freqs)
	for _, g := range peaks {
		g.AddTo(dst, freqs)
	}
}

// GroupGaussians regroups a flat [mean, height, std, mean, ...] parameter
// vector into per-peak triples. The vector length must be divisible by three.
func GroupGaussians(v []float64) []GaussianParams {
	out := make([]GaussianParams, 0, len(v)/3)
	for i := 0; i+2 < len(v); i += 3 {
		out = append(out, GaussianParams{Mean: v[i], Height: v[i+1], Std: v[i+2]})
	}
	return out
}

// FlattenGaussians is the inverse of [GroupGaussians].
func FlattenGaussians(peaks []GaussianParams) []float64 {
	out := make([]float64, 0, 3*len(peaks))
	for _, g := range peaks {
		out = append(out, g.Mean, g.Height, g.Std)
	}
	return out
}
