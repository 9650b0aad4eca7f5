package fit

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

// assemble converts the final raw parameters into a Result: reported peak
// parameters, fit error (mean absolute deviation in log-power space), and
// r-squared.
func assemble(sp Spectrum, ap spectral.AperiodicParams, gaussians []spectral.GaussianParams) *Result {
	sortByMean(gaussians)

	model, peaks := Reconstruct(sp.Freqs, ap, gaussians)

	return &Result{
		Aperiodic: ap,
		Peaks:     peaks,
		Gaussians: gaussians,
		Error:     meanAbsDiff(model, sp.LogPower),
		RSquared:  rSquared(model, sp.LogPower),
	}
}

// Reconstruct evaluates the full model on a frequency axis and derives the
// reported peak parameters from it by forward evaluation only.
//
// PW is measured as the model height above the aperiodic curve at CF, so
// overlapping Gaussians contribute to each other's reported power. The
// returned peaks are sorted by center frequency; gaussians is sorted in
// place to stay parallel.
func Reconstruct(freqs []float64, ap spectral.AperiodicParams, gaussians []spectral.GaussianParams) (model []float64, peaks []spectral.PeakParams) {
	sortByMean(gaussians)

	model = make([]float64, len(freqs))
	spectral.Model(model, freqs, ap, gaussians)

	apOnly := make([]float64, len(freqs))
	ap.EvalAll(apOnly, freqs)

	peaks = make([]spectral.PeakParams, len(gaussians))
	for i, g := range gaussians {
		ci := nearestIndex(freqs, g.Mean)
		peaks[i] = spectral.PeakParams{
			CF: g.Mean,
			PW: model[ci] - apOnly[ci],
			BW: 2 * g.Std,
		}
	}

	return model, peaks
}

func sortByMean(gaussians []spectral.GaussianParams) {
	sort.Slice(gaussians, func(i, j int) bool {
		return gaussians[i].Mean < gaussians[j].Mean
	})
}

// meanAbsDiff returns the mean absolute deviation between two equal-length
// vectors.
func meanAbsDiff(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}

	abs := make([]float64, len(a))
	for i := range a {
		abs[i] = math.Abs(a[i] - b[i])
	}

	return vecmath.Sum(abs) / float64(len(a))
}

// rSquared returns the squared Pearson correlation between two vectors.
func rSquared(a, b []float64) float64 {
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r * r
}
