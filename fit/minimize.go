package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// bounds is a box constraint for the Nelder-Mead fits. All bounds used in
// this package are finite.
type bounds struct {
	lo, hi []float64
}

// clamp moves x strictly inside the box so the initial simplex starts from a
// feasible point.
func (b bounds) clamp(x []float64) {
	for i := range x {
		margin := 1e-6 * (b.hi[i] - b.lo[i])
		if x[i] < b.lo[i]+margin {
			x[i] = b.lo[i] + margin
		}
		if x[i] > b.hi[i]-margin {
			x[i] = b.hi[i] - margin
		}
	}
}

func (b bounds) contains(x []float64) bool {
	for i := range x {
		if x[i] < b.lo[i] || x[i] > b.hi[i] {
			return false
		}
	}
	return true
}

// minimizeBounded runs a bounded Nelder-Mead minimization of fn starting at
// x0. The box is enforced with an infinite penalty outside the bounds, which
// Nelder-Mead treats as a rejected vertex. The start point is clamped into
// the box. maxIter is a per-parameter budget; the joint fit grows with the
// peak count, so the absolute cap scales with the dimension. Returns the
// minimizer, or an error if the optimizer fails or exhausts its budget
// without converging.
func minimizeBounded(fn func([]float64) float64, x0 []float64, b bounds, maxIter int) ([]float64, error) {
	x := make([]float64, len(x0))
	copy(x, x0)
	b.clamp(x)

	penalized := func(p []float64) float64 {
		if !b.contains(p) {
			return math.Inf(1)
		}
		return fn(p)
	}

	problem := optimize.Problem{Func: penalized}
	settings := &optimize.Settings{
		MajorIterations: maxIter * len(x0),
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 100,
		},
	}

	res, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
		return nil, fmt.Errorf("stopped at %v after %d iterations", res.Status, res.Stats.MajorIterations)
	}

	if !isFiniteAll(res.X) || math.IsInf(res.F, 0) || math.IsNaN(res.F) {
		return nil, fmt.Errorf("non-finite optimum")
	}

	return res.X, nil
}

func isFiniteAll(x []float64) bool {
	for _, v := range x {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
