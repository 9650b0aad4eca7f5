// Package group fits many power spectra sharing one frequency axis,
// sequentially or on a worker pool, preserving input order.
//
// Spectra are independent: each worker runs one complete single-spectrum fit
// with no shared mutable state. Results land in a pre-sized slice by row
// index, so the output order never depends on completion order. A failed fit
// is recorded at its index and does not abort the batch.
package group

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Brain-Modulation-Lab/fooof/fit"
)

// Progress observes batch completion. It is called once per completed
// spectrum, success or failure, serialized under a lock. It must not block
// for long and cannot influence fit outcomes or ordering.
type Progress func(done, total int)

// Config controls batch execution.
type Config struct {
	// Workers sets the concurrency: 1 (or 0) fits sequentially, k > 1 uses
	// a pool of k workers, -1 sizes the pool to all available CPUs.
	Workers int

	// Progress, if set, is notified once per completed spectrum.
	Progress Progress
}

// SpectrumFit is one entry of a batch result: either a successful Result or
// the error that failed that spectrum.
type SpectrumFit struct {
	Index  int
	Result *fit.Result
	Err    error
}

// Result holds the outcome of a batch fit. Fits has exactly one entry per
// input row, in input order. It is frozen once Fit returns.
type Result struct {
	Settings fit.Settings
	Fits     []SpectrumFit
}

// Fit parameterizes every row of spectra against the shared frequency axis.
// Row i of spectra produces Fits[i], regardless of worker scheduling.
func Fit(freqs []float64, spectra [][]float64, rng fit.Range, settings fit.Settings, cfg Config) *Result {
	fitter := fit.New(settings)

	res := &Result{
		Settings: fitter.Settings(),
		Fits:     make([]SpectrumFit, len(spectra)),
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = 1
	}
	if workers < 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if cfg.Progress == nil {
			return
		}
		mu.Lock()
		done++
		cfg.Progress(done, len(spectra))
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, power := range spectra {
		g.Go(func() error {
			r, err := fitter.Fit(freqs, power, rng)
			// Indexed assignment; per-spectrum failures stay local.
			res.Fits[i] = SpectrumFit{Index: i, Result: r, Err: err}
			report()
			return nil
		})
	}

	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()

	return res
}

// Failed returns the indices of spectra whose fit failed, in order.
func (r *Result) Failed() []int {
	var idx []int
	for _, f := range r.Fits {
		if f.Err != nil {
			idx = append(idx, f.Index)
		}
	}
	return idx
}
