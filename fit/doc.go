// Package fit parameterizes a single neural power spectrum.
//
// A fit decomposes a (frequency, power) spectrum into an aperiodic
// "1/f-like" background plus a bounded number of Gaussian peaks, working in
// log10-power space throughout. The pipeline is:
//
//  1. Preprocess: validate, trim to the fit range, convert to log10 power.
//  2. Aperiodic fit: robust two-pass bounded least squares of the background.
//  3. Peak extraction: iterative discovery of peak candidates on the
//     background-subtracted residual.
//  4. Refinement: joint re-optimization of background and all peaks,
//     alternated with a background refit until the error settles.
//  5. Assembly: reported peak parameters and goodness-of-fit metrics.
//
// A failed stage aborts the fit for that spectrum; the returned error wraps
// one of the package sentinels (for example [ErrAperiodicFit]) with the stage
// name. Zero discovered peaks is a valid outcome, not an error.
//
// # Usage
//
//	res, err := fit.Fit(freqs, power, fit.Range{Lo: 3, Hi: 40}, fit.DefaultSettings())
//	if err != nil {
//	    // spectrum could not be parameterized
//	}
//	fmt.Println(res.Aperiodic.Exponent, len(res.Peaks))
//
// For many spectra, see the group package.
package fit
