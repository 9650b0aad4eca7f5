package fit_test

import (
	"fmt"

	"github.com/Brain-Modulation-Lab/fooof/fit"
	"github.com/Brain-Modulation-Lab/fooof/spectral"
	"github.com/Brain-Modulation-Lab/fooof/synth"
)

func ExampleFit() {
	// Simulate a noiseless spectrum: 1/f background with exponent 2 and a
	// single 10 Hz peak.
	freqs := synth.FreqAxis(3, 40, 0.25)
	ap := spectral.AperiodicParams{Mode: spectral.ModeFixed, Offset: 1, Exponent: 2}
	peak := spectral.GaussianParams{Mean: 10, Height: 0.5, Std: 1}
	power := synth.PowerSpectrum(freqs, ap, []spectral.GaussianParams{peak}, 0, 0)

	settings := fit.DefaultSettings()
	settings.MinPeakHeight = 0.1

	res, err := fit.Fit(freqs, power, fit.Range{}, settings)
	if err != nil {
		fmt.Println("fit failed:", err)
		return
	}

	fmt.Printf("exponent: %.1f\n", res.Aperiodic.Exponent)
	fmt.Printf("peaks: %d\n", len(res.Peaks))
	fmt.Printf("CF: %.0f Hz\n", res.Peaks[0].CF)
	// Output:
	// exponent: 2.0
	// peaks: 1
	// CF: 10 Hz
}
