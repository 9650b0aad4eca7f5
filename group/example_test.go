package group_test

import (
	"fmt"

	"github.com/Brain-Modulation-Lab/fooof/fit"
	"github.com/Brain-Modulation-Lab/fooof/group"
	"github.com/Brain-Modulation-Lab/fooof/spectral"
	"github.com/Brain-Modulation-Lab/fooof/synth"
)

func ExampleFit() {
	freqs := synth.FreqAxis(3, 40, 0.25)

	// Three spectra sharing one frequency axis.
	spectra := make([][]float64, 3)
	for i := range spectra {
		ap := spectral.AperiodicParams{Mode: spectral.ModeFixed, Offset: 1, Exponent: 1 + 0.5*float64(i)}
		spectra[i] = synth.PowerSpectrum(freqs, ap, nil, 0, 0)
	}

	res := group.Fit(freqs, spectra, fit.Range{}, fit.DefaultSettings(), group.Config{Workers: -1})

	fmt.Printf("fits: %d\n", len(res.Fits))
	fmt.Printf("failed: %d\n", len(res.Failed()))
	// Output:
	// fits: 3
	// failed: 0
}
