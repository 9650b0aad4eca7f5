package group

import "github.com/Brain-Modulation-Lab/fooof/fit"

// Row is one extracted parameter row tagged with its originating spectrum
// index. Peak counts vary per spectrum, so peak fields may yield several
// rows per index and none for peakless or failed fits.
type Row struct {
	Index  int
	Values []float64
}

// Params extracts a field across the whole batch, one row per spectrum for
// scalar and aperiodic fields, one row per peak for peak and gaussian
// fields. Failed spectra are skipped.
func (r *Result) Params(field fit.Field, col string) ([]Row, error) {
	var rows []Row

	for _, f := range r.Fits {
		if f.Err != nil {
			continue
		}

		vals, err := f.Result.Params(field, col)
		if err != nil {
			return nil, err
		}

		switch field {
		case fit.FieldPeaks, fit.FieldGaussians:
			per := 1
			if col == "" {
				per = 3
			}
			for i := 0; i+per <= len(vals); i += per {
				rows = append(rows, Row{Index: f.Index, Values: vals[i : i+per]})
			}
		default:
			rows = append(rows, Row{Index: f.Index, Values: vals})
		}
	}

	return rows, nil
}
