package fit

import (
	"fmt"

	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

// Field names a Result attribute for extraction by [Result.Params].
type Field string

const (
	FieldAperiodic Field = "aperiodic_params"
	FieldPeaks     Field = "peak_params"
	FieldGaussians Field = "gaussian_params"
	FieldError     Field = "error"
	FieldRSquared  Field = "r_squared"
)

// Params extracts numeric values from the result by field name and optional
// sub-column.
//
// For FieldAperiodic the columns are "offset", "knee" (knee mode only) and
// "exponent"; an empty column returns the flat parameter vector. For
// FieldPeaks the columns are "CF", "PW", "BW" (one value per peak); empty
// returns flat [CF, PW, BW] triples. FieldGaussians works the same with
// "mean", "height", "std". FieldError and FieldRSquared ignore the column
// and return a single value.
func (r *Result) Params(field Field, col string) ([]float64, error) {
	switch field {
	case FieldAperiodic:
		return aperiodicColumn(r.Aperiodic, col)

	case FieldPeaks:
		out := make([]float64, 0, 3*len(r.Peaks))
		for _, p := range r.Peaks {
			switch col {
			case "":
				out = append(out, p.CF, p.PW, p.BW)
			case "CF":
				out = append(out, p.CF)
			case "PW":
				out = append(out, p.PW)
			case "BW":
				out = append(out, p.BW)
			default:
				return nil, fmt.Errorf("fit: unknown peak column %q", col)
			}
		}
		return out, nil

	case FieldGaussians:
		out := make([]float64, 0, 3*len(r.Gaussians))
		for _, g := range r.Gaussians {
			switch col {
			case "":
				out = append(out, g.Mean, g.Height, g.Std)
			case "mean":
				out = append(out, g.Mean)
			case "height":
				out = append(out, g.Height)
			case "std":
				out = append(out, g.Std)
			default:
				return nil, fmt.Errorf("fit: unknown gaussian column %q", col)
			}
		}
		return out, nil

	case FieldError:
		return []float64{r.Error}, nil

	case FieldRSquared:
		return []float64{r.RSquared}, nil
	}

	return nil, fmt.Errorf("fit: unknown field %q", field)
}

func aperiodicColumn(p spectral.AperiodicParams, col string) ([]float64, error) {
	switch col {
	case "":
		return p.Slice(), nil
	case "offset":
		return []float64{p.Offset}, nil
	case "exponent":
		return []float64{p.Exponent}, nil
	case "knee":
		if p.Mode != spectral.ModeKnee {
			return nil, fmt.Errorf("fit: knee column requires knee mode")
		}
		return []float64{p.Knee}, nil
	}
	return nil, fmt.Errorf("fit: unknown aperiodic column %q", col)
}
