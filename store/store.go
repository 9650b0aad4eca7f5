// Package store serializes fit settings and results as JSON Lines.
//
// Each spectrum becomes one self-describing record on its own line, so files
// can be loaded incrementally without reading them whole. Settings can be
// written once as a separate artifact and merged back with a results-only
// file, or duplicated into every record for fully self-contained lines
// (documented as space-inefficient but supported).
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Brain-Modulation-Lab/fooof/fit"
	"github.com/Brain-Modulation-Lab/fooof/group"
	"github.com/Brain-Modulation-Lab/fooof/spectral"
)

// ErrNoRecord is returned when a requested record index does not exist.
var ErrNoRecord = errors.New("store: no such record")

// SettingsRecord is the wire form of fit.Settings.
type SettingsRecord struct {
	PeakWidthLimits [2]float64 `json:"peak_width_limits"`
	MaxNPeaks       int        `json:"max_n_peaks"`
	MinPeakHeight   float64    `json:"min_peak_height"`
	PeakThreshold   float64    `json:"peak_threshold"`
	AperiodicMode   string     `json:"aperiodic_mode"`
	ExponentLimits  [2]float64 `json:"exponent_limits"`
	MaxIterations   int        `json:"max_iterations"`
}

// FitRecord is the wire form of one spectrum's fit outcome. Exactly one of
// Failure or the parameter fields is populated.
type FitRecord struct {
	Index          int             `json:"index"`
	Failure        string          `json:"failure,omitempty"`
	AperiodicMode  string          `json:"aperiodic_mode,omitempty"`
	AperiodicParam []float64       `json:"aperiodic_params,omitempty"`
	GaussianParams [][3]float64    `json:"gaussian_params,omitempty"`
	PeakParams     [][3]float64    `json:"peak_params,omitempty"`
	FitError       float64         `json:"fit_error"`
	RSquared       float64         `json:"r_squared"`
	Settings       *SettingsRecord `json:"settings,omitempty"`
}

func settingsToRecord(s fit.Settings) SettingsRecord {
	return SettingsRecord{
		PeakWidthLimits: s.PeakWidthLimits,
		MaxNPeaks:       s.MaxNPeaks,
		MinPeakHeight:   s.MinPeakHeight,
		PeakThreshold:   s.PeakThreshold,
		AperiodicMode:   s.AperiodicMode.String(),
		ExponentLimits:  s.ExponentLimits,
		MaxIterations:   s.MaxIterations,
	}
}

func recordToSettings(r SettingsRecord) (fit.Settings, error) {
	mode, err := parseMode(r.AperiodicMode)
	if err != nil {
		return fit.Settings{}, err
	}
	return fit.Settings{
		PeakWidthLimits: r.PeakWidthLimits,
		MaxNPeaks:       r.MaxNPeaks,
		MinPeakHeight:   r.MinPeakHeight,
		PeakThreshold:   r.PeakThreshold,
		AperiodicMode:   mode,
		ExponentLimits:  r.ExponentLimits,
		MaxIterations:   r.MaxIterations,
	}, nil
}

func parseMode(s string) (spectral.AperiodicMode, error) {
	switch s {
	case "fixed", "":
		return spectral.ModeFixed, nil
	case "knee":
		return spectral.ModeKnee, nil
	}
	return 0, fmt.Errorf("store: unknown aperiodic mode %q", s)
}

// SaveSettings writes a settings-only artifact (one JSON line).
func SaveSettings(w io.Writer, s fit.Settings) error {
	return writeLine(w, settingsToRecord(s))
}

// LoadSettings reads a settings-only artifact.
func LoadSettings(r io.Reader) (fit.Settings, error) {
	var rec SettingsRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return fit.Settings{}, fmt.Errorf("store: decode settings: %w", err)
	}
	return recordToSettings(rec)
}

// SaveOptions control record serialization.
type SaveOptions struct {
	// EmbedSettings duplicates the settings into every record, making each
	// line fully self-describing at the cost of file size.
	EmbedSettings bool
}

// SaveFit writes one result as a single record line.
func SaveFit(w io.Writer, index int, res *fit.Result, settings *fit.Settings) error {
	rec := resultToRecord(index, res)
	if settings != nil {
		sr := settingsToRecord(*settings)
		rec.Settings = &sr
	}
	return writeLine(w, rec)
}

// SaveGroup writes one record line per spectrum, in batch order. Failed
// spectra serialize as failure markers.
func SaveGroup(w io.Writer, g *group.Result, opts SaveOptions) error {
	var embedded *SettingsRecord
	if opts.EmbedSettings {
		sr := settingsToRecord(g.Settings)
		embedded = &sr
	}

	for _, f := range g.Fits {
		var rec FitRecord
		if f.Err != nil {
			rec = FitRecord{Index: f.Index, Failure: f.Err.Error()}
		} else {
			rec = resultToRecord(f.Index, f.Result)
		}
		rec.Settings = embedded

		if err := writeLine(w, rec); err != nil {
			return err
		}
	}

	return nil
}

// LoadGroup streams records back into a batch result, in record order.
// Settings are taken from the first record that embeds them; use Merge to
// attach settings loaded from a separate artifact.
func LoadGroup(r io.Reader) (*group.Result, error) {
	res := &group.Result{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec FitRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("store: decode record %d: %w", len(res.Fits), err)
		}

		sf, err := recordToFit(rec)
		if err != nil {
			return nil, err
		}
		res.Fits = append(res.Fits, sf)

		if rec.Settings != nil && res.Settings == (fit.Settings{}) {
			s, err := recordToSettings(*rec.Settings)
			if err != nil {
				return nil, err
			}
			res.Settings = s
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: read: %w", err)
	}

	return res, nil
}

// LoadFit reads a single record line.
func LoadFit(r io.Reader) (group.SpectrumFit, error) {
	var rec FitRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return group.SpectrumFit{}, fmt.Errorf("store: decode record: %w", err)
	}
	return recordToFit(rec)
}

// Merge attaches separately loaded settings to a results-only batch.
func Merge(settings fit.Settings, g *group.Result) *group.Result {
	return &group.Result{Settings: settings, Fits: g.Fits}
}

// Regenerate rebuilds, for the record at the given index, the reconstructed
// model curve and peak parameters by forward evaluation only; no refitting
// happens. Error and r-squared are carried over from the record.
func Regenerate(freqs []float64, g *group.Result, index int) (*fit.Result, []float64, error) {
	if index < 0 || index >= len(g.Fits) {
		return nil, nil, fmt.Errorf("%w: index %d of %d", ErrNoRecord, index, len(g.Fits))
	}

	sf := g.Fits[index]
	if sf.Err != nil {
		return nil, nil, fmt.Errorf("store: record %d holds a failed fit: %w", index, sf.Err)
	}

	res := sf.Result
	gaussians := make([]spectral.GaussianParams, len(res.Gaussians))
	copy(gaussians, res.Gaussians)

	model, peaks := fit.Reconstruct(freqs, res.Aperiodic, gaussians)

	return &fit.Result{
		Aperiodic: res.Aperiodic,
		Peaks:     peaks,
		Gaussians: gaussians,
		Error:     res.Error,
		RSquared:  res.RSquared,
	}, model, nil
}

func resultToRecord(index int, res *fit.Result) FitRecord {
	rec := FitRecord{
		Index:          index,
		AperiodicMode:  res.Aperiodic.Mode.String(),
		AperiodicParam: res.Aperiodic.Slice(),
		FitError:       res.Error,
		RSquared:       res.RSquared,
	}

	for _, g := range res.Gaussians {
		rec.GaussianParams = append(rec.GaussianParams, [3]float64{g.Mean, g.Height, g.Std})
	}
	for _, p := range res.Peaks {
		rec.PeakParams = append(rec.PeakParams, [3]float64{p.CF, p.PW, p.BW})
	}

	return rec
}

func recordToFit(rec FitRecord) (group.SpectrumFit, error) {
	if rec.Failure != "" {
		return group.SpectrumFit{Index: rec.Index, Err: errors.New(rec.Failure)}, nil
	}

	mode, err := parseMode(rec.AperiodicMode)
	if err != nil {
		return group.SpectrumFit{}, err
	}

	if len(rec.AperiodicParam) != mode.NParams() {
		return group.SpectrumFit{}, fmt.Errorf("store: record %d: %d aperiodic params for %s mode",
			rec.Index, len(rec.AperiodicParam), mode)
	}

	res := &fit.Result{
		Aperiodic: spectral.AperiodicFromSlice(mode, rec.AperiodicParam),
		Error:     rec.FitError,
		RSquared:  rec.RSquared,
	}

	for _, g := range rec.GaussianParams {
		res.Gaussians = append(res.Gaussians, spectral.GaussianParams{Mean: g[0], Height: g[1], Std: g[2]})
	}
	for _, p := range rec.PeakParams {
		res.Peaks = append(res.Peaks, spectral.PeakParams{CF: p[0], PW: p[1], BW: p[2]})
	}

	return group.SpectrumFit{Index: rec.Index, Result: res}, nil
}

func writeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	return nil
}
