package workbench

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tphakala/go-audio-workbench/internal/store"
)

// Default artifact file names.
const (
	DefaultInputName  = "input.wav"
	DefaultOutputName = "output.wav"
)

// Config configures a Workbench.
type Config struct {
	// Dir is the asset directory holding both artifacts.
	Dir string

	// InputName and OutputName are the artifact file names inside Dir.
	// They default to input.wav and output.wav.
	InputName  string
	OutputName string

	// FIRWindow is the window used by ApplyFIR. The zero value is Hamming.
	FIRWindow Window

	// Logger receives operation logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: asset directory must not be empty", ErrInvalidConfig)
	}
	in, out := c.names()
	if in == out {
		return fmt.Errorf("%w: input and output share the name %q", ErrInvalidConfig, in)
	}
	return nil
}

func (c *Config) names() (in, out string) {
	in, out = c.InputName, c.OutputName
	if in == "" {
		in = DefaultInputName
	}
	if out == "" {
		out = DefaultOutputName
	}
	return in, out
}

// Workbench runs transformations from the input artifact to the output
// artifact. It is safe for concurrent use: every operation holds the locks of
// the artifacts it touches, input before output.
type Workbench struct {
	store  *store.Store
	window Window
	logger *zap.Logger
}

// New creates a Workbench over cfg.Dir.
func New(cfg *Config) (*Workbench, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	in, out := cfg.names()
	st, err := store.New(store.Options{Dir: cfg.Dir, InputName: in, OutputName: out, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Workbench{store: st, window: cfg.FIRWindow, logger: logger}, nil
}

// Path returns the file path of an artifact.
func (w *Workbench) Path(slot Slot) (string, error) { return w.store.Path(slot) }

// Load reads an artifact as a mono signal.
func (w *Workbench) Load(slot Slot) (Signal, error) {
	sig, err := w.store.Load(slot)
	if err != nil {
		return Signal{}, err
	}
	return fromFile(sig), nil
}

// LoadInput reads the input artifact.
func (w *Workbench) LoadInput() (Signal, error) { return w.Load(Input) }

// LoadOutput reads the output artifact.
func (w *Workbench) LoadOutput() (Signal, error) { return w.Load(Output) }

// Inspect returns the header facts of an artifact.
func (w *Workbench) Inspect(slot Slot) (Info, error) { return w.store.Inspect(slot) }

// Save writes sig to an artifact as mono 16-bit PCM.
func (w *Workbench) Save(slot Slot, sig Signal) error { return w.store.Save(slot, sig.file()) }

// Record stores interleaved 16-bit frames, as handed over by a recorder, in
// the input artifact.
func (w *Workbench) Record(sampleRate, channels int, interleaved []int) error {
	if err := w.store.SaveInterleaved(Input, sampleRate, channels, interleaved); err != nil {
		return err
	}
	w.logger.Info("input recorded",
		zap.Int("rate", sampleRate),
		zap.Int("channels", channels),
		zap.Int("samples", len(interleaved)))
	return nil
}

// Import replaces the input artifact with an uploaded WAV, MP3 or Ogg
// Vorbis file. Afterwards LoadInput succeeds; on error the input artifact
// is unchanged.
func (w *Workbench) Import(filename string, r io.Reader) error {
	return w.store.Import(Input, filename, r)
}

// ApplyIIR filters the input artifact with a zero-phase Butterworth filter
// and saves the result to the output artifact.
func (w *Workbench) ApplyIIR(band Band, order int) (Signal, error) {
	return w.apply("iir", func(in Signal) (Signal, error) {
		return FilterIIR(in, band, order)
	}, zap.Stringer("band", band), zap.Int("order", order))
}

// ApplyFIR filters the input artifact with a zero-phase 101-tap FIR filter
// and saves the result to the output artifact.
func (w *Workbench) ApplyFIR(band Band) (Signal, error) {
	return w.apply("fir", func(in Signal) (Signal, error) {
		return FilterFIRWindow(in, band, w.window)
	}, zap.Stringer("band", band), zap.Stringer("window", w.window))
}

// Scale multiplies the input artifact by factor, clipping to the 16-bit
// range, and saves the result to the output artifact.
func (w *Workbench) Scale(factor float64) (Signal, ScaleReport, error) {
	var report ScaleReport
	out, err := w.apply("scale", func(in Signal) (Signal, error) {
		var (
			out Signal
			err error
		)
		out, report, err = ScaleSignal(in, factor)
		return out, err
	}, zap.Float64("factor", factor))
	if err != nil {
		return Signal{}, ScaleReport{}, err
	}
	w.warnClipping(report)
	return out, report, nil
}

// TimeShift rotates the input artifact by shiftMs and saves the result to
// the output artifact. Samples shifted past the end wrap to the start.
func (w *Workbench) TimeShift(shiftMs float64) (Signal, error) {
	return w.apply("shift", func(in Signal) (Signal, error) {
		return ShiftSignal(in, shiftMs)
	}, zap.Float64("shift_ms", shiftMs))
}

// Transform shifts and then scales the input artifact in one step, saving
// the combined result to the output artifact.
func (w *Workbench) Transform(shiftMs, factor float64) (Signal, ScaleReport, error) {
	var report ScaleReport
	out, err := w.apply("transform", func(in Signal) (Signal, error) {
		shifted, err := ShiftSignal(in, shiftMs)
		if err != nil {
			return Signal{}, err
		}
		var out Signal
		out, report, err = ScaleSignal(shifted, factor)
		return out, err
	}, zap.Float64("shift_ms", shiftMs), zap.Float64("factor", factor))
	if err != nil {
		return Signal{}, ScaleReport{}, err
	}
	w.warnClipping(report)
	return out, report, nil
}

// Spectrum analyzes an artifact. On failure the returned spectrum is nil,
// never an empty result.
func (w *Workbench) Spectrum(slot Slot, opts SpectrumOptions) (*Spectrum, error) {
	sig, err := w.Load(slot)
	if err != nil {
		return nil, err
	}
	spec := Analyze(sig, opts)
	w.logger.Debug("spectrum computed",
		zap.String("slot", string(slot)),
		zap.Int("samples", sig.Len()),
		zap.Int("rate", sig.SampleRate),
		zap.Int("bins", spec.Len()))
	return &spec, nil
}

// Alignment estimates the delay of the output artifact relative to the
// input artifact in samples, searching within ±maxLag.
func (w *Workbench) Alignment(maxLag int) (int, error) {
	var lag int
	err := w.store.Update(func(tx *store.Txn) error {
		in, err := tx.Load(Input)
		if err != nil {
			return err
		}
		out, err := tx.Load(Output)
		if err != nil {
			return err
		}
		lag = Lag(fromFile(in), fromFile(out), maxLag)
		return nil
	}, Input, Output)
	return lag, err
}

// Snapshot loads both artifacts and their spectra into a View. Missing
// artifacts are left nil; any other failure is returned.
func (w *Workbench) Snapshot(opts SpectrumOptions) (View, error) {
	var v View
	err := w.store.Update(func(tx *store.Txn) error {
		for _, slot := range []Slot{Input, Output} {
			f, err := tx.Load(slot)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			sig := fromFile(f)
			spec := Analyze(sig, opts)
			if slot == Input {
				v.Input, v.InputSpectrum = &sig, &spec
			} else {
				v.Output, v.OutputSpectrum = &sig, &spec
			}
		}
		return nil
	}, Input, Output)
	if err != nil {
		return View{}, err
	}
	return v, nil
}

// apply loads the input artifact, runs op and saves its result to the output
// artifact while holding both artifact locks. The output is written only
// when op succeeds.
func (w *Workbench) apply(name string, op func(Signal) (Signal, error), fields ...zap.Field) (Signal, error) {
	logger := w.logger.With(zap.String("operation", name))
	logger.Debug("operation started", fields...)

	var result Signal
	err := w.store.Update(func(tx *store.Txn) error {
		in, err := tx.Load(Input)
		if err != nil {
			return err
		}
		out, err := op(fromFile(in))
		if err != nil {
			return err
		}
		if err := tx.Save(Output, out.file()); err != nil {
			return err
		}
		result = out
		return nil
	}, Input, Output)
	if err != nil {
		logger.Debug("operation failed", zap.Error(err))
		return Signal{}, fmt.Errorf("%s: %w", name, err)
	}

	logger.Debug("operation finished",
		zap.String("slot", string(Output)),
		zap.Int("samples", result.Len()),
		zap.Int("rate", result.SampleRate))
	return result, nil
}

func (w *Workbench) warnClipping(r ScaleReport) {
	if r.Any() {
		w.logger.Warn("samples clipped to 16-bit range",
			zap.Int("clipped", r.Clipped),
			zap.Float64("peak", r.Peak))
	}
}
