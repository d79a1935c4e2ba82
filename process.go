package workbench

import (
	"github.com/tphakala/go-audio-workbench/internal/filter"
	"github.com/tphakala/go-audio-workbench/internal/spectrum"
	"github.com/tphakala/go-audio-workbench/internal/transform"
)

// FilterIIR applies a Butterworth filter of the given order to sig with zero
// phase. Results are truncated toward zero.
func FilterIIR(sig Signal, band Band, order int) (Signal, error) {
	sos, err := filter.DesignButterworth(band, order, sig.SampleRate)
	if err != nil {
		return Signal{}, err
	}
	y, err := sos.FiltFilt(sig.Floats())
	if err != nil {
		return Signal{}, err
	}
	return fromFloats(sig.SampleRate, y), nil
}

// FilterFIR applies a 101-tap Hamming windowed-sinc filter to sig with zero
// phase.
func FilterFIR(sig Signal, band Band) (Signal, error) {
	return FilterFIRWindow(sig, band, Hamming)
}

// FilterFIRWindow is FilterFIR with an explicit design window.
func FilterFIRWindow(sig Signal, band Band, win Window) (Signal, error) {
	taps, err := filter.DesignFIR(band, sig.SampleRate, win)
	if err != nil {
		return Signal{}, err
	}
	y, err := filter.FiltFiltFIR(taps, sig.Floats())
	if err != nil {
		return Signal{}, err
	}
	return fromFloats(sig.SampleRate, y), nil
}

// ScaleSignal multiplies sig by factor, clipping to the 16-bit range.
func ScaleSignal(sig Signal, factor float64) (Signal, ScaleReport, error) {
	out, report, err := transform.Scale(sig.Samples, factor)
	if err != nil {
		return Signal{}, ScaleReport{}, err
	}
	return Signal{SampleRate: sig.SampleRate, Samples: out}, report, nil
}

// ShiftSignal rotates sig circularly by round(shiftMs*rate/1000) samples.
// output[i] == input[(i-k) mod len]. A NaN or infinite shift returns
// ErrInvalidShift.
func ShiftSignal(sig Signal, shiftMs float64) (Signal, error) {
	out, err := transform.TimeShift(sig.Samples, sig.SampleRate, shiftMs)
	if err != nil {
		return Signal{}, err
	}
	return Signal{SampleRate: sig.SampleRate, Samples: out}, nil
}

// Analyze returns the one-sided spectrum of sig.
func Analyze(sig Signal, opts SpectrumOptions) Spectrum {
	return spectrum.Analyze(sig.Floats(), sig.SampleRate, opts)
}

// Lag estimates how many samples b is delayed relative to a, searching
// within ±maxLag.
func Lag(a, b Signal, maxLag int) int {
	return spectrum.Lag(a.Floats(), b.Floats(), maxLag)
}
