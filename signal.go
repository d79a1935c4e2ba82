package workbench

import (
	"time"

	"github.com/tphakala/go-audio-workbench/internal/filter"
	"github.com/tphakala/go-audio-workbench/internal/spectrum"
	"github.com/tphakala/go-audio-workbench/internal/store"
	"github.com/tphakala/go-audio-workbench/internal/transform"
	"github.com/tphakala/go-audio-workbench/internal/wavio"
)

// Common sample rates. Files at these rates in 16-bit PCM are never
// re-encoded.
const (
	RateTelephony = 8000
	RateVoIP      = 16000
	RateCD        = 44100
	RateDAT       = 48000
)

// FullScale is the largest positive 16-bit sample.
const FullScale = transform.MaxSample

// Signal is a mono sequence of integer samples in the 16-bit range.
type Signal struct {
	SampleRate int
	Samples    []int
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Duration returns the signal length in time.
func (s Signal) Duration() time.Duration { return s.file().Duration() }

// Floats returns the samples as float64 values.
func (s Signal) Floats() []float64 {
	out := make([]float64, len(s.Samples))
	for i, v := range s.Samples {
		out[i] = float64(v)
	}
	return out
}

func (s Signal) file() wavio.Signal {
	return wavio.Signal{SampleRate: s.SampleRate, Samples: s.Samples}
}

func fromFile(s wavio.Signal) Signal {
	return Signal{SampleRate: s.SampleRate, Samples: s.Samples}
}

// fromFloats truncates filtered values toward zero. Values beyond the 16-bit
// range are kept; the file layer casts them on save.
func fromFloats(rate int, x []float64) Signal {
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = int(v)
	}
	return Signal{SampleRate: rate, Samples: out}
}

// Slot names one of the two artifacts.
type Slot = store.Slot

// The artifacts.
const (
	Input  = store.Input
	Output = store.Output
)

// ParseSlot parses "input" or "output".
func ParseSlot(s string) (Slot, error) { return store.ParseSlot(s) }

// Info describes an artifact's WAV header.
type Info = wavio.Info

// Spectrum is a one-sided magnitude spectrum.
type Spectrum = spectrum.Spectrum

// SpectrumOptions controls spectral analysis.
type SpectrumOptions = spectrum.Options

// Scale is the magnitude scale of a spectrum.
type Scale = spectrum.Scale

// Spectrum scales.
const (
	Linear = spectrum.Linear
	DB     = spectrum.DB
)

// DefaultSpectrumOptions returns a Hamming-windowed dB analysis.
func DefaultSpectrumOptions() SpectrumOptions { return spectrum.DefaultOptions() }

// Band is a filter specification: a kind and its cutoffs in Hz.
type Band = filter.Band

// Kind is the shape of a band.
type Kind = filter.Kind

// Band kinds.
const (
	KindLowpass  = filter.KindLowpass
	KindHighpass = filter.KindHighpass
	KindBandpass = filter.KindBandpass
	KindBandstop = filter.KindBandstop
)

// Lowpass passes frequencies below cutoff Hz.
func Lowpass(cutoff float64) Band { return filter.Lowpass(cutoff) }

// Highpass passes frequencies above cutoff Hz.
func Highpass(cutoff float64) Band { return filter.Highpass(cutoff) }

// Bandpass passes frequencies between low and high Hz.
func Bandpass(low, high float64) Band { return filter.Bandpass(low, high) }

// Bandstop rejects frequencies between low and high Hz.
func Bandstop(low, high float64) Band { return filter.Bandstop(low, high) }

// NewBand builds a band from a kind and one or two cutoffs.
func NewBand(kind Kind, cutoffs ...float64) (Band, error) { return filter.NewBand(kind, cutoffs...) }

// ParseKind parses a band kind name such as "bandpass".
func ParseKind(s string) (Kind, error) { return filter.ParseKind(s) }

// Window is an FIR design window.
type Window = filter.Window

// FIR design windows.
var (
	Hamming = filter.Hamming
	Kaiser  = filter.Kaiser
)

// ScaleReport tells how many samples a gain change clipped.
type ScaleReport = transform.ScaleReport
