// Package spectrum computes one-sided magnitude spectra of real signals and
// estimates the lag between two signals.
package spectrum

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// ErrInvalidScale is returned for an unknown magnitude scale name.
var ErrInvalidScale = errors.New("invalid spectrum scale")

// Scale selects how magnitudes are reported.
type Scale int

// Magnitude scales.
const (
	Linear Scale = iota
	DB
)

// String returns "linear" or "db".
func (s Scale) String() string {
	if s == DB {
		return "db"
	}
	return "linear"
}

// ParseScale parses "linear" or "db" (case-insensitive).
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "lin":
		return Linear, nil
	case "db", "decibel", "decibels":
		return DB, nil
	}
	return Linear, fmt.Errorf("%w: %q", ErrInvalidScale, s)
}

// Options controls an analysis.
type Options struct {
	// Window applies a Hamming window over the whole sequence before the FFT.
	Window bool

	// Scale is the magnitude scale of the result.
	Scale Scale

	// FloorDB, when non-zero, clamps magnitudes to at least 10^(FloorDB/20)
	// before the dB conversion. With the zero value, silent bins become -Inf.
	FloorDB float64
}

// DefaultOptions returns a windowed dB analysis.
func DefaultOptions() Options {
	return Options{Window: true, Scale: DB}
}

// Spectrum is a one-sided magnitude spectrum. Frequencies are strictly
// ascending from 0 Hz and always as long as Magnitudes.
type Spectrum struct {
	Frequencies []float64
	Magnitudes  []float64
	Scale       Scale
}

// Len returns the number of bins.
func (s Spectrum) Len() int { return len(s.Frequencies) }

// At returns the magnitude of the bin nearest to hz.
func (s Spectrum) At(hz float64) float64 {
	if len(s.Frequencies) == 0 {
		return math.NaN()
	}
	best := 0
	for i, f := range s.Frequencies {
		if math.Abs(f-hz) < math.Abs(s.Frequencies[best]-hz) {
			best = i
		}
	}
	return s.Magnitudes[best]
}

// Peak returns the frequency and magnitude of the largest bin.
func (s Spectrum) Peak() (hz, magnitude float64) {
	if len(s.Magnitudes) == 0 {
		return 0, math.NaN()
	}
	best := 0
	for i, m := range s.Magnitudes {
		if m > s.Magnitudes[best] {
			best = i
		}
	}
	return s.Frequencies[best], s.Magnitudes[best]
}

// Analyze returns the non-negative frequency bins of samples' DFT: N/2+1 bins
// for even N and (N+1)/2 for odd N, bin k at k*sampleRate/N Hz.
func Analyze(samples []float64, sampleRate int, opts Options) Spectrum {
	n := len(samples)
	if n == 0 {
		return Spectrum{Frequencies: []float64{}, Magnitudes: []float64{}, Scale: opts.Scale}
	}

	seq := make([]float64, n)
	copy(seq, samples)
	if opts.Window && n > 1 {
		window.Hamming(seq)
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, seq)

	spec := Spectrum{
		Frequencies: make([]float64, len(coeffs)),
		Magnitudes:  make([]float64, len(coeffs)),
		Scale:       opts.Scale,
	}
	floor := 0.0
	if opts.FloorDB != 0 {
		floor = math.Pow(10, opts.FloorDB/20)
	}
	for k, c := range coeffs {
		spec.Frequencies[k] = float64(k) * float64(sampleRate) / float64(n)
		mag := math.Hypot(real(c), imag(c))
		if opts.Scale == DB {
			mag = 20 * math.Log10(math.Max(mag, floor))
		}
		spec.Magnitudes[k] = mag
	}
	return spec
}
