package filter

import "errors"

// Filter Engine errors.
var (
	// ErrInvalidCutoff is returned when a cutoff does not lie strictly between
	// 0 Hz and the Nyquist frequency, or when a band's edges are not ascending.
	ErrInvalidCutoff = errors.New("invalid cutoff frequency")

	// ErrInvalidOrder is returned for a Butterworth order below 1.
	ErrInvalidOrder = errors.New("invalid filter order")

	// ErrUnstableFilter is returned when filtering produces non-finite output.
	ErrUnstableFilter = errors.New("filter produced non-finite output")

	// ErrInvalidWindow is returned for an unknown FIR window name.
	ErrInvalidWindow = errors.New("invalid FIR window")
)

const (
	// FIRTaps is the length of every designed FIR filter.
	FIRTaps = 101

	// Bilinear transform sample rate for normalized frequencies (Nyquist = 1).
	designFs = 2.0

	// Zero-phase padding is this many times the filter's effective length.
	padMultiplier = 3

	// Default Kaiser stopband attenuation in dB.
	DefaultKaiserAttenuation = 60.0

	// Number of points used when a frequency response size is not given.
	defaultResponsePoints = 512

	// Floor applied before converting a magnitude to dB.
	minMagnitude = 1e-10

	// Relative tolerance for treating a root as real.
	realTolerance = 1e-12
)
