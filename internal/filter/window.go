package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-audio-workbench/internal/mathutil"
	"gonum.org/v1/gonum/dsp/window"
)

// WindowKind selects the taper applied to the ideal sinc response.
type WindowKind int

// Supported FIR windows.
const (
	WindowHamming WindowKind = iota
	WindowKaiser
)

// Window describes an FIR design window. Attenuation only applies to Kaiser.
type Window struct {
	Kind        WindowKind
	Attenuation float64
}

// Hamming is the default design window.
var Hamming = Window{Kind: WindowHamming}

// Kaiser returns a Kaiser window tuned for the given stopband attenuation in dB.
func Kaiser(attenuation float64) Window {
	return Window{Kind: WindowKaiser, Attenuation: attenuation}
}

// ParseWindow parses "hamming" or "kaiser".
func ParseWindow(name string, attenuation float64) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "hamming":
		return Hamming, nil
	case "kaiser":
		if attenuation <= 0 {
			attenuation = DefaultKaiserAttenuation
		}
		return Kaiser(attenuation), nil
	}
	return Window{}, fmt.Errorf("%w: %q", ErrInvalidWindow, name)
}

// String returns the window name.
func (w Window) String() string {
	if w.Kind == WindowKaiser {
		return fmt.Sprintf("kaiser(%g dB)", w.Attenuation)
	}
	return "hamming"
}

// Coefficients returns the symmetric window of the given length.
func (w Window) Coefficients(length int) []float64 {
	if length < 1 {
		return []float64{}
	}
	if w.Kind == WindowKaiser {
		return KaiserWindow(length, mathutil.KaiserBeta(w.Attenuation))
	}
	ones := make([]float64, length)
	for i := range ones {
		ones[i] = 1
	}
	if length == 1 {
		return ones
	}
	return window.Hamming(ones)
}

// KaiserWindow generates a Kaiser window of the specified length and β.
// The window is symmetric: w[i] = w[length-1-i], with a peak of 1.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}
	w := make([]float64, length)
	if length == 1 {
		w[0] = 1
		return w
	}

	// w[n] = I₀(β·sqrt(1 - ((n-α)/α)²)) / I₀(β), α = (N-1)/2
	alpha := float64(length-1) / 2
	i0Beta := mathutil.BesselI0(beta)
	for n := range length {
		x := (float64(n) - alpha) / alpha
		w[n] = mathutil.BesselI0(beta*math.Sqrt(math.Max(0, 1-x*x))) / i0Beta
	}
	return w
}
