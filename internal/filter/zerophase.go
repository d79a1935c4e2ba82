package filter

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/tphakala/simd/f64"
)

// FiltFilt applies the cascade forward and then backward so the result has
// zero phase shift. The signal is extended at both ends by odd reflection
// and each pass starts from the steady state for its first sample.
func (s SOS) FiltFilt(x []float64) ([]float64, error) {
	if len(x) == 0 || len(s) == 0 {
		return slices.Clone(x), nil
	}

	edge := min(padMultiplier*s.effectiveTaps(), len(x)-1)
	ext := oddExtend(x, edge)
	zi := s.steadyState()

	y := s.filter(ext, zi, ext[0])
	slices.Reverse(y)
	y = s.filter(y, zi, y[0])
	slices.Reverse(y)

	out := y[edge : len(y)-edge]
	if err := checkFinite(out); err != nil {
		return nil, err
	}
	return out, nil
}

// effectiveTaps is 2*sections+1 less the sections that are only first order.
func (s SOS) effectiveTaps() int {
	var zb, za int
	for _, sec := range s {
		if sec[2] == 0 {
			zb++
		}
		if sec[5] == 0 {
			za++
		}
	}
	return 2*len(s) + 1 - min(zb, za)
}

// steadyState returns the per-section initial state that yields the step
// response steady state for a unit input.
func (s SOS) steadyState() [][2]float64 {
	zi := make([][2]float64, len(s))
	scale := 1.0
	for i, sec := range s {
		b0, b1, b2 := sec[0], sec[1], sec[2]
		a1, a2 := sec[4], sec[5]
		den := 1 + a1 + a2

		B0 := b1 - a1*b0
		B1 := b2 - a2*b0
		z0 := (B0 + B1) / den
		z1 := B1 - a2*z0

		zi[i] = [2]float64{scale * z0, scale * z1}
		scale *= (b0 + b1 + b2) / den
	}
	return zi
}

// filter runs the cascade through a biquad.Chain, with every section's state
// initialized to zi scaled by x0.
func (s SOS) filter(x []float64, zi [][2]float64, x0 float64) []float64 {
	state := make([][2]float64, len(zi))
	for i, z := range zi {
		state[i] = [2]float64{z[0] * x0, z[1] * x0}
	}
	chain := biquad.NewChain(s.coefficients())
	chain.SetState(state)

	y := slices.Clone(x)
	chain.ProcessBlock(y)
	return y
}

// FiltFiltFIR applies an FIR filter forward and backward, padding the signal
// by odd reflection of 3*len(taps) samples (fewer for short signals).
func FiltFiltFIR(taps, x []float64) ([]float64, error) {
	if len(x) == 0 || len(taps) == 0 {
		return slices.Clone(x), nil
	}

	edge := min(padMultiplier*len(taps), len(x)-1)
	ext := oddExtend(x, edge)

	kernel := slices.Clone(taps)
	slices.Reverse(kernel)

	y := firFilter(kernel, ext)
	slices.Reverse(y)
	y = firFilter(kernel, y)
	slices.Reverse(y)

	out := y[edge : len(y)-edge]
	if err := checkFinite(out); err != nil {
		return nil, err
	}
	return out, nil
}

// firFilter computes y[n] = Σ h[k]·x[n-k] with samples before the start held
// at x[0], which is the steady state of a constant input. kernel is h reversed.
func firFilter(kernel, x []float64) []float64 {
	hist := len(kernel) - 1
	padded := make([]float64, hist+len(x))
	for i := range hist {
		padded[i] = x[0]
	}
	copy(padded[hist:], x)

	y := make([]float64, len(x))
	f64.ConvolveValid(y, padded, kernel)
	return y
}

// oddExtend reflects n samples about each endpoint:
// 2*x[0]-x[n..1], x, 2*x[L-1]-x[L-2..L-1-n].
func oddExtend(x []float64, n int) []float64 {
	l := len(x)
	ext := make([]float64, l+2*n)
	for i := range n {
		ext[i] = 2*x[0] - x[n-i]
		ext[n+l+i] = 2*x[l-1] - x[l-2-i]
	}
	copy(ext[n:], x)
	return ext
}

func checkFinite(y []float64) error {
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is %v", ErrUnstableFilter, i, v)
		}
	}
	return nil
}
