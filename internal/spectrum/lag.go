package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Lag returns the shift l in [-maxLag, maxLag] maximizing the linear
// cross-correlation Σ x[n+l]·ref[n]. A positive lag means x is delayed
// relative to ref. Ties resolve to the smallest |l|.
func Lag(ref, x []float64, maxLag int) int {
	if len(ref) == 0 || len(x) == 0 || maxLag < 0 {
		return 0
	}

	size := 1
	for size < len(ref)+len(x)-1 {
		size <<= 1
	}
	r := make([]float64, size)
	copy(r, ref)
	s := make([]float64, size)
	copy(s, x)

	rf := fft.FFTReal(r)
	sf := fft.FFTReal(s)
	prod := make([]complex128, size)
	for i := range prod {
		prod[i] = sf[i] * cmplx.Conj(rf[i])
	}
	corr := fft.IFFT(prod)

	at := func(l int) float64 {
		if l < 0 {
			l += size
		}
		return real(corr[l])
	}

	best, bestVal := 0, at(0)
	limit := min(maxLag, size/2-1)
	for l := 1; l <= limit; l++ {
		for _, cand := range [2]int{l, -l} {
			if v := at(cand); v > bestVal+1e-9*math.Abs(bestVal) {
				best, bestVal = cand, v
			}
		}
	}
	return best
}
