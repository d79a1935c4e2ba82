package filter

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// DesignFIR designs a linear-phase FIR filter of FIRTaps taps for band at
// sampleRate by the window method.
//
// The ideal response is a sum of sinc terms, one per passband, tapered by
// win. The taps are then scaled to unit gain at the centre of the first
// passband: DC for lowpass and bandstop, Nyquist for highpass, and the band
// centre for bandpass.
func DesignFIR(band Band, sampleRate int, win Window) ([]float64, error) {
	wn, err := band.Normalize(sampleRate)
	if err != nil {
		return nil, err
	}

	var edges [][2]float64
	switch band.kind {
	case KindLowpass:
		edges = [][2]float64{{0, wn[0]}}
	case KindHighpass:
		edges = [][2]float64{{wn[0], 1}}
	case KindBandpass:
		edges = [][2]float64{{wn[0], wn[1]}}
	case KindBandstop:
		edges = [][2]float64{{0, wn[0]}, {wn[1], 1}}
	}

	const numTaps = FIRTaps
	alpha := float64(numTaps-1) / 2
	taps := make([]float64, numTaps)
	for n := range taps {
		m := float64(n) - alpha
		for _, e := range edges {
			taps[n] += e[1]*sinc(e[1]*m) - e[0]*sinc(e[0]*m)
		}
	}

	w := win.Coefficients(numTaps)
	for n := range taps {
		taps[n] *= w[n]
	}

	first := edges[0]
	var center float64
	switch {
	case first[0] == 0:
		center = 0
	case first[1] == 1:
		center = 1
	default:
		center = (first[0] + first[1]) / 2
	}
	phase := make([]float64, numTaps)
	for n := range phase {
		phase[n] = math.Cos(math.Pi * (float64(n) - alpha) * center)
	}
	gain := f64.DotProduct(taps, phase)
	if math.Abs(gain) > minMagnitude {
		f64.Scale(taps, taps, 1/gain)
	}
	return taps, nil
}

// sinc is the normalized sinc sin(πx)/(πx).
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
