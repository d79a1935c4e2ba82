package filter

import "math"

// FilterResponse holds the frequency response of a filter.
type FilterResponse struct {
	// Frequencies at which the response was evaluated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response (linear)
	Magnitude []float64

	// Phase response (radians)
	Phase []float64
}

func newResponse(n int) FilterResponse {
	return FilterResponse{
		Frequencies: make([]float64, n),
		Magnitude:   make([]float64, n),
		Phase:       make([]float64, n),
	}
}

// ComputeFrequencyResponse evaluates H(e^jω) = Σ h[n]·e^(-jωn) of FIR taps
// at numPoints frequencies from 0 up to Nyquist.
func ComputeFrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}
	resp := newResponse(numPoints)

	for k := range numPoints {
		freq := float64(k) / float64(2*numPoints)
		resp.Frequencies[k] = freq

		var re, im float64
		omega := 2 * math.Pi * freq
		for n, h := range coeffs {
			angle := omega * float64(n)
			re += h * math.Cos(angle)
			im -= h * math.Sin(angle)
		}
		resp.Magnitude[k] = math.Hypot(re, im)
		resp.Phase[k] = math.Atan2(im, re)
	}
	return resp
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return 20 * math.Log10(magnitude)
}

// At returns the magnitude at the response point closest to the normalized
// frequency f (cycles per sample).
func (r FilterResponse) At(f float64) float64 {
	if len(r.Frequencies) == 0 {
		return 0
	}
	best := 0
	for i, fr := range r.Frequencies {
		if math.Abs(fr-f) < math.Abs(r.Frequencies[best]-f) {
			best = i
		}
	}
	return r.Magnitude[best]
}
