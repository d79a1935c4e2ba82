// Package filter implements the workbench Filter Engine: Butterworth IIR
// design as second-order sections, windowed-sinc FIR design, and zero-phase
// (forward-backward) application of both.
package filter

import (
	"cmp"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// Section is one biquad: b0, b1, b2, a0, a1, a2 with a0 == 1.
type Section [6]float64

// SOS is a cascade of second-order sections.
type SOS []Section

// zpk is a filter in zero-pole-gain form.
type zpk struct {
	zeros []complex128
	poles []complex128
	gain  float64
}

// DesignButterworth designs a digital Butterworth filter of the given order
// for band at sampleRate, returned as second-order sections.
//
// Lowpass and highpass come from the algo-dsp cascade designer. Bandpass and
// bandstop follow the classic route: analog lowpass prototype, frequency
// transform to the band, bilinear transform with pre-warped edges.
func DesignButterworth(band Band, order, sampleRate int) (SOS, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidOrder, order)
	}
	wn, err := band.Normalize(sampleRate)
	if err != nil {
		return nil, err
	}

	switch band.kind {
	case KindLowpass:
		return fromCoefficients(design.ButterworthLP(wn[0], order, designFs)), nil
	case KindHighpass:
		return fromCoefficients(design.ButterworthHP(wn[0], order, designFs)), nil
	}
	return designZPK(band.kind, wn, order), nil
}

// designZPK designs a bandpass or bandstop through zero-pole-gain form. wn
// holds the normalized edges with Nyquist at 1.
func designZPK(kind Kind, wn []float64, order int) SOS {
	warped := make([]float64, len(wn))
	for i, w := range wn {
		warped[i] = 2 * designFs * math.Tan(math.Pi*w/designFs)
	}

	f := prototype(order)
	wo, bw := math.Sqrt(warped[0]*warped[1]), warped[1]-warped[0]
	if kind == KindBandstop {
		f = f.toBandstop(wo, bw)
	} else {
		f = f.toBandpass(wo, bw)
	}
	return f.bilinear(designFs).sections()
}

func fromCoefficients(cs []biquad.Coefficients) SOS {
	sos := make(SOS, len(cs))
	for i, c := range cs {
		sos[i] = Section{c.B0, c.B1, c.B2, 1, c.A1, c.A2}
	}
	return sos
}

// coefficients converts the cascade for biquad.Chain, which assumes a0 == 1.
func (s SOS) coefficients() []biquad.Coefficients {
	cs := make([]biquad.Coefficients, len(s))
	for i, sec := range s {
		cs[i] = biquad.Coefficients{B0: sec[0], B1: sec[1], B2: sec[2], A1: sec[4], A2: sec[5]}
	}
	return cs
}

// prototype returns the analog Butterworth lowpass with unit cutoff.
func prototype(order int) zpk {
	poles := make([]complex128, 0, order)
	for m := -order + 1; m < order; m += 2 {
		theta := math.Pi * float64(m) / float64(2*order)
		if m == 0 {
			poles = append(poles, complex(-1, 0))
			continue
		}
		poles = append(poles, -cmplx.Exp(complex(0, theta)))
	}
	return zpk{poles: poles, gain: 1}
}

func (f zpk) degree() int { return len(f.poles) - len(f.zeros) }

func (f zpk) toBandpass(wo, bw float64) zpk {
	deg := f.degree()
	half := complex(bw/2, 0)
	out := zpk{
		zeros: splitRoots(scaleRoots(f.zeros, half), wo),
		poles: splitRoots(scaleRoots(f.poles, half), wo),
		gain:  f.gain * math.Pow(bw, float64(deg)),
	}
	out.zeros = appendRepeated(out.zeros, 0, deg)
	return out
}

func (f zpk) toBandstop(wo, bw float64) zpk {
	deg := f.degree()
	half := complex(bw/2, 0)
	out := zpk{
		zeros: splitRoots(invertRoots(f.zeros, half), wo),
		poles: splitRoots(invertRoots(f.poles, half), wo),
		gain:  f.gain * real(prodNeg(f.zeros)/prodNeg(f.poles)),
	}
	out.zeros = appendRepeated(out.zeros, complex(0, wo), deg)
	out.zeros = appendRepeated(out.zeros, complex(0, -wo), deg)
	return out
}

// bilinear maps an analog filter to the z-plane with s = 2*fs*(z-1)/(z+1).
func (f zpk) bilinear(fs float64) zpk {
	deg := f.degree()
	fs2 := complex(2*fs, 0)
	mapRoots := func(roots []complex128) []complex128 {
		out := make([]complex128, len(roots))
		for i, r := range roots {
			out[i] = (fs2 + r) / (fs2 - r)
		}
		return out
	}

	num, den := complex(1, 0), complex(1, 0)
	for _, z := range f.zeros {
		num *= fs2 - z
	}
	for _, p := range f.poles {
		den *= fs2 - p
	}

	out := zpk{
		zeros: mapRoots(f.zeros),
		poles: mapRoots(f.poles),
		gain:  f.gain * real(num/den),
	}
	out.zeros = appendRepeated(out.zeros, -1, deg)
	return out
}

// sections groups poles and zeros into biquads. Conjugate pole pairs and
// pairs of real poles each take the nearest remaining zeros. Sections are
// ordered with the poles closest to the unit circle last, and the overall
// gain is applied to the first section.
func (f zpk) sections() SOS {
	polePairs, poleReals := splitConjugates(f.poles)
	zeroPairs, zeroReals := splitConjugates(f.zeros)

	type group struct {
		poles []complex128
	}
	var groups []group
	for _, p := range polePairs {
		groups = append(groups, group{poles: []complex128{p, cmplx.Conj(p)}})
	}
	slices.SortFunc(poleReals, func(a, b float64) int {
		return cmp.Compare(math.Abs(b), math.Abs(a))
	})
	for i := 0; i < len(poleReals); i += 2 {
		if i+1 < len(poleReals) {
			groups = append(groups, group{poles: []complex128{complex(poleReals[i], 0), complex(poleReals[i+1], 0)}})
		} else {
			groups = append(groups, group{poles: []complex128{complex(poleReals[i], 0)}})
		}
	}

	// Pair starting from the poles nearest the unit circle.
	slices.SortStableFunc(groups, func(a, b group) int {
		return cmp.Compare(unitDistance(a.poles[0]), unitDistance(b.poles[0]))
	})

	sos := make(SOS, 0, len(groups))
	for _, g := range groups {
		var zs []complex128
		switch {
		case len(g.poles) == 2 && imag(g.poles[0]) != 0 && len(zeroPairs) > 0:
			var z complex128
			z, zeroPairs = takeNearestPair(zeroPairs, g.poles[0])
			zs = []complex128{z, cmplx.Conj(z)}
		case len(zeroReals) >= len(g.poles):
			for range g.poles {
				var z float64
				z, zeroReals = takeNearestReal(zeroReals, g.poles[0])
				zs = append(zs, complex(z, 0))
			}
		case len(g.poles) == 2 && len(zeroPairs) > 0:
			var z complex128
			z, zeroPairs = takeNearestPair(zeroPairs, g.poles[0])
			zs = []complex128{z, cmplx.Conj(z)}
		default:
			for len(zeroReals) > 0 && len(zs) < 2 {
				var z float64
				z, zeroReals = takeNearestReal(zeroReals, g.poles[0])
				zs = append(zs, complex(z, 0))
			}
		}

		var sec Section
		copy(sec[0:3], polyFromRoots(zs))
		copy(sec[3:6], polyFromRoots(g.poles))
		sos = append(sos, sec)
	}

	slices.Reverse(sos)
	if len(sos) > 0 {
		for i := range 3 {
			sos[0][i] *= f.gain
		}
	}
	return sos
}

// Response evaluates the cascade's frequency response at numPoints
// frequencies from 0 up to (but excluding) Nyquist.
func (s SOS) Response(numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}
	chain := biquad.NewChain(s.coefficients())
	resp := newResponse(numPoints)
	for k := range numPoints {
		freq := float64(k) / float64(2*numPoints)
		resp.Frequencies[k] = freq
		h := chain.Response(freq, 1)
		resp.Magnitude[k] = cmplx.Abs(h)
		resp.Phase[k] = cmplx.Phase(h)
	}
	return resp
}

func scaleRoots(roots []complex128, k complex128) []complex128 {
	out := make([]complex128, len(roots))
	for i, r := range roots {
		out[i] = r * k
	}
	return out
}

func invertRoots(roots []complex128, k complex128) []complex128 {
	out := make([]complex128, len(roots))
	for i, r := range roots {
		out[i] = k / r
	}
	return out
}

// splitRoots maps every root r to r ± sqrt(r² - wo²).
func splitRoots(roots []complex128, wo float64) []complex128 {
	out := make([]complex128, 0, 2*len(roots))
	wo2 := complex(wo*wo, 0)
	for _, r := range roots {
		out = append(out, r+cmplx.Sqrt(r*r-wo2))
	}
	for _, r := range roots {
		out = append(out, r-cmplx.Sqrt(r*r-wo2))
	}
	return out
}

func appendRepeated(roots []complex128, r complex128, n int) []complex128 {
	for range n {
		roots = append(roots, r)
	}
	return roots
}

// prodNeg returns the product of -r over roots.
func prodNeg(roots []complex128) complex128 {
	p := complex(1, 0)
	for _, r := range roots {
		p *= -r
	}
	return p
}

// splitConjugates returns the upper-half member of every conjugate pair and
// the real roots.
func splitConjugates(roots []complex128) (pairs []complex128, reals []float64) {
	for _, r := range roots {
		tol := realTolerance * math.Max(1, cmplx.Abs(r))
		switch {
		case math.Abs(imag(r)) <= tol:
			reals = append(reals, real(r))
		case imag(r) > 0:
			pairs = append(pairs, r)
		}
	}
	return pairs, reals
}

func unitDistance(p complex128) float64 { return math.Abs(1 - cmplx.Abs(p)) }

func takeNearestPair(pairs []complex128, to complex128) (complex128, []complex128) {
	best := 0
	for i, z := range pairs {
		if cmplx.Abs(z-to) < cmplx.Abs(pairs[best]-to) {
			best = i
		}
	}
	z := pairs[best]
	return z, slices.Delete(pairs, best, best+1)
}

func takeNearestReal(reals []float64, to complex128) (float64, []float64) {
	best := 0
	for i, z := range reals {
		if cmplx.Abs(complex(z, 0)-to) < cmplx.Abs(complex(reals[best], 0)-to) {
			best = i
		}
	}
	z := reals[best]
	return z, slices.Delete(reals, best, best+1)
}

// polyFromRoots expands up to two roots into [1, c1, c2]. Missing roots leave
// trailing coefficients at exactly zero.
func polyFromRoots(roots []complex128) []float64 {
	switch len(roots) {
	case 0:
		return []float64{1, 0, 0}
	case 1:
		return []float64{1, -real(roots[0]), 0}
	default:
		return []float64{1, -real(roots[0] + roots[1]), real(roots[0] * roots[1])}
	}
}
