// Package mathutil provides special functions used by FIR window design.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order zero.
//
// Below |x| = 3.75 the power-series polynomial is used, above it the
// exponentially scaled asymptotic polynomial. Relative error is around 1e-7,
// which is well below what a 16-bit signal path can resolve.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArgThreshold / ax
	poly := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	return math.Exp(ax) * poly / math.Sqrt(ax)
}

// KaiserBeta returns the Kaiser window β that yields roughly the requested
// stopband attenuation in dB:
//
//	att > 50:        β = 0.1102 * (att - 8.7)
//	21 <= att <= 50: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//	att < 21:        β = 0 (rectangular)
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserBetaHighCoeff * (attenuation - kaiserBetaHighShift)
	case attenuation >= kaiserAttMedium:
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	default:
		return 0.0
	}
}
