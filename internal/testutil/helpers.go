// Package testutil provides reusable test helpers for the workbench packages.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// DefaultTolerance is the absolute tolerance for exact-arithmetic checks.
const DefaultTolerance = 1e-10

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric at i=%d: s[%d]=%f != s[%d]=%f", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertStrictlyAscending verifies that every element is greater than the previous one.
func AssertStrictlyAscending(t *testing.T, s []float64) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return assert.Fail(t, "not strictly ascending",
				"s[%d]=%f <= s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertDCGain verifies that the sum of coefficients equals the expected DC gain.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// Sine returns n samples of amp*sin(2πf·i/rate).
func Sine(n, rate int, freq, amp float64) []float64 {
	out := make([]float64, n)
	omega := 2 * math.Pi * freq / float64(rate)
	for i := range out {
		out[i] = amp * math.Sin(omega*float64(i))
	}
	return out
}

// SineInts is Sine truncated to integer samples.
func SineInts(n, rate int, freq, amp float64) []int {
	f := Sine(n, rate, freq, amp)
	out := make([]int, n)
	for i, v := range f {
		out[i] = int(v)
	}
	return out
}

// RMS returns the root mean square of s.
func RMS(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}
