// Package transform implements the amplitude and time transforms: gain with
// hard clipping, and circular time shift.
package transform

import (
	"errors"
	"fmt"
	"math"
)

// Transform errors.
var (
	// ErrInvalidFactor is returned for a negative or non-finite gain factor.
	ErrInvalidFactor = errors.New("invalid scale factor")

	// ErrInvalidShift is returned for a time shift that is not finite or does
	// not fit a sample count.
	ErrInvalidShift = errors.New("invalid time shift")
)

// 16-bit PCM sample range.
const (
	MinSample = math.MinInt16
	MaxSample = math.MaxInt16
)

// ScaleReport describes the clipping performed by Scale.
type ScaleReport struct {
	// Clipped is the number of samples that fell outside the 16-bit range.
	Clipped int

	// Peak is the largest absolute scaled value before clipping.
	Peak float64
}

// Any reports whether any sample was clipped.
func (r ScaleReport) Any() bool { return r.Clipped > 0 }

// Scale multiplies every sample by factor, truncates toward zero and clips
// the result to [MinSample, MaxSample]. Values never wrap.
func Scale(samples []int, factor float64) ([]int, ScaleReport, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return nil, ScaleReport{}, fmt.Errorf("%w: %v (must be a finite value >= 0)", ErrInvalidFactor, factor)
	}

	var report ScaleReport
	out := make([]int, len(samples))
	for i, s := range samples {
		v := math.Trunc(float64(s) * factor)
		report.Peak = math.Max(report.Peak, math.Abs(v))
		switch {
		case v > MaxSample:
			v = MaxSample
			report.Clipped++
		case v < MinSample:
			v = MinSample
			report.Clipped++
		}
		out[i] = int(v)
	}
	return out, report, nil
}

// ShiftSamples converts a shift in milliseconds to whole samples, rounding
// half away from zero.
func ShiftSamples(sampleRate int, shiftMs float64) (int, error) {
	k := math.Round(shiftMs * float64(sampleRate) / 1000)
	if math.IsNaN(k) || k >= math.MaxInt64 || k < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v ms at %d Hz", ErrInvalidShift, shiftMs, sampleRate)
	}
	return int(k), nil
}

// TimeShift rotates samples circularly by ShiftSamples(sampleRate, shiftMs):
// out[i] = in[(i-k) mod L]. Samples pushed past the end wrap to the start.
func TimeShift(samples []int, sampleRate int, shiftMs float64) ([]int, error) {
	k, err := ShiftSamples(sampleRate, shiftMs)
	if err != nil {
		return nil, err
	}
	return Rotate(samples, k), nil
}

// Rotate returns samples rotated right by k (left for negative k).
func Rotate(samples []int, k int) []int {
	l := len(samples)
	out := make([]int, l)
	if l == 0 {
		return out
	}
	k %= l
	if k < 0 {
		k += l
	}
	copy(out[k:], samples[:l-k])
	copy(out[:k], samples[l-k:])
	return out
}
