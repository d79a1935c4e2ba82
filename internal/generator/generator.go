// Package generator synthesizes periodic test signals and converts them to
// 16-bit PCM frames for the recording hand-off.
package generator

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidParams is returned for unusable generator parameters.
var ErrInvalidParams = errors.New("invalid generator parameters")

// Waveform selects the shape of the generated signal.
type Waveform int

// Supported waveforms.
const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

var waveformNames = [...]string{"sine", "square", "triangle", "sawtooth"}

func (w Waveform) String() string {
	if int(w) >= 0 && int(w) < len(waveformNames) {
		return waveformNames[w]
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

// ParseWaveform parses a waveform name.
func ParseWaveform(s string) (Waveform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown waveform %q", ErrInvalidParams, s)
}

// Params describes a test signal. Amplitude and Offset are fractions of full
// scale; Phase is in radians.
type Params struct {
	Waveform   Waveform
	Frequency  float64
	Amplitude  float64
	Phase      float64
	Offset     float64
	Duration   time.Duration
	SampleRate int
}

// Validate checks that the parameters describe a finite, non-empty signal.
func (p Params) Validate() error {
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidParams, p.SampleRate)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration %v must be positive", ErrInvalidParams, p.Duration)
	}
	if p.Frequency < 0 || math.IsNaN(p.Frequency) || math.IsInf(p.Frequency, 0) {
		return fmt.Errorf("%w: frequency %v", ErrInvalidParams, p.Frequency)
	}
	if p.Amplitude < 0 || math.IsNaN(p.Amplitude) || math.IsInf(p.Amplitude, 0) {
		return fmt.Errorf("%w: amplitude %v", ErrInvalidParams, p.Amplitude)
	}
	if int(p.Waveform) < 0 || int(p.Waveform) >= len(waveformNames) {
		return fmt.Errorf("%w: waveform %v", ErrInvalidParams, p.Waveform)
	}
	return nil
}

// NumSamples returns int(rate * seconds).
func (p Params) NumSamples() int {
	return int(float64(p.SampleRate) * p.Duration.Seconds())
}

// Generate returns the signal sampled at t = i/SampleRate.
func Generate(p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.NumSamples()
	out := make([]float64, n)
	cyclesPerSample := p.Frequency / float64(p.SampleRate)
	phaseCycles := p.Phase / (2 * math.Pi)
	for i := range out {
		c := float64(i)*cyclesPerSample + phaseCycles
		var v float64
		switch p.Waveform {
		case Sine:
			v = math.Sin(2 * math.Pi * c)
		case Square:
			s := math.Sin(2 * math.Pi * c)
			switch {
			case s > 0:
				v = 1
			case s < 0:
				v = -1
			}
		case Triangle:
			v = 2*math.Abs(2*(c-math.Floor(c+0.5))) - 1
		case Sawtooth:
			v = 2 * (c - math.Floor(c+0.5))
		}
		out[i] = p.Amplitude*v + p.Offset
	}
	return out, nil
}

// ToPCM16 clamps x to [-1, 1] and scales it by 32767, truncating toward zero.
func ToPCM16(x []float64) []int {
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = int(math.Max(-1, math.Min(1, v)) * math.MaxInt16)
	}
	return out
}

// Interleave duplicates a mono sequence across channels, frame by frame.
func Interleave(mono []int, channels int) []int {
	if channels <= 1 {
		return append([]int(nil), mono...)
	}
	out := make([]int, 0, len(mono)*channels)
	for _, s := range mono {
		for range channels {
			out = append(out, s)
		}
	}
	return out
}
