package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-workbench/internal/testutil"
)

func TestAnalyze_BinCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 1},
		{2, 2},
		{7, 4},
		{8, 5},
		{1000, 501},
		{1001, 501},
	}
	for _, tt := range tests {
		samples := testutil.Sine(tt.n, 8000, 440, 1)
		for _, opts := range []Options{{}, DefaultOptions()} {
			spec := Analyze(samples, 8000, opts)
			assert.Equal(t, tt.want, spec.Len(), "n=%d opts=%+v", tt.n, opts)
			assert.Len(t, spec.Magnitudes, spec.Len())
			assert.Zero(t, spec.Frequencies[0])
			testutil.AssertStrictlyAscending(t, spec.Frequencies)
		}
	}
}

func TestAnalyze_Empty(t *testing.T) {
	spec := Analyze(nil, 44100, DefaultOptions())
	assert.Zero(t, spec.Len())
	assert.NotNil(t, spec.Frequencies)
}

func TestAnalyze_PeakAtToneFrequency(t *testing.T) {
	const rate = 8000
	samples := testutil.Sine(rate, rate, 1000, 1)

	spec := Analyze(samples, rate, Options{Scale: Linear})
	hz, mag := spec.Peak()
	assert.InDelta(t, 1000.0, hz, 1e-9)
	// A full-scale bin-centred tone has magnitude N/2 without a window.
	assert.InDelta(t, rate/2.0, mag, 1e-6)

	assert.InDelta(t, 1.0, spec.Frequencies[1], 1e-12, "bin spacing is rate/N")
}

func TestAnalyze_Window(t *testing.T) {
	const rate = 8000
	// An off-bin tone leaks far less with the Hamming window.
	samples := testutil.Sine(1000, rate, 1234.5, 1)

	plain := Analyze(samples, rate, Options{Scale: DB})
	windowed := Analyze(samples, rate, Options{Window: true, Scale: DB})

	far := 3000.0
	assert.Less(t, windowed.At(far), plain.At(far)-15)
}

func TestAnalyze_DBOfSilence(t *testing.T) {
	silent := make([]float64, 16)

	spec := Analyze(silent, 8000, Options{Scale: DB})
	for _, m := range spec.Magnitudes {
		assert.True(t, math.IsInf(m, -1), "silence is -Inf dB without a floor")
	}

	spec = Analyze(silent, 8000, Options{Scale: DB, FloorDB: -120})
	for _, m := range spec.Magnitudes {
		assert.InDelta(t, -120.0, m, 1e-9)
	}
}

func TestParseScale(t *testing.T) {
	s, err := ParseScale("dB")
	require.NoError(t, err)
	assert.Equal(t, DB, s)

	s, err = ParseScale("linear")
	require.NoError(t, err)
	assert.Equal(t, Linear, s)

	_, err = ParseScale("log")
	require.ErrorIs(t, err, ErrInvalidScale)
}

func TestLag(t *testing.T) {
	ref := testutil.Sine(2000, 8000, 300, 1)
	for i := range ref {
		// Break periodicity with a decaying envelope.
		ref[i] *= math.Exp(-float64(i) / 500)
	}

	tests := []struct {
		name  string
		shift int
	}{
		{"aligned", 0},
		{"delayed", 7},
		{"advanced", -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := make([]float64, len(ref))
			for i := range x {
				j := i - tt.shift
				if j >= 0 && j < len(ref) {
					x[i] = ref[j]
				}
			}
			assert.Equal(t, tt.shift, Lag(ref, x, 20))
		})
	}

	assert.Zero(t, Lag(nil, ref, 10))
}
