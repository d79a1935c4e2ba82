package workbench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-workbench/internal/testutil"
)

func sineSignal(rate, n int, freq, amp float64) Signal {
	return Signal{SampleRate: rate, Samples: testutil.SineInts(n, rate, freq, amp)}
}

func TestCutoffValidation(t *testing.T) {
	sig := sineSignal(RateCD, 4410, 440, 1000)

	tests := []struct {
		name string
		band Band
	}{
		{"zero cutoff", Lowpass(0)},
		{"cutoff at nyquist", Lowpass(RateCD / 2)},
		{"band reversed", Bandpass(5000, 3000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FilterIIR(sig, tt.band, 2)
			require.ErrorIs(t, err, ErrInvalidCutoff)

			_, err = FilterFIR(sig, tt.band)
			require.ErrorIs(t, err, ErrInvalidCutoff)
		})
	}
}

func TestFilterIIR_ZeroPhaseAlignment(t *testing.T) {
	// A tone well above the cutoff is attenuated but not delayed.
	in := sineSignal(RateTelephony, RateTelephony, 1500, 10000)
	out, err := FilterIIR(in, Lowpass(1000), 4)
	require.NoError(t, err)
	require.Equal(t, in.Len(), out.Len())

	assert.Less(t, testutil.RMS(out.Floats()), testutil.RMS(in.Floats())/10)
	assert.Zero(t, Lag(in, out, 2))
}

func TestFilterFIR_ZeroPhaseAlignment(t *testing.T) {
	in := sineSignal(RateTelephony, RateTelephony, 600, 10000)
	out, err := FilterFIR(in, Bandpass(400, 800))
	require.NoError(t, err)
	require.Equal(t, in.Len(), out.Len())
	assert.Zero(t, Lag(in, out, 5))
}

func TestFilterIIR_HighpassAttenuation(t *testing.T) {
	in := sineSignal(RateCD, RateCD, 1000, 10000)
	out, err := FilterIIR(in, Highpass(2000), 5)
	require.NoError(t, err)

	opts := SpectrumOptions{Window: true, Scale: DB, FloorDB: -300}
	before := Analyze(in, opts).At(1000)
	after := Analyze(out, opts).At(1000)
	assert.GreaterOrEqual(t, before-after, 20.0)
}

func TestFilterIIR_InvalidOrder(t *testing.T) {
	_, err := FilterIIR(sineSignal(RateDAT, 100, 100, 1), Lowpass(1000), 0)
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestFilterFIRWindow_Kaiser(t *testing.T) {
	in := sineSignal(RateVoIP, RateVoIP, 200, 8000)
	out, err := FilterFIRWindow(in, Lowpass(2000), Kaiser(80))
	require.NoError(t, err)
	assert.InDelta(t, testutil.RMS(in.Floats()), testutil.RMS(out.Floats()), 10)
}

func TestScaleSignal_Clipping(t *testing.T) {
	in := Signal{SampleRate: RateTelephony, Samples: []int{30000, -30000, 100}}
	out, report, err := ScaleSignal(in, 2.0)
	require.NoError(t, err)
	assert.Equal(t, []int{32767, -32768, 200}, out.Samples)
	assert.Equal(t, 2, report.Clipped)
	assert.Equal(t, RateTelephony, out.SampleRate)

	_, _, err = ScaleSignal(in, -0.5)
	require.ErrorIs(t, err, ErrInvalidFactor)
}

func TestShiftSignal_Wraparound(t *testing.T) {
	in := Signal{SampleRate: 1000, Samples: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}

	out, err := ShiftSignal(in, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 10, 1, 2, 3, 4, 5, 6, 7}, out.Samples)

	out, err = ShiftSignal(in, -2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 1, 2}, out.Samples)

	l := in.Len()
	k := 13
	out, err = ShiftSignal(in, float64(k))
	require.NoError(t, err)
	for i := range out.Samples {
		assert.Equal(t, in.Samples[((i-k)%l+l)%l], out.Samples[i])
	}
}

func TestShiftSignal_NonFinite(t *testing.T) {
	in := Signal{SampleRate: 1000, Samples: []int{1, 2, 3, 4, 5}}
	for _, ms := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		out, err := ShiftSignal(in, ms)
		require.ErrorIs(t, err, ErrInvalidShift, "%v ms", ms)
		assert.Zero(t, out.Len())
	}
}

func TestAnalyze_Shape(t *testing.T) {
	for _, n := range []int{1023, 1024} {
		spec := Analyze(sineSignal(RateDAT, n, 1000, 1000), DefaultSpectrumOptions())
		assert.Equal(t, n/2+1, spec.Len())
		assert.Len(t, spec.Magnitudes, spec.Len())
		testutil.AssertStrictlyAscending(t, spec.Frequencies)
		assert.Zero(t, spec.Frequencies[0])
	}
}

func TestSignal_Duration(t *testing.T) {
	sig := Signal{SampleRate: RateCD, Samples: make([]int, RateCD*2)}
	assert.InDelta(t, 2.0, sig.Duration().Seconds(), 1e-9)
	assert.False(t, math.IsNaN(sig.Duration().Seconds()))
}
