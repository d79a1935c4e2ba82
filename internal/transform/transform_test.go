package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name        string
		in          []int
		factor      float64
		want        []int
		wantClipped int
	}{
		{"unity", []int{-3, 0, 7}, 1, []int{-3, 0, 7}, 0},
		{"half truncates toward zero", []int{-3, 3, 5}, 0.5, []int{-1, 1, 2}, 0},
		{"zero", []int{100, -100}, 0, []int{0, 0}, 0},
		{"positive clip", []int{30000}, 2.0, []int{32767}, 1},
		{"negative clip", []int{-30000, 1000}, 2.0, []int{-32768, 2000}, 1},
		{"boundaries kept", []int{32767, -32768}, 1, []int{32767, -32768}, 0},
		{"empty", []int{}, 3, []int{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report, err := Scale(tt.in, tt.factor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClipped, report.Clipped)
			assert.Equal(t, tt.wantClipped > 0, report.Any())
		})
	}
}

func TestScale_NeverWraps(t *testing.T) {
	in := []int{30000, -30000, 20000, 32767}
	got, report, err := Scale(in, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{32767, -32768, 32767, 32767}, got)
	assert.Equal(t, 4, report.Clipped)
	assert.InDelta(t, 327670.0, report.Peak, 1e-9)
}

func TestScale_InvalidFactor(t *testing.T) {
	for _, f := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, _, err := Scale([]int{1}, f)
		assert.ErrorIs(t, err, ErrInvalidFactor, "factor %v", f)
	}
}

func TestTimeShift_Wraparound(t *testing.T) {
	in := make([]int, 1000)
	for i := range in {
		in[i] = i
	}

	tests := []struct {
		name    string
		rate    int
		shiftMs float64
		k       int
	}{
		{"none", 8000, 0, 0},
		{"forward", 8000, 10, 80},
		{"backward", 8000, -5, -40},
		{"rounds", 44100, 1, 44},
		{"rounds half away from zero", 1000, 2.5, 3},
		{"longer than signal", 8000, 250, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ShiftSamples(tt.rate, tt.shiftMs)
			require.NoError(t, err)
			assert.Equal(t, tt.k, k)

			out, err := TimeShift(in, tt.rate, tt.shiftMs)
			require.NoError(t, err)
			require.Len(t, out, len(in))
			l := len(in)
			for i := range out {
				j := ((i-tt.k)%l + l) % l
				require.Equal(t, in[j], out[i], "index %d", i)
			}
		})
	}
}

func TestTimeShift_NonFinite(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	for _, ms := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300} {
		_, err := ShiftSamples(1000, ms)
		require.ErrorIs(t, err, ErrInvalidShift, "%v ms", ms)

		out, err := TimeShift(in, 1000, ms)
		require.ErrorIs(t, err, ErrInvalidShift, "%v ms", ms)
		assert.Nil(t, out)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, in)
}

func TestRotate_Empty(t *testing.T) {
	assert.Empty(t, Rotate(nil, 5))
	assert.Equal(t, []int{3, 1, 2}, Rotate([]int{1, 2, 3}, 1))
	assert.Equal(t, []int{2, 3, 1}, Rotate([]int{1, 2, 3}, -1))
}
