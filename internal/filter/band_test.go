package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandNormalize(t *testing.T) {
	tests := []struct {
		name    string
		band    Band
		rate    int
		want    []float64
		wantErr bool
	}{
		{"lowpass valid", Lowpass(2000), 8000, []float64{0.5}, false},
		{"highpass valid", Highpass(11025), 44100, []float64{0.5}, false},
		{"bandpass valid", Bandpass(1000, 3000), 8000, []float64{0.25, 0.75}, false},
		{"bandstop valid", Bandstop(400, 600), 16000, []float64{0.05, 0.075}, false},
		{"zero cutoff", Lowpass(0), 44100, nil, true},
		{"negative cutoff", Highpass(-10), 44100, nil, true},
		{"cutoff at nyquist", Lowpass(22050), 44100, nil, true},
		{"cutoff above nyquist", Lowpass(30000), 44100, nil, true},
		{"band reversed", Bandpass(5000, 3000), 44100, nil, true},
		{"band equal edges", Bandstop(3000, 3000), 44100, nil, true},
		{"band upper at nyquist", Bandpass(1000, 4000), 8000, nil, true},
		{"zero band", Band{}, 44100, nil, true},
		{"zero sample rate", Lowpass(1000), 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.band.Normalize(tt.rate)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCutoff)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"lowpass", KindLowpass},
		{"HighPass", KindHighpass},
		{" bandpass ", KindBandpass},
		{"stop", KindBandstop},
		{"notch", KindBandstop},
		{"lp", KindLowpass},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("allpass")
	assert.ErrorIs(t, err, ErrInvalidCutoff)
}

func TestNewBand(t *testing.T) {
	b, err := NewBand(KindBandpass, 300, 3000)
	require.NoError(t, err)
	assert.Equal(t, Bandpass(300, 3000), b)
	assert.Equal(t, []float64{300, 3000}, b.Cutoffs())
	assert.Equal(t, "bandpass 300-3000 Hz", b.String())

	b, err = NewBand(KindHighpass, 120)
	require.NoError(t, err)
	assert.Equal(t, Highpass(120), b)
	assert.Equal(t, "highpass 120 Hz", b.String())

	_, err = NewBand(KindLowpass, 100, 200)
	require.ErrorIs(t, err, ErrInvalidCutoff)

	_, err = NewBand(KindBandstop, 100)
	require.ErrorIs(t, err, ErrInvalidCutoff)

	_, err = NewBand(Kind(0), 100)
	require.ErrorIs(t, err, ErrInvalidCutoff)
}
