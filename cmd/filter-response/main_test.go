package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-workbench/internal/filter"
)

func TestHalfPower_ButterworthCutoff(t *testing.T) {
	sos, err := filter.DesignButterworth(filter.Lowpass(1000), 4, 8000)
	require.NoError(t, err)

	hz, ok := halfPower(sos.Response(responseResolution), 8000)
	require.True(t, ok)
	assert.InDelta(t, 1000, hz, 2)
}

func TestParseBand(t *testing.T) {
	band, err := parseBand([]string{"bp", "300", "3000"})
	require.NoError(t, err)
	assert.Equal(t, filter.KindBandpass, band.Kind())
	assert.Equal(t, []float64{300, 3000}, band.Cutoffs())

	_, err = parseBand([]string{"lowpass", "x"})
	require.Error(t, err)

	_, err = parseBand([]string{"lowpass", "1", "2"})
	require.ErrorIs(t, err, filter.ErrInvalidCutoff)
}

func TestRun(t *testing.T) {
	require.NoError(t, run([]string{"--rate", "8000", "--points", "4", "highpass", "200"}))
	require.NoError(t, run([]string{"--type", "fir", "--window", "kaiser", "bandstop", "45", "55"}))

	require.Error(t, run([]string{"lowpass"}))
	require.ErrorIs(t, run([]string{"--rate", "8000", "lowpass", "4000"}), filter.ErrInvalidCutoff)
	require.Error(t, run([]string{"--type", "cheby", "lowpass", "100"}))
}
