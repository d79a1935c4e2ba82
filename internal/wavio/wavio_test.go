package wavio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cwav "github.com/cwbudde/wav"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV encodes data with go-audio/wav at an arbitrary integer bit depth.
func writeWAV(t *testing.T, path string, rate, bitDepth, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, rate, bitDepth, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

// writeFloatWAV encodes data as IEEE float WAV with cwbudde/wav.
func writeFloatWAV(t *testing.T, path string, rate, bitDepth, channels int, data []float32) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := cwav.NewEncoder(f, rate, bitDepth, channels, wavFormatFloat)
	require.NoError(t, enc.Write(&audio.Float32Buffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.wav")
	sig := Signal{SampleRate: 44100, Samples: []int{0, 1, -1, 32767, -32768, 1234}}

	require.NoError(t, Save(path, sig))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitDepth)
	assert.Equal(t, "pcm", info.Encoding)
	assert.True(t, info.Normalized)
}

func TestSave_TruncatesWithoutClipping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrap.wav")
	require.NoError(t, Save(path, Signal{SampleRate: 8000, Samples: []int{32768, -32769, 65536 + 5}}))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{-32768, 32767, 5}, got.Samples)
}

func TestSave_Invalid(t *testing.T) {
	dir := t.TempDir()
	err := Save(filepath.Join(dir, "x.wav"), Signal{SampleRate: 0, Samples: []int{1}})
	require.ErrorIs(t, err, ErrInvalidSignal)

	err = SaveInterleaved(filepath.Join(dir, "y.wav"), 8000, 2, []int{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidSignal)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed writes leave nothing behind")
}

func TestLoad_MonoProjection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	left := []int{10, 20, 30, 40, 50}
	right := []int{-1, -2, -3, -4, -5}
	data := make([]int, 0, 10)
	for i := range left {
		data = append(data, left[i], right[i])
	}
	require.NoError(t, SaveInterleaved(path, 48000, 2, data))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, got.SampleRate)
	assert.Equal(t, left, got.Samples)
}

func TestNormalizeFormat_Idempotent(t *testing.T) {
	for _, rate := range acceptedRates {
		path := filepath.Join(t.TempDir(), "in.wav")
		require.NoError(t, Save(path, Signal{SampleRate: rate, Samples: []int{5, -5, 100, -100}}))
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		got, err := NormalizeFormat(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after, "rate %d: normalized file must not be rewritten", rate)
	}
}

func TestNormalizeFormat_24Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hi-res.wav")
	writeWAV(t, path, 48000, 24, 2, []int{256000, -256000, 256, 0, 8388607, -8388608})

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.False(t, info.Normalized)

	_, err = NormalizeFormat(path)
	require.NoError(t, err)

	info, err = Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 16, info.BitDepth)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 48000, info.SampleRate)
	assert.True(t, info.Normalized)

	sig, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1000, 1, 32767}, sig.Samples)
}

func TestNormalizeFormat_UnacceptedRateKeepsRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd-rate.wav")
	require.NoError(t, Save(path, Signal{SampleRate: 22050, Samples: []int{1, 2, 3}}))

	_, err := NormalizeFormat(path)
	require.NoError(t, err)

	sig, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, sig.SampleRate)
	assert.Equal(t, []int{1, 2, 3}, sig.Samples)
}

func TestLoad_Float(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.wav")
	writeFloatWAV(t, path, 16000, 32, 1, []float32{0, 0.5, -0.5, 1, -1, 2})

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "float", info.Encoding)
	assert.False(t, info.Normalized)

	sig, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, sig.SampleRate)
	assert.Equal(t, []int{0, 16383, -16383, 32767, -32767, 32767}, sig.Samples)

	info, err = Inspect(path)
	require.NoError(t, err)
	assert.True(t, info.Normalized)
}

func TestLoad_Float64Stereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float64.wav")
	writeFloatWAV(t, path, 48000, 64, 2, []float32{0.25, 9, -0.25, 9, -2, 9})

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 64, info.BitDepth)
	assert.Equal(t, 3, info.Frames)

	sig, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{8191, -8191, -32767}, sig.Samples)
}

func TestLoad_TruncatedData(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		write func(path string)
	}{
		{"pcm16", func(path string) { writeWAV(t, path, 8000, 16, 1, make([]int, 1000)) }},
		{"pcm24", func(path string) { writeWAV(t, path, 8000, 24, 1, make([]int, 1000)) }},
		{"float", func(path string) { writeFloatWAV(t, path, 8000, 32, 1, make([]float32, 1000)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".wav")
			tt.write(path)
			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, raw[:len(raw)-999], 0o644))

			_, err = Load(path)
			require.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestSave_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, Save(path, Signal{SampleRate: 8000, Samples: []int{1, 2, 3}}))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), st.Mode().Perm())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.wav"))
	require.ErrorIs(t, err, ErrNotFound)

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte(strings.Repeat("not a wav file ", 10)), 0o644))
	_, err = Load(garbage)
	require.ErrorIs(t, err, ErrDecode)

	empty := filepath.Join(dir, "empty.wav")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Load(empty)
	require.ErrorIs(t, err, ErrDecode)
}

func TestSignalDuration(t *testing.T) {
	sig := Signal{SampleRate: 8000, Samples: make([]int, 4000)}
	assert.InDelta(t, 0.5, sig.Duration().Seconds(), 1e-9)
	assert.Zero(t, Signal{}.Duration())
}

func TestContainerFor(t *testing.T) {
	assert.Equal(t, ContainerMP3, ContainerFor("song.MP3"))
	assert.Equal(t, ContainerOgg, ContainerFor("a.oga"))
	assert.Equal(t, ContainerOgg, ContainerFor("a.ogg"))
	assert.Equal(t, ContainerWAV, ContainerFor("take.wav"))
	assert.Equal(t, ContainerWAV, ContainerFor("noext"))
}

func TestTranscode_Corrupt(t *testing.T) {
	dir := t.TempDir()
	for _, c := range []Container{ContainerMP3, ContainerOgg} {
		target := filepath.Join(dir, "out.wav")
		err := Transcode(target, c, bytes.NewReader([]byte("definitely not compressed audio")))
		require.ErrorIs(t, err, ErrDecode)
		_, statErr := os.Stat(target)
		assert.True(t, os.IsNotExist(statErr))
	}
}
