// Package wavio reads and writes the workbench's WAV artifacts. Integer PCM
// goes through go-audio/wav and IEEE float data through cwbudde/wav. Every
// file is normalized to 16-bit PCM before it is read, and every write is
// staged in a temporary file and renamed into place.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	cwav "github.com/cwbudde/wav"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Signal Store errors.
var (
	// ErrNotFound is returned when an artifact path does not exist.
	ErrNotFound = errors.New("audio file not found")

	// ErrDecode is returned for unreadable or corrupt audio data.
	ErrDecode = errors.New("cannot decode audio")

	// ErrInvalidSignal is returned when asked to write an unusable signal.
	ErrInvalidSignal = errors.New("invalid signal")
)

const (
	// BitDepth is the sample width of every normalized artifact.
	BitDepth = 16

	wavFormatPCM   = 1
	wavFormatFloat = 3

	// Temp files are created next to the target so the rename stays on one
	// filesystem.
	tempPattern = ".wavio-*.tmp"

	fileMode fs.FileMode = 0o644
)

// acceptedRates are the sample rates a 16-bit file may have and still skip
// re-encoding.
var acceptedRates = []int{8000, 16000, 44100, 48000}

// AcceptedRate reports whether rate is one of the normalized sample rates.
func AcceptedRate(rate int) bool { return slices.Contains(acceptedRates, rate) }

// Signal is a mono sequence of 16-bit-range samples at a sample rate.
type Signal struct {
	SampleRate int
	Samples    []int
}

// Duration returns the signal length in time.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Info describes a WAV file's header.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Encoding   string
	Frames     int
	Duration   time.Duration
	Normalized bool
}

// decoded is the whole content of a WAV file converted to 16-bit range,
// interleaved.
type decoded struct {
	rate     int
	channels int
	bitDepth int
	format   uint16
	data     []int
}

// Load reads path as a mono Signal. The file is normalized first, and only
// the first channel of a multi-channel file is kept.
func Load(path string) (Signal, error) {
	if _, err := NormalizeFormat(path); err != nil {
		return Signal{}, err
	}

	d, err := decodeFile(path)
	if err != nil {
		return Signal{}, err
	}

	frames := len(d.data) / d.channels
	samples := make([]int, frames)
	for i := range frames {
		samples[i] = d.data[i*d.channels]
	}
	return Signal{SampleRate: d.rate, Samples: samples}, nil
}

// NormalizeFormat rewrites path as 16-bit PCM at its original sample rate and
// channel count unless it already is 16-bit PCM at an accepted rate. It
// returns path unchanged.
func NormalizeFormat(path string) (string, error) {
	info, err := Inspect(path)
	if err != nil {
		return "", err
	}
	if info.Normalized {
		return path, nil
	}

	d, err := decodeFile(path)
	if err != nil {
		return "", err
	}
	if err := SaveInterleaved(path, d.rate, d.channels, d.data); err != nil {
		return "", fmt.Errorf("normalize %s: %w", path, err)
	}
	return path, nil
}

// Inspect reads the header of path.
func Inspect(path string) (Info, error) {
	f, err := open(path)
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if err := headerError(dec); err != nil {
		return Info{}, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	info := Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Encoding:   "pcm",
	}
	if dec.WavAudioFormat == wavFormatFloat {
		info.Encoding = "float"
	}
	if err := dec.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	if frameBytes := info.Channels * info.BitDepth / 8; frameBytes > 0 {
		info.Frames = int(dec.PCMLen()) / frameBytes
		info.Duration = time.Duration(float64(info.Frames) / float64(info.SampleRate) * float64(time.Second))
	}
	info.Normalized = dec.WavAudioFormat == wavFormatPCM && info.BitDepth == BitDepth && AcceptedRate(info.SampleRate)
	return info, nil
}

// Save writes sig as mono 16-bit PCM. Samples are cast to int16 without
// clipping; callers clip beforehand when needed.
func Save(path string, sig Signal) error {
	return SaveInterleaved(path, sig.SampleRate, 1, sig.Samples)
}

// SaveInterleaved writes interleaved 16-bit frames, creating parent
// directories as needed. The file appears atomically.
func SaveInterleaved(path string, sampleRate, channels int, data []int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidSignal, sampleRate)
	}
	if channels < 1 || len(data)%channels != 0 {
		return fmt.Errorf("%w: %d samples do not form %d-channel frames", ErrInvalidSignal, len(data), channels)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	pcm := make([]int, len(data))
	for i, v := range data {
		pcm[i] = int(int16(v))
	}

	enc := wav.NewEncoder(tmp, sampleRate, BitDepth, channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           pcm,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	// CreateTemp opens with 0600, which the rename would keep.
	if err := tmp.Chmod(fileMode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	committed = true
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func headerError(dec *wav.Decoder) error {
	if err := dec.Err(); err != nil {
		return err
	}
	if dec.NumChans < 1 {
		return errors.New("no channels")
	}
	if dec.SampleRate == 0 {
		return errors.New("zero sample rate")
	}
	switch dec.WavAudioFormat {
	case wavFormatFloat:
		if dec.BitDepth != 32 && dec.BitDepth != 64 {
			return fmt.Errorf("unsupported float width %d", dec.BitDepth)
		}
	default:
		switch dec.BitDepth {
		case 8, 16, 24, 32:
		default:
			return fmt.Errorf("unsupported bit depth %d", dec.BitDepth)
		}
	}
	return nil
}

// decodeFile reads every sample of path scaled to the 16-bit range. A data
// chunk shorter than its header announces is an error.
func decodeFile(path string) (*decoded, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if err := headerError(dec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	d := &decoded{
		rate:     int(dec.SampleRate),
		channels: int(dec.NumChans),
		bitDepth: int(dec.BitDepth),
		format:   dec.WavAudioFormat,
	}

	var announced int64
	if d.format == wavFormatFloat {
		d.data, announced, err = decodeFloat(f)
	} else {
		d.data, err = readPCM(dec, d.bitDepth)
		announced = dec.PCMLen()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	want := int(announced) / ((d.bitDepth-1)/8 + 1)
	if len(d.data) < want {
		return nil, fmt.Errorf("%w: %s: data chunk truncated: %d of %d samples", ErrDecode, path, len(d.data), want)
	}
	d.data = d.data[:want-want%d.channels]
	return d, nil
}

func readPCM(dec *wav.Decoder, bitDepth int) ([]int, error) {
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	data := buf.Data
	for i, v := range data {
		switch bitDepth {
		case 8:
			data[i] = (v - 128) << 8
		case 24:
			data[i] = v >> 8
		case 32:
			data[i] = v >> 16
		}
	}
	return data, nil
}

// decodeFloat decodes the IEEE float data chunk of f with cwbudde/wav, which
// hands the samples back normalized and clamped to [-1, 1]. It returns the
// samples and the data chunk size from the header.
func decodeFloat(f io.ReadSeeker) ([]int, int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}
	dec := cwav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	out := make([]int, len(buf.Data))
	for i, v := range buf.Data {
		if math.IsNaN(float64(v)) {
			continue
		}
		out[i] = int(float64(v) * math.MaxInt16)
	}
	return out, dec.PCMLen(), nil
}
