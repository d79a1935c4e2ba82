package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// go-mp3 always produces interleaved stereo.
const mp3Channels = 2

// Container identifies an uploaded file's format.
type Container int

// Supported upload containers.
const (
	ContainerWAV Container = iota
	ContainerMP3
	ContainerOgg
)

// ContainerFor picks a container from a file name's extension. Unknown
// extensions are treated as WAV and rejected later if they do not decode.
func ContainerFor(name string) Container {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return ContainerMP3
	case ".ogg", ".oga":
		return ContainerOgg
	default:
		return ContainerWAV
	}
}

// Transcode decodes a compressed upload and writes it to path as 16-bit PCM
// with the source's rate and channel count.
func Transcode(path string, c Container, r io.Reader) error {
	var (
		rate, channels int
		data           []int
		err            error
	)
	switch c {
	case ContainerMP3:
		rate, channels, data, err = decodeMP3(r)
	case ContainerOgg:
		rate, channels, data, err = decodeOgg(r)
	default:
		return fmt.Errorf("%w: container %d needs no transcoding", ErrDecode, c)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return SaveInterleaved(path, rate, channels, data)
}

func decodeMP3(r io.Reader) (rate, channels int, data []int, err error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return 0, 0, nil, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return 0, 0, nil, err
	}

	// 16-bit little-endian PCM.
	data = make([]int, len(raw)/2)
	for i := range data {
		data[i] = int(int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8))
	}
	data = data[:len(data)-len(data)%mp3Channels]
	return dec.SampleRate(), mp3Channels, data, nil
}

func decodeOgg(r io.Reader) (rate, channels int, data []int, err error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return 0, 0, nil, err
	}
	if format.Channels < 1 {
		return 0, 0, nil, errors.New("no channels")
	}

	data = make([]int, len(samples)-len(samples)%format.Channels)
	for i := range data {
		data[i] = int(math.Max(-1, math.Min(1, float64(samples[i]))) * math.MaxInt16)
	}
	return format.SampleRate, format.Channels, data, nil
}
