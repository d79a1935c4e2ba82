package filter

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies the shape of a filter's passband.
type Kind int

// Band kinds. The zero Kind is deliberately invalid.
const (
	KindLowpass Kind = iota + 1
	KindHighpass
	KindBandpass
	KindBandstop
)

var kindNames = map[Kind]string{
	KindLowpass:  "lowpass",
	KindHighpass: "highpass",
	KindBandpass: "bandpass",
	KindBandstop: "bandstop",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Edges returns how many cutoff frequencies the kind takes.
func (k Kind) Edges() int {
	switch k {
	case KindBandpass, KindBandstop:
		return 2
	case KindLowpass, KindHighpass:
		return 1
	default:
		return 0
	}
}

// ParseKind parses "lowpass", "highpass", "bandpass" or "bandstop".
// The short forms "low", "high", "pass" and "stop" are accepted too.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lowpass", "low", "lp":
		return KindLowpass, nil
	case "highpass", "high", "hp":
		return KindHighpass, nil
	case "bandpass", "pass", "bp":
		return KindBandpass, nil
	case "bandstop", "stop", "bs", "notch":
		return KindBandstop, nil
	}
	return 0, fmt.Errorf("%w: unknown band type %q", ErrInvalidCutoff, s)
}

// Band is a filter specification: a kind plus one or two cutoffs in Hz.
// Bands are created with Lowpass, Highpass, Bandpass, Bandstop or NewBand.
type Band struct {
	kind Kind
	low  float64
	high float64
}

// Lowpass passes frequencies below cutoff Hz.
func Lowpass(cutoff float64) Band { return Band{kind: KindLowpass, low: cutoff} }

// Highpass passes frequencies above cutoff Hz.
func Highpass(cutoff float64) Band { return Band{kind: KindHighpass, low: cutoff} }

// Bandpass passes frequencies between low and high Hz.
func Bandpass(low, high float64) Band { return Band{kind: KindBandpass, low: low, high: high} }

// Bandstop rejects frequencies between low and high Hz.
func Bandstop(low, high float64) Band { return Band{kind: KindBandstop, low: low, high: high} }

// NewBand builds a band from a kind and the matching number of cutoffs.
func NewBand(kind Kind, cutoffs ...float64) (Band, error) {
	want := kind.Edges()
	if want == 0 {
		return Band{}, fmt.Errorf("%w: unknown band type %v", ErrInvalidCutoff, kind)
	}
	if len(cutoffs) != want {
		return Band{}, fmt.Errorf("%w: %s takes %d cutoff(s), got %d", ErrInvalidCutoff, kind, want, len(cutoffs))
	}
	if want == 1 {
		return Band{kind: kind, low: cutoffs[0]}, nil
	}
	return Band{kind: kind, low: cutoffs[0], high: cutoffs[1]}, nil
}

// Kind returns the band kind.
func (b Band) Kind() Kind { return b.kind }

// Cutoffs returns the band's cutoffs in Hz.
func (b Band) Cutoffs() []float64 {
	if b.kind.Edges() == 2 {
		return []float64{b.low, b.high}
	}
	return []float64{b.low}
}

// String formats the band for logs, e.g. "bandpass 300-3000 Hz".
func (b Band) String() string {
	switch b.kind.Edges() {
	case 1:
		return fmt.Sprintf("%s %g Hz", b.kind, b.low)
	case 2:
		return fmt.Sprintf("%s %g-%g Hz", b.kind, b.low, b.high)
	default:
		return "unspecified band"
	}
}

// Normalize divides the cutoffs by the Nyquist frequency. Every normalized
// value must lie in the open interval (0, 1) and two-edge bands must be
// strictly ascending.
func (b Band) Normalize(sampleRate int) ([]float64, error) {
	if b.kind.Edges() == 0 {
		return nil, fmt.Errorf("%w: unspecified band", ErrInvalidCutoff)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidCutoff, sampleRate)
	}

	nyquist := float64(sampleRate) / 2
	cutoffs := b.Cutoffs()
	wn := make([]float64, len(cutoffs))
	for i, hz := range cutoffs {
		w := hz / nyquist
		if math.IsNaN(w) || w <= 0 || w >= 1 {
			return nil, fmt.Errorf("%w: %g Hz must lie strictly between 0 and %g Hz", ErrInvalidCutoff, hz, nyquist)
		}
		wn[i] = w
	}
	if len(wn) == 2 && wn[0] >= wn[1] {
		return nil, fmt.Errorf("%w: low edge %g Hz must be below high edge %g Hz", ErrInvalidCutoff, b.low, b.high)
	}
	return wn, nil
}
