// Command filter-response prints the frequency response of the filters the
// workbench designs, so a band can be checked before it is applied.
//
// Usage:
//
//	filter-response lowpass 1000
//	filter-response --type fir --window kaiser bandpass 300 3000
//	filter-response --rate 8000 --order 6 --points 32 highpass 200
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/tphakala/go-audio-workbench/internal/filter"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("filter-response", pflag.ContinueOnError)
	var (
		typ         = fs.String("type", "iir", "Filter type: iir (Butterworth) or fir (101-tap windowed sinc)")
		rate        = fs.Int("rate", defaultRate, "Sample rate in Hz")
		order       = fs.Int("order", defaultOrder, "Butterworth order (iir only)")
		window      = fs.String("window", "hamming", "FIR design window: hamming or kaiser")
		attenuation = fs.Float64("attenuation", filter.DefaultKaiserAttenuation, "Kaiser stopband attenuation in dB")
		points      = fs.Int("points", defaultPoints, "Number of response rows to print")
		coeffs      = fs.Bool("coefficients", false, "Print the designed coefficients")
	)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: filter-response [options] KIND CUTOFF [CUTOFF]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < minArgs {
		fs.Usage()
		return fmt.Errorf("insufficient arguments")
	}

	band, err := parseBand(fs.Args())
	if err != nil {
		return err
	}

	var resp filter.FilterResponse
	switch *typ {
	case "iir":
		sos, err := filter.DesignButterworth(band, *order, *rate)
		if err != nil {
			return err
		}
		fmt.Printf("Butterworth %s, order %d, %d Hz\n", band, *order, *rate)
		fmt.Printf("  Sections: %d\n", len(sos))
		if *coeffs {
			for i, sec := range sos {
				fmt.Printf("  [%d] b=%.10g %.10g %.10g  a=%.10g %.10g %.10g\n",
					i, sec[0], sec[1], sec[2], sec[3], sec[4], sec[5])
			}
		}
		resp = sos.Response(responseResolution)
	case "fir":
		win, err := filter.ParseWindow(*window, *attenuation)
		if err != nil {
			return err
		}
		taps, err := filter.DesignFIR(band, *rate, win)
		if err != nil {
			return err
		}
		fmt.Printf("FIR %s, %d taps, %s window, %d Hz\n", band, len(taps), win, *rate)
		if *coeffs {
			for i, h := range taps {
				fmt.Printf("  h[%3d] = %.10g\n", i, h)
			}
		}
		resp = filter.ComputeFrequencyResponse(taps, responseResolution)
	default:
		return fmt.Errorf("unknown filter type %q", *typ)
	}

	// Magnitudes are squared by the forward-backward pass.
	fmt.Println("\nZero-phase response (forward and backward):")
	fmt.Printf("  %10s  %12s\n", "Hz", "Gain (dB)")
	nyquist := float64(*rate) / 2
	rows := max(*points, 2)
	for i := range rows {
		f := float64(i) / float64(rows-1) * 0.5
		fmt.Printf("  %10.1f  %12.3f\n", f*float64(*rate), 2*filter.MagnitudeDB(resp.At(f)))
	}

	fmt.Println("\nGain at cutoffs:")
	for _, c := range band.Cutoffs() {
		db := 2 * filter.MagnitudeDB(resp.At(c/float64(*rate)))
		fmt.Printf("  %10.1f Hz: %8.3f dB\n", c, db)
	}
	if hz, ok := halfPower(resp, float64(*rate)); ok {
		fmt.Printf("\nFirst single-pass -3 dB crossing: %.1f Hz (Nyquist %.0f Hz)\n", hz, nyquist)
	}
	return nil
}

func parseBand(args []string) (filter.Band, error) {
	kind, err := filter.ParseKind(args[0])
	if err != nil {
		return filter.Band{}, err
	}
	cutoffs := make([]float64, 0, len(args)-1)
	for _, s := range args[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return filter.Band{}, fmt.Errorf("invalid cutoff %q: %w", s, err)
		}
		cutoffs = append(cutoffs, v)
	}
	return filter.NewBand(kind, cutoffs...)
}

// halfPower returns the first frequency where the single-pass gain crosses
// -3 dB, interpolated between response points.
func halfPower(resp filter.FilterResponse, rate float64) (float64, bool) {
	for i := 1; i < len(resp.Magnitude); i++ {
		a := filter.MagnitudeDB(resp.Magnitude[i-1]) - halfPowerDB
		b := filter.MagnitudeDB(resp.Magnitude[i]) - halfPowerDB
		if math.Signbit(a) == math.Signbit(b) {
			continue
		}
		t := a / (a - b)
		f := resp.Frequencies[i-1] + t*(resp.Frequencies[i]-resp.Frequencies[i-1])
		return f * rate, true
	}
	return 0, false
}
