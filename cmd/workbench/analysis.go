package main

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	workbench "github.com/tphakala/go-audio-workbench"
	"github.com/tphakala/go-audio-workbench/internal/spectrum"
)

// value is a float that encodes as JSON null when it is not finite, such as
// the -Inf level of a silent bin.
type value float64

func (v value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

type bin struct {
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Magnitude value   `json:"magnitude" yaml:"magnitude"`
}

type spectrumReport struct {
	Slot  string `json:"slot" yaml:"slot"`
	Scale string `json:"scale" yaml:"scale"`
	Bins  []bin  `json:"bins" yaml:"bins"`
}

func (a *app) newSpectrumCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "spectrum [input|output]",
		Short: "Show the magnitude spectrum of an artifact",
		Long: `spectrum prints the one-sided magnitude spectrum of an artifact, by default
Hamming-windowed and in dB. With --top only the strongest bins are shown,
strongest first; otherwise bins are listed in frequency order.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(workbench.Input), string(workbench.Output)},
		RunE: func(cmd *cobra.Command, args []string) error {
			slot := workbench.Input
			if len(args) == 1 {
				var err error
				if slot, err = workbench.ParseSlot(args[0]); err != nil {
					return err
				}
			}

			spec, err := a.wb.Spectrum(slot, a.cfg.SpectrumOptions())
			if err != nil {
				return err
			}
			report := spectrumReport{Slot: string(slot), Scale: spec.Scale.String(), Bins: strongest(*spec, top)}

			r := result{Data: report, Header: []string{"FREQUENCY_HZ", "MAGNITUDE"}}
			for _, b := range report.Bins {
				r.Rows = append(r.Rows, []string{ftoa(b.Frequency), ftoa(float64(b.Magnitude))})
			}
			return a.print(r)
		},
	}
	f := cmd.Flags()
	f.IntVar(&top, "top", 0, "show only the n strongest bins (0 shows all)")
	f.Bool("windowed", true, "apply the Hamming window")
	f.String("scale", "", "magnitude scale (linear, db)")
	f.Float64("floor-db", 0, "lowest reported level in dB (0 disables the floor)")
	return cmd
}

// strongest returns the top n bins by magnitude, or every bin when n <= 0.
func strongest(s spectrum.Spectrum, n int) []bin {
	bins := make([]bin, s.Len())
	for i := range bins {
		bins[i] = bin{Frequency: s.Frequencies[i], Magnitude: value(s.Magnitudes[i])}
	}
	if n <= 0 || n >= len(bins) {
		return bins
	}
	slices.SortStableFunc(bins, func(x, y bin) int { return cmp.Compare(y.Magnitude, x.Magnitude) })
	return bins[:n]
}

func (a *app) newLagCmd() *cobra.Command {
	var maxLag int
	cmd := &cobra.Command{
		Use:   "lag",
		Short: "Estimate the delay of the output artifact against the input",
		Long: `lag cross-correlates the two artifacts and reports the shift, in samples
and milliseconds, at which they line up best. Zero-phase filtering keeps
this at zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lag, err := a.wb.Alignment(maxLag)
			if err != nil {
				return err
			}
			in, err := a.wb.Inspect(workbench.Input)
			if err != nil {
				return err
			}
			ms := 0.0
			if in.SampleRate > 0 {
				ms = float64(lag) * 1000 / float64(in.SampleRate)
			}
			data := struct {
				Samples int     `json:"samples" yaml:"samples"`
				Millis  float64 `json:"milliseconds" yaml:"milliseconds"`
			}{lag, ms}
			return a.print(result{
				Data:   data,
				Header: []string{"LAG_SAMPLES", "LAG_MS"},
				Rows:   [][]string{{strconv.Itoa(lag), ftoa(ms)}},
			})
		},
	}
	cmd.Flags().IntVar(&maxLag, "max-lag", 1000, "largest shift searched, in samples")
	return cmd
}

type traceReport struct {
	Name   string    `json:"name" yaml:"name"`
	XLabel string    `json:"x_label" yaml:"x_label"`
	YLabel string    `json:"y_label" yaml:"y_label"`
	X      []float64 `json:"x" yaml:"x,flow"`
	Y      []value   `json:"y" yaml:"y,flow"`
}

func (a *app) newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Export the waveform and spectrum traces of both artifacts",
		Long: `plot renders both artifacts and their spectra as (x, y) traces. The table
format summarizes each trace; csv, json and yaml carry every point.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			view, err := a.wb.Snapshot(a.cfg.SpectrumOptions())
			if err != nil {
				return err
			}
			plot := workbench.Render(view)

			traces := make([]traceReport, len(plot.Traces))
			for i, t := range plot.Traces {
				y := make([]value, len(t.Y))
				for j, v := range t.Y {
					y[j] = value(v)
				}
				traces[i] = traceReport{Name: t.Name, XLabel: t.XLabel, YLabel: t.YLabel, X: t.X, Y: y}
			}

			r := result{Data: traces}
			if a.format == formatCSV {
				r.Header = []string{"TRACE", "X", "Y"}
				for _, t := range plot.Traces {
					for j := range t.X {
						r.Rows = append(r.Rows, []string{t.Name, ftoa(t.X[j]), ftoa(t.Y[j])})
					}
				}
				return a.print(r)
			}

			r.Header = []string{"TRACE", "POINTS", "X", "Y", "X_MIN", "X_MAX"}
			for _, t := range plot.Traces {
				lo, hi := 0.0, 0.0
				if len(t.X) > 0 {
					lo, hi = t.X[0], t.X[len(t.X)-1]
				}
				r.Rows = append(r.Rows, []string{
					t.Name, strconv.Itoa(len(t.X)), t.XLabel, t.YLabel, ftoa(lo), ftoa(hi),
				})
			}
			return a.print(r)
		},
	}
	cmd.Flags().Bool("windowed", true, "apply the Hamming window to the spectra")
	cmd.Flags().String("scale", "", "spectrum magnitude scale (linear, db)")
	cmd.Flags().Float64("floor-db", 0, "lowest reported level in dB (0 disables the floor)")
	return cmd
}
