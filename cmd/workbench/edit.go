package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	workbench "github.com/tphakala/go-audio-workbench"
)

// editReport summarizes the output artifact written by an editing command.
type editReport struct {
	Operation string  `json:"operation" yaml:"operation"`
	Detail    string  `json:"detail" yaml:"detail"`
	Samples   int     `json:"samples" yaml:"samples"`
	Rate      int     `json:"sample_rate" yaml:"sample_rate"`
	Seconds   float64 `json:"seconds" yaml:"seconds"`
	Clipped   int     `json:"clipped" yaml:"clipped"`
}

func (a *app) printEdit(op, detail string, out workbench.Signal, report workbench.ScaleReport) error {
	e := editReport{
		Operation: op,
		Detail:    detail,
		Samples:   out.Len(),
		Rate:      out.SampleRate,
		Seconds:   out.Duration().Seconds(),
		Clipped:   report.Clipped,
	}
	return a.print(result{
		Data:   e,
		Header: []string{"OPERATION", "DETAIL", "SAMPLES", "RATE", "SECONDS", "CLIPPED"},
		Rows: [][]string{{
			e.Operation, e.Detail, strconv.Itoa(e.Samples), strconv.Itoa(e.Rate),
			ftoa(e.Seconds), strconv.Itoa(e.Clipped),
		}},
	})
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseBand parses "KIND CUTOFF [CUTOFF]" arguments.
func parseBand(args []string) (workbench.Band, error) {
	kind, err := workbench.ParseKind(args[0])
	if err != nil {
		return workbench.Band{}, err
	}
	cutoffs, err := parseFloats(args[1:])
	if err != nil {
		return workbench.Band{}, err
	}
	return workbench.NewBand(kind, cutoffs...)
}

func (a *app) newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter the input artifact into the output artifact",
		Long: `filter applies a zero-phase filter to the input artifact. The band is given
as a kind followed by its cutoffs in Hz:

  lowpass 1000
  highpass 200
  bandpass 300 3000
  bandstop 45 55`,
	}

	iir := &cobra.Command{
		Use:   "iir KIND CUTOFF [CUTOFF]",
		Short: "Butterworth filter applied forward and backward",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			band, err := parseBand(args)
			if err != nil {
				return err
			}
			order := a.cfg.Filter.Order
			out, err := a.wb.ApplyIIR(band, order)
			if err != nil {
				return err
			}
			return a.printEdit("iir", fmt.Sprintf("%s, order %d", band, order), out, workbench.ScaleReport{})
		},
	}
	iir.Flags().Int("order", 0, "Butterworth order")

	fir := &cobra.Command{
		Use:   "fir KIND CUTOFF [CUTOFF]",
		Short: "101-tap windowed-sinc filter applied forward and backward",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			band, err := parseBand(args)
			if err != nil {
				return err
			}
			out, err := a.wb.ApplyFIR(band)
			if err != nil {
				return err
			}
			return a.printEdit("fir", fmt.Sprintf("%s, %s window", band, a.cfg.FIRWindow()), out, workbench.ScaleReport{})
		},
	}
	fir.Flags().String("fir-window", "", "design window (hamming, kaiser)")
	fir.Flags().Float64("kaiser-attenuation", 0, "stopband attenuation in dB for the kaiser window")

	cmd.AddCommand(iir, fir)
	return cmd
}

func (a *app) newScaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scale FACTOR",
		Short: "Multiply the input artifact by a gain factor",
		Long: `scale multiplies every sample by FACTOR and clips the result to the 16-bit
range. The number of clipped samples is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			out, report, err := a.wb.Scale(v[0])
			if err != nil {
				return err
			}
			return a.printEdit("scale", "x"+args[0], out, report)
		},
	}
}

func (a *app) newShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shift MILLISECONDS",
		Short: "Rotate the input artifact in time",
		Long: `shift delays the input artifact by MILLISECONDS, rounded to whole samples.
Samples pushed past the end wrap around to the start; a negative value
advances the signal instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			out, err := a.wb.TimeShift(v[0])
			if err != nil {
				return err
			}
			return a.printEdit("shift", args[0]+" ms", out, workbench.ScaleReport{})
		},
	}
}

func (a *app) newTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform MILLISECONDS FACTOR",
		Short: "Shift and then scale the input artifact in one step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			out, report, err := a.wb.Transform(v[0], v[1])
			if err != nil {
				return err
			}
			return a.printEdit("transform", args[0]+" ms, x"+args[1], out, report)
		},
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.logger.Debug("printing configuration", zap.String("assets", a.cfg.Assets.Dir))
			enc := yaml.NewEncoder(a.out)
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
