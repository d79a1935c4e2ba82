package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	workbench "github.com/tphakala/go-audio-workbench"
	"github.com/tphakala/go-audio-workbench/internal/generator"
)

// infoReport is the printable form of an artifact header.
type infoReport struct {
	Slot       string  `json:"slot" yaml:"slot"`
	Path       string  `json:"path" yaml:"path"`
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Channels   int     `json:"channels" yaml:"channels"`
	BitDepth   int     `json:"bit_depth" yaml:"bit_depth"`
	Encoding   string  `json:"encoding" yaml:"encoding"`
	Frames     int     `json:"frames" yaml:"frames"`
	Seconds    float64 `json:"seconds" yaml:"seconds"`
	Normalized bool    `json:"normalized" yaml:"normalized"`
}

func infoResult(reports ...infoReport) result {
	r := result{
		Data:   reports,
		Header: []string{"SLOT", "RATE", "CHANNELS", "BITS", "ENCODING", "FRAMES", "SECONDS", "NORMALIZED", "PATH"},
	}
	for _, i := range reports {
		r.Rows = append(r.Rows, []string{
			i.Slot,
			strconv.Itoa(i.SampleRate),
			strconv.Itoa(i.Channels),
			strconv.Itoa(i.BitDepth),
			i.Encoding,
			strconv.Itoa(i.Frames),
			ftoa(i.Seconds),
			strconv.FormatBool(i.Normalized),
			i.Path,
		})
	}
	return r
}

func (a *app) inspect(slot workbench.Slot) (infoReport, error) {
	info, err := a.wb.Inspect(slot)
	if err != nil {
		return infoReport{}, err
	}
	path, err := a.wb.Path(slot)
	if err != nil {
		return infoReport{}, err
	}
	return infoReport{
		Slot:       string(slot),
		Path:       path,
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
		BitDepth:   info.BitDepth,
		Encoding:   info.Encoding,
		Frames:     info.Frames,
		Seconds:    info.Duration.Seconds(),
		Normalized: info.Normalized,
	}, nil
}

func (a *app) newGenerateCmd() *cobra.Command {
	var (
		waveform  string
		frequency float64
		amplitude float64
		phase     float64
		offset    float64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize a test signal into the input artifact",
		Long: `generate synthesizes a sine, square, triangle or sawtooth wave and stores
it as the input artifact, in place of a recording. Rate, channel count and
duration default to the record settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := generator.ParseWaveform(waveform)
			if err != nil {
				return err
			}
			rec := a.cfg.Record
			x, err := generator.Generate(generator.Params{
				Waveform:   wf,
				Frequency:  frequency,
				Amplitude:  amplitude,
				Phase:      phase,
				Offset:     offset,
				Duration:   rec.Duration,
				SampleRate: rec.SampleRate,
			})
			if err != nil {
				return err
			}
			frames := generator.Interleave(generator.ToPCM16(x), rec.Channels)
			if err := a.wb.Record(rec.SampleRate, rec.Channels, frames); err != nil {
				return err
			}
			report, err := a.inspect(workbench.Input)
			if err != nil {
				return err
			}
			return a.print(infoResult(report))
		},
	}
	f := cmd.Flags()
	f.StringVar(&waveform, "waveform", "sine", "waveform (sine, square, triangle, sawtooth)")
	f.Float64Var(&frequency, "frequency", 440, "frequency in Hz")
	f.Float64Var(&amplitude, "amplitude", 0.5, "amplitude as a fraction of full scale")
	f.Float64Var(&phase, "phase", 0, "phase in radians")
	f.Float64Var(&offset, "offset", 0, "DC offset as a fraction of full scale")
	f.Int("rate", 0, "sample rate in Hz")
	f.Int("channels", 0, "channel count")
	f.Duration("duration", time.Duration(0), "signal duration")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the input artifact with a WAV, MP3 or Ogg Vorbis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open upload: %w", err)
			}
			defer func() { _ = f.Close() }()

			if err := a.wb.Import(filepath.Base(args[0]), f); err != nil {
				return err
			}
			report, err := a.inspect(workbench.Input)
			if err != nil {
				return err
			}
			return a.print(infoResult(report))
		},
	}
}

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "info [input|output]",
		Short:     "Show the header of one or both artifacts",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(workbench.Input), string(workbench.Output)},
		RunE: func(cmd *cobra.Command, args []string) error {
			slots := []workbench.Slot{workbench.Input, workbench.Output}
			if len(args) == 1 {
				slot, err := workbench.ParseSlot(args[0])
				if err != nil {
					return err
				}
				slots = []workbench.Slot{slot}
			}

			var reports []infoReport
			for _, slot := range slots {
				report, err := a.inspect(slot)
				if err != nil {
					return err
				}
				reports = append(reports, report)
			}
			return a.print(infoResult(reports...))
		},
	}
}
