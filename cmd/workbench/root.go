package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	workbench "github.com/tphakala/go-audio-workbench"
	"github.com/tphakala/go-audio-workbench/internal/config"
	"github.com/tphakala/go-audio-workbench/internal/logging"
)

// flagKeys maps command-line flags to their viper configuration keys.
var flagKeys = map[string]string{
	"assets-dir":         "assets.dir",
	"input-name":         "assets.input",
	"output-name":        "assets.output",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"rate":               "record.sample_rate",
	"channels":           "record.channels",
	"duration":           "record.duration",
	"windowed":           "analysis.window",
	"scale":              "analysis.scale",
	"floor-db":           "analysis.floor_db",
	"order":              "filter.order",
	"fir-window":         "filter.fir_window",
	"kaiser-attenuation": "filter.kaiser_attenuation",
}

// app carries what the subcommands share once flags are parsed.
type app struct {
	out        io.Writer
	configFile string
	format     string

	cfg    *config.Config
	logger *zap.Logger
	wb     *workbench.Workbench
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "workbench",
		Short: "Filter, transform and analyze audio artifacts",
		Long: `workbench keeps an input and an output WAV artifact in an asset directory.
Editing commands read the input artifact, filter, scale or shift it, and
replace the output artifact. Analysis commands inspect either artifact.

Filters run forward and backward, so the output stays time-aligned with the
input: Butterworth IIR filters are applied as second-order sections and FIR
filters use 101 windowed-sinc taps.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "",
		"config file (default is ./workbench.yaml, ./configs or $HOME/.config/workbench)")
	pf.String("assets-dir", "", "asset directory holding the artifacts")
	pf.String("input-name", "", "input artifact file name")
	pf.String("output-name", "", "output artifact file name")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (console, json)")
	pf.StringVarP(&a.format, "output", "o", formatTable,
		"output format (table, json, yaml, csv)")

	root.AddCommand(
		a.newGenerateCmd(),
		a.newImportCmd(),
		a.newInfoCmd(),
		a.newSpectrumCmd(),
		a.newLagCmd(),
		a.newPlotCmd(),
		a.newFilterCmd(),
		a.newScaleCmd(),
		a.newShiftCmd(),
		a.newTransformCmd(),
		a.newConfigCmd(),
	)
	return root
}

// setup loads configuration, builds the logger and opens the workbench.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(a.format); err != nil {
		return err
	}

	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}

	wb, err := workbench.New(&workbench.Config{
		Dir:        filepath.Clean(cfg.Assets.Dir),
		InputName:  cfg.Assets.Input,
		OutputName: cfg.Assets.Output,
		FIRWindow:  cfg.FIRWindow(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.wb = cfg, logger, wb
	return nil
}

// bindFlags binds every known flag of cmd, local and inherited, to its
// viper key. Flags left unset fall back to env, file and defaults.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	})
	return lastErr
}
