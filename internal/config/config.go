// Package config loads workbench settings with viper from defaults, an
// optional workbench.yaml, WORKBENCH_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/tphakala/go-audio-workbench/internal/filter"
	"github.com/tphakala/go-audio-workbench/internal/logging"
	"github.com/tphakala/go-audio-workbench/internal/spectrum"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	// EnvPrefix prefixes environment overrides, e.g. WORKBENCH_ASSETS_DIR.
	EnvPrefix = "WORKBENCH"

	// FileName is the config file base name searched for.
	FileName = "workbench"
)

// Config holds every workbench setting.
type Config struct {
	Assets   AssetsConfig   `mapstructure:"assets" yaml:"assets" json:"assets"`
	Record   RecordConfig   `mapstructure:"record" yaml:"record" json:"record"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" json:"analysis"`
	Filter   FilterConfig   `mapstructure:"filter" yaml:"filter" json:"filter"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

// AssetsConfig locates the artifacts.
type AssetsConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Input  string `mapstructure:"input" yaml:"input" json:"input"`
	Output string `mapstructure:"output" yaml:"output" json:"output"`
}

// RecordConfig describes captured or generated input.
type RecordConfig struct {
	SampleRate int           `mapstructure:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	Channels   int           `mapstructure:"channels" yaml:"channels" json:"channels"`
	Duration   time.Duration `mapstructure:"duration" yaml:"duration" json:"duration"`
}

// AnalysisConfig sets the spectrum defaults.
type AnalysisConfig struct {
	Window  bool    `mapstructure:"window" yaml:"window" json:"window"`
	Scale   string  `mapstructure:"scale" yaml:"scale" json:"scale"`
	FloorDB float64 `mapstructure:"floor_db" yaml:"floor_db" json:"floor_db"`
}

// FilterConfig sets the filter defaults.
type FilterConfig struct {
	Order             int     `mapstructure:"order" yaml:"order" json:"order"`
	FIRWindow         string  `mapstructure:"fir_window" yaml:"fir_window" json:"fir_window"`
	KaiserAttenuation float64 `mapstructure:"kaiser_attenuation" yaml:"kaiser_attenuation" json:"kaiser_attenuation"`
}

// LogConfig sets up logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("assets.dir", "assets")
	v.SetDefault("assets.input", "input.wav")
	v.SetDefault("assets.output", "output.wav")

	v.SetDefault("record.sample_rate", 44100)
	v.SetDefault("record.channels", 2)
	v.SetDefault("record.duration", "5s")

	v.SetDefault("analysis.window", true)
	v.SetDefault("analysis.scale", "db")
	v.SetDefault("analysis.floor_db", 0.0)

	v.SetDefault("filter.order", 2)
	v.SetDefault("filter.fir_window", "hamming")
	v.SetDefault("filter.kaiser_attenuation", filter.DefaultKaiserAttenuation)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)
}

// NewViper returns a viper instance with defaults and environment overrides.
// When configFile is empty, workbench.yaml is searched for in the current
// directory, ./configs and $HOME/.config/workbench; a missing file is not an
// error, but an explicitly named one is.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", FileName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not validate: %v", err))
	}
	return cfg
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Assets.Dir == "" {
		errs = append(errs, errors.New("assets.dir must not be empty"))
	}
	if c.Assets.Input == "" || c.Assets.Output == "" {
		errs = append(errs, errors.New("assets.input and assets.output must not be empty"))
	} else if filepath.Clean(c.Assets.Input) == filepath.Clean(c.Assets.Output) {
		errs = append(errs, errors.New("assets.input and assets.output must differ"))
	}
	if c.Record.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("record.sample_rate %d must be positive", c.Record.SampleRate))
	}
	if c.Record.Channels < 1 {
		errs = append(errs, fmt.Errorf("record.channels %d must be at least 1", c.Record.Channels))
	}
	if c.Record.Duration <= 0 {
		errs = append(errs, fmt.Errorf("record.duration %v must be positive", c.Record.Duration))
	}
	if _, err := spectrum.ParseScale(c.Analysis.Scale); err != nil {
		errs = append(errs, fmt.Errorf("analysis.scale: %w", err))
	}
	if c.Analysis.FloorDB > 0 {
		errs = append(errs, fmt.Errorf("analysis.floor_db %g must not be positive", c.Analysis.FloorDB))
	}
	if c.Filter.Order < 1 {
		errs = append(errs, fmt.Errorf("filter.order %d must be at least 1", c.Filter.Order))
	}
	if _, err := filter.ParseWindow(c.Filter.FIRWindow, c.Filter.KaiserAttenuation); err != nil {
		errs = append(errs, fmt.Errorf("filter.fir_window: %w", err))
	}
	if c.Filter.KaiserAttenuation < 0 {
		errs = append(errs, fmt.Errorf("filter.kaiser_attenuation %g must not be negative", c.Filter.KaiserAttenuation))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be console or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SpectrumOptions returns the analysis defaults.
func (c *Config) SpectrumOptions() spectrum.Options {
	scale, _ := spectrum.ParseScale(c.Analysis.Scale)
	return spectrum.Options{Window: c.Analysis.Window, Scale: scale, FloorDB: c.Analysis.FloorDB}
}

// FIRWindow returns the configured FIR design window.
func (c *Config) FIRWindow() filter.Window {
	w, err := filter.ParseWindow(c.Filter.FIRWindow, c.Filter.KaiserAttenuation)
	if err != nil {
		return filter.Hamming
	}
	return w
}
