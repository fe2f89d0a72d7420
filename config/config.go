// Package config loads the picker settings from a YAML file, SEISPICK_*
// environment variables and command line flags, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/normalize"
	"github.com/cwbudde/algo-pick/peak"
	"github.com/cwbudde/algo-pick/preprocess"
	"github.com/cwbudde/algo-pick/report"
	"github.com/cwbudde/algo-pick/scan"
	"github.com/cwbudde/algo-pick/score"
	"github.com/cwbudde/algo-pick/score/remote"
)

// EnvPrefix prefixes environment overrides: model.url is read from
// SEISPICK_MODEL_URL.
const EnvPrefix = "SEISPICK"

// Model addresses the remote classifier. Windows are sent in requests of
// BatchSize windows; 0 sends all windows of a group at once.
type Model struct {
	URL       string        `mapstructure:"url" yaml:"url"`
	Name      string        `mapstructure:"name" yaml:"name"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	BatchSize int           `mapstructure:"batch_size" yaml:"batch_size"`
}

// Window sets the window length and hop in samples.
type Window struct {
	Features int `mapstructure:"features" yaml:"features"`
	Shift    int `mapstructure:"shift" yaml:"shift"`
}

// Normalization names the normalize scope ("global", "per-channel") and
// zero policy ("keep", "fail").
type Normalization struct {
	Scope string `mapstructure:"scope" yaml:"scope"`
	Zero  string `mapstructure:"zero" yaml:"zero"`
}

// Restore places window scores on the sample axis. Fill is "hold" or
// "zero".
type Restore struct {
	Offset int    `mapstructure:"offset" yaml:"offset"`
	Fill   string `mapstructure:"fill" yaml:"fill"`
}

// Peak configures the peak detector.
type Peak struct {
	Distance   int     `mapstructure:"distance" yaml:"distance"`
	HalfWindow int     `mapstructure:"half_window" yaml:"half_window"`
	Threshold  float64 `mapstructure:"threshold" yaml:"threshold"`
}

// Preprocess configures trace conditioning ahead of the scan.
type Preprocess struct {
	Detrend    bool    `mapstructure:"detrend" yaml:"detrend"`
	Filter     bool    `mapstructure:"filter" yaml:"filter"`
	Highpass   float64 `mapstructure:"highpass" yaml:"highpass"`
	Order      int     `mapstructure:"order" yaml:"order"`
	ZeroPhase  bool    `mapstructure:"zero_phase" yaml:"zero_phase"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// Report configures the pick file.
type Report struct {
	Output    string `mapstructure:"output" yaml:"output"`
	Precision int    `mapstructure:"precision" yaml:"precision"`
	UpperCase bool   `mapstructure:"upper_case" yaml:"upper_case"`
}

// Config is the complete picker configuration.
type Config struct {
	LogLevel string   `mapstructure:"log_level" yaml:"log_level"`
	Classes  []string `mapstructure:"classes" yaml:"classes"`
	Targets  []string `mapstructure:"targets" yaml:"targets"`

	Model         Model         `mapstructure:"model" yaml:"model"`
	Window        Window        `mapstructure:"window" yaml:"window"`
	Normalization Normalization `mapstructure:"normalization" yaml:"normalization"`
	Restore       Restore       `mapstructure:"restore" yaml:"restore"`
	Peak          Peak          `mapstructure:"peak" yaml:"peak"`
	Preprocess    Preprocess    `mapstructure:"preprocess" yaml:"preprocess"`
	Report        Report        `mapstructure:"report" yaml:"report"`
}

// SetDefaults registers every key with its default on v. Environment
// overrides only apply to registered keys.
func SetDefaults(v *viper.Viper) {
	sc := scan.DefaultConfig()
	pp := preprocess.DefaultConfig()
	rf := report.DefaultFormatter()

	v.SetDefault("log_level", "info")
	v.SetDefault("classes", []string{"P", "S", "N"})
	v.SetDefault("targets", []string{"P", "S"})

	v.SetDefault("model.url", "http://localhost:8501")
	v.SetDefault("model.name", "seismo")
	v.SetDefault("model.timeout", remote.DefaultTimeout)
	v.SetDefault("model.batch_size", 0)

	v.SetDefault("window.features", sc.Features)
	v.SetDefault("window.shift", sc.Shift)

	v.SetDefault("normalization.scope", sc.Normalization.Scope.String())
	v.SetDefault("normalization.zero", sc.Normalization.Zero.String())

	v.SetDefault("restore.offset", sc.Restore.Offset)
	v.SetDefault("restore.fill", sc.Restore.Fill.String())

	v.SetDefault("peak.distance", sc.Peak.Distance)
	v.SetDefault("peak.half_window", sc.Peak.HalfWindow)
	v.SetDefault("peak.threshold", sc.Peak.Threshold)

	v.SetDefault("preprocess.detrend", pp.Detrend)
	v.SetDefault("preprocess.filter", pp.Filter)
	v.SetDefault("preprocess.highpass", pp.Highpass)
	v.SetDefault("preprocess.order", pp.Order)
	v.SetDefault("preprocess.zero_phase", pp.ZeroPhase)
	v.SetDefault("preprocess.sample_rate", pp.SampleRate)

	v.SetDefault("report.output", "picks.txt")
	v.SetDefault("report.precision", rf.Precision)
	v.SetDefault("report.upper_case", rf.UpperCase)
}

// Load reads the configuration into v and decodes it. With an empty path
// a seispick.yaml in the working directory is used when present.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("seispick")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("%w: config: %w", core.ErrConfiguration, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(err)
	}
	return c
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: config: %w", core.ErrConfiguration, err)
	}
	classes, err := c.ClassSet()
	if err != nil {
		return err
	}
	for _, label := range c.Targets {
		if _, ok := classes.Lookup(label); !ok {
			return fmt.Errorf("%w: config: target %q is not one of %v", core.ErrConfiguration, label, c.Classes)
		}
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("%w: config: model timeout must be > 0: %s", core.ErrConfiguration, c.Model.Timeout)
	}
	if _, err := c.ScanConfig(); err != nil {
		return err
	}
	if err := c.PreprocessConfig().Validate(); err != nil {
		return err
	}
	if err := c.Formatter().Validate(); err != nil {
		return err
	}
	if c.Report.Output == "" {
		return fmt.Errorf("%w: config: empty report output", core.ErrConfiguration)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

// ClassSet returns the classifier classes in column order.
func (c Config) ClassSet() (score.ClassSet, error) {
	return score.NewClassSet(c.Classes...)
}

// ScanConfig maps the window, normalization, restore and peak sections.
func (c Config) ScanConfig() (scan.Config, error) {
	scope, err := normalize.ParseScope(c.Normalization.Scope)
	if err != nil {
		return scan.Config{}, err
	}
	zero, err := normalize.ParseZeroPolicy(c.Normalization.Zero)
	if err != nil {
		return scan.Config{}, err
	}
	fill, err := score.ParseFill(c.Restore.Fill)
	if err != nil {
		return scan.Config{}, err
	}

	sc := scan.Config{
		Features:      c.Window.Features,
		Shift:         c.Window.Shift,
		BatchSize:     c.Model.BatchSize,
		Normalization: normalize.Config{Scope: scope, Zero: zero},
		Restore:       scan.RestoreConfig{Offset: c.Restore.Offset, Fill: fill},
		Peak: peak.Detector{
			Distance:   c.Peak.Distance,
			HalfWindow: c.Peak.HalfWindow,
			Threshold:  c.Peak.Threshold,
		},
		Targets: append([]string(nil), c.Targets...),
	}
	if err := sc.Validate(); err != nil {
		return scan.Config{}, err
	}
	return sc, nil
}

// PreprocessConfig maps the preprocess section.
func (c Config) PreprocessConfig() preprocess.Config {
	return preprocess.Config{
		Detrend:    c.Preprocess.Detrend,
		Filter:     c.Preprocess.Filter,
		Highpass:   c.Preprocess.Highpass,
		Order:      c.Preprocess.Order,
		ZeroPhase:  c.Preprocess.ZeroPhase,
		SampleRate: c.Preprocess.SampleRate,
	}
}

// Formatter maps the report section.
func (c Config) Formatter() report.Formatter {
	return report.Formatter{Precision: c.Report.Precision, UpperCase: c.Report.UpperCase}
}

// Scorer returns the remote classifier client.
func (c Config) Scorer() (*remote.Client, error) {
	return remote.New(c.Model.URL, c.Model.Name, remote.WithTimeout(c.Model.Timeout))
}

// Dump writes c as YAML.
func Dump(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return enc.Close()
}
