// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"Game_Duration_Trend_Project/application/source"
	"Game_Duration_Trend_Project/application/trend"
)

// Config holds every knob of a run. Command-line flags override file values.
type Config struct {
	Series   SeriesConfig    `yaml:"series"`
	Database source.DBConfig `yaml:"database"`
	// Where loaded series are cached, empty disables the cache
	CacheDir string `yaml:"cache_dir"`

	// Trend specification, "linear" or a knot list such as "1960,1990"
	Spec string `yaml:"spec"`
	// Specifications ranked by the compare command
	Candidates []string `yaml:"candidates"`

	Horizon        int       `yaml:"horizon"`
	Levels         []float64 `yaml:"levels"`
	IntervalMethod string    `yaml:"interval_method"`

	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`

	// Directory for CSV and JSON output, empty prints only
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
	Pretty    bool   `yaml:"pretty"`
}

type SeriesConfig struct {
	Name           string `yaml:"name"`
	CSV            string `yaml:"csv"`
	YearColumn     string `yaml:"year_column"`
	DurationColumn string `yaml:"duration_column"`
	// SQL query returning year, duration, aux... ordered by year
	Query string `yaml:"query"`
}

type DiagnosticsConfig struct {
	MaxLag                      int     `yaml:"max_lag"`
	HeteroscedasticityThreshold float64 `yaml:"heteroscedasticity_threshold"`
	SkewnessThreshold           float64 `yaml:"skewness_threshold"`
	OmittedThreshold            float64 `yaml:"omitted_threshold"`
	NonlinearityThreshold       float64 `yaml:"nonlinearity_threshold"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Series: SeriesConfig{
			Name:           "CLE",
			YearColumn:     "year",
			DurationColumn: "duration",
		},
		Spec:           "linear",
		Candidates:     []string{"linear"},
		Horizon:        10,
		Levels:         []float64{0.80, 0.95},
		IntervalMethod: trend.ConstantSigma.String(),
		Diagnostics: DiagnosticsConfig{
			HeteroscedasticityThreshold: trend.DefaultHeteroscedasticityThreshold,
			SkewnessThreshold:           trend.DefaultSkewnessThreshold,
			OmittedThreshold:            trend.DefaultOmittedThreshold,
			NonlinearityThreshold:       trend.DefaultNonlinearityThreshold,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads path over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that can be checked without data.
func (c Config) Validate() error {
	if c.Series.CSV == "" && c.Database.Driver == "" {
		return errors.New("no series source: set series.csv or database.driver")
	}
	if c.Database.Driver != "" {
		if c.Database.Driver != "postgres" && c.Database.Driver != "mysql" {
			return fmt.Errorf("%w: %q", source.ErrBadDriver, c.Database.Driver)
		}
		if c.Series.Query == "" {
			return errors.New("database source needs series.query")
		}
	}
	if _, err := trend.ParseSpec(c.Spec); err != nil {
		return err
	}
	for _, s := range c.Candidates {
		if _, err := trend.ParseSpec(s); err != nil {
			return err
		}
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("%w: got %d", trend.ErrInvalidHorizon, c.Horizon)
	}
	for _, l := range c.Levels {
		if !(l > 0 && l < 1) {
			return fmt.Errorf("%w: got %g", trend.ErrInvalidLevel, l)
		}
	}
	if _, err := trend.ParseIntervalMethod(c.IntervalMethod); err != nil {
		return err
	}
	return nil
}

// TrendConfig converts the file-level settings into the pipeline's config.
func (c Config) TrendConfig() (trend.Config, error) {
	spec, err := trend.ParseSpec(c.Spec)
	if err != nil {
		return trend.Config{}, err
	}
	method, err := trend.ParseIntervalMethod(c.IntervalMethod)
	if err != nil {
		return trend.Config{}, err
	}
	return trend.Config{
		Spec: spec,
		Diagnostics: trend.DiagnosticsOptions{
			MaxLag:                      c.Diagnostics.MaxLag,
			HeteroscedasticityThreshold: c.Diagnostics.HeteroscedasticityThreshold,
			SkewnessThreshold:           c.Diagnostics.SkewnessThreshold,
			OmittedThreshold:            c.Diagnostics.OmittedThreshold,
			NonlinearityThreshold:       c.Diagnostics.NonlinearityThreshold,
		},
		Forecast: trend.ForecastOptions{
			Horizon: c.Horizon,
			Levels:  c.Levels,
			Method:  method,
		},
	}, nil
}

// CandidateSpecs parses the compare candidates.
func (c Config) CandidateSpecs() ([]trend.Spec, error) {
	specs := make([]trend.Spec, 0, len(c.Candidates))
	for _, s := range c.Candidates {
		spec, err := trend.ParseSpec(s)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
