// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"Game_Duration_Trend_Project/application/report"
	"Game_Duration_Trend_Project/application/source"
	"Game_Duration_Trend_Project/application/trend"
)

// =============================================================================
// FLAGS
// =============================================================================

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "csv", Usage: "CSV file with year, duration and auxiliary columns"},
		&cli.StringFlag{Name: "name", Usage: "Series name used in reports"},
		&cli.StringFlag{Name: "year-column", Usage: "CSV column holding the year"},
		&cli.StringFlag{Name: "duration-column", Usage: "CSV column holding the duration"},
		&cli.StringFlag{Name: "db-driver", Usage: "Database driver (postgres, mysql)"},
		&cli.StringFlag{Name: "db-dsn", Usage: "Database DSN", EnvVars: []string{"GAMETREND_DB_DSN"}},
		&cli.StringFlag{Name: "query", Usage: "SQL returning year, duration, aux... ordered by year"},
		&cli.StringFlag{Name: "cache-dir", Usage: "Directory caching loaded series"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Directory for CSV and JSON output"},
	}
}

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "horizon", Usage: "Years to forecast"},
		&cli.Float64SliceFlag{Name: "level", Usage: "Interval coverage, repeatable (e.g. 0.8, 0.95)"},
		&cli.StringFlag{Name: "interval", Usage: "Interval method (constant-sigma, prediction-variance)"},
		&cli.IntFlag{Name: "max-lag", Usage: "Largest ACF lag, 0 picks min(10, n/4)"},
	}
}

// runConfig takes the config loaded in Before and applies the command's flags.
func runConfig(c *cli.Context) (Config, error) {
	cfg, ok := c.App.Metadata[configKey].(Config)
	if !ok {
		cfg = DefaultConfig()
	}

	str := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	str("csv", &cfg.Series.CSV)
	str("name", &cfg.Series.Name)
	str("year-column", &cfg.Series.YearColumn)
	str("duration-column", &cfg.Series.DurationColumn)
	str("db-driver", &cfg.Database.Driver)
	str("db-dsn", &cfg.Database.DSN)
	str("query", &cfg.Series.Query)
	str("cache-dir", &cfg.CacheDir)
	str("out", &cfg.OutputDir)
	str("spec", &cfg.Spec)
	str("interval", &cfg.IntervalMethod)

	if c.IsSet("horizon") {
		cfg.Horizon = c.Int("horizon")
	}
	if c.IsSet("level") {
		cfg.Levels = c.Float64Slice("level")
	}
	if c.IsSet("max-lag") {
		cfg.Diagnostics.MaxLag = c.Int("max-lag")
	}
	if c.IsSet("candidate") {
		cfg.Candidates = c.StringSlice("candidate")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// ANALYZE COMMAND
// =============================================================================

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Fit one trend specification, diagnose its residuals and forecast",
		Flags: append(append(sourceFlags(), modelFlags()...),
			&cli.StringFlag{Name: "spec", Aliases: []string{"s"}, Usage: `"linear" or knot years such as 1960,1990`},
		),
		Action: func(c *cli.Context) error {
			// 1. Settings
			cfg, err := runConfig(c)
			if err != nil {
				return err
			}
			tcfg, err := cfg.TrendConfig()
			if err != nil {
				return err
			}

			// 2. Load the series
			s, err := loadSeries(c.Context, cfg)
			if err != nil {
				return err
			}

			// 3. Fit, diagnose, forecast
			a, err := trend.Analyze(s, tcfg)
			if err != nil {
				return err
			}
			log.Info().Str("series", s.Name).Stringer("spec", tcfg.Spec).
				Float64("aic", a.Model.AIC).Ints("significant_lags", a.Diagnostics.SignificantLags).
				Msg("analysis complete")

			// 4. Print
			w := c.App.Writer
			report.PrintModel(w, a.Model)
			report.PrintDiagnostics(w, a.Diagnostics)
			report.PrintForecast(w, a.Forecast)

			// 5. Output files
			return writeAnalyses(cfg, s.Name, []*trend.Analysis{a})
		},
	}
}

// =============================================================================
// COMPARE COMMAND
// =============================================================================

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Rank candidate specifications by AIC and analyze each one that fits",
		Flags: append(append(sourceFlags(), modelFlags()...),
			&cli.StringSliceFlag{Name: "candidate", Usage: "Candidate specification, repeatable"},
		),
		Action: func(c *cli.Context) error {
			// 1. Settings
			cfg, err := runConfig(c)
			if err != nil {
				return err
			}
			tcfg, err := cfg.TrendConfig()
			if err != nil {
				return err
			}
			specs, err := cfg.CandidateSpecs()
			if err != nil {
				return err
			}

			// 2. Load the series
			s, err := loadSeries(c.Context, cfg)
			if err != nil {
				return err
			}

			// 3. Rank
			cands := trend.Compare(s, specs...)
			report.PrintComparison(c.App.Writer, cands)

			best := trend.Best(cands)
			if best == nil {
				return fmt.Errorf("no candidate specification could be fit to %s", s.Name)
			}
			log.Info().Stringer("best", best.Spec).Float64("aic", best.Model.AIC).Msg("specifications ranked")

			// 4. Analyze every candidate that fit, best first
			var fitted []trend.Spec
			for _, cand := range cands {
				if cand.Err == nil {
					fitted = append(fitted, cand.Spec)
				} else {
					log.Warn().Stringer("spec", cand.Spec).Err(cand.Err).Msg("candidate skipped")
				}
			}
			analyses, err := trend.AnalyzeAll(c.Context, s, fitted, tcfg)
			if err != nil {
				return err
			}

			w := c.App.Writer
			report.PrintModel(w, analyses[0].Model)
			report.PrintDiagnostics(w, analyses[0].Diagnostics)
			report.PrintForecast(w, analyses[0].Forecast)

			// 5. Output files
			return writeAnalyses(cfg, s.Name, analyses)
		},
	}
}

// =============================================================================
// FORECAST COMMAND
// =============================================================================

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Fit one specification and print its forecast only",
		Flags: append(append(sourceFlags(), modelFlags()...),
			&cli.StringFlag{Name: "spec", Aliases: []string{"s"}, Usage: `"linear" or knot years such as 1960,1990`},
		),
		Action: func(c *cli.Context) error {
			// 1. Settings
			cfg, err := runConfig(c)
			if err != nil {
				return err
			}
			tcfg, err := cfg.TrendConfig()
			if err != nil {
				return err
			}

			// 2. Load the series
			s, err := loadSeries(c.Context, cfg)
			if err != nil {
				return err
			}

			// 3. Fit and forecast
			m, err := trend.Fit(s, tcfg.Spec)
			if err != nil {
				return fmt.Errorf("fit %s: %w", tcfg.Spec, err)
			}
			fc, err := trend.Forecast(m, tcfg.Forecast)
			if err != nil {
				return fmt.Errorf("forecast %s: %w", tcfg.Spec, err)
			}

			// 4. Print
			report.PrintForecast(c.App.Writer, fc)

			// 5. Output file
			if cfg.OutputDir == "" {
				return nil
			}
			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return err
			}
			path := outputPath(cfg.OutputDir, s.Name, tcfg.Spec, "forecast.csv")
			if err := report.WriteForecastCSV(path, fc); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("forecast written")
			return nil
		},
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// loadSeries builds the loader chain for cfg: SQL or CSV, behind the cache if
// one is configured. The database is only opened on a cache miss.
func loadSeries(ctx context.Context, cfg Config) (*trend.Series, error) {
	var (
		loader source.Loader
		origin string
	)
	if cfg.Database.Driver != "" {
		origin = cfg.Database.Driver + ":" + cfg.Series.Query
		loader = source.LoaderFunc(func(ctx context.Context) (*trend.Series, error) {
			db, err := source.OpenDB(ctx, cfg.Database)
			if err != nil {
				return nil, err
			}
			defer db.Close()
			sl := &source.SQLLoader{DB: db, Query: cfg.Series.Query, Name: cfg.Series.Name}
			return sl.Load(ctx)
		})
	} else {
		origin = cfg.Series.CSV
		loader = &source.CSVLoader{
			Path:           cfg.Series.CSV,
			Name:           cfg.Series.Name,
			YearColumn:     cfg.Series.YearColumn,
			DurationColumn: cfg.Series.DurationColumn,
		}
	}

	if cfg.CacheDir != "" {
		loader = &source.Cache{Dir: cfg.CacheDir, Key: cacheKey(cfg.Series.Name, origin), Next: loader}
	}

	s, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load series %s: %w", cfg.Series.Name, err)
	}
	first, last := s.YearRange()
	log.Info().Str("series", s.Name).Int("records", s.Len()).
		Int("first_year", first).Int("last_year", last).Strs("aux", s.AuxNames).
		Msg("series loaded")
	return s, nil
}

// cacheKey names a cache entry after the series and a stable hash of where it came from.
func cacheKey(name, origin string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(origin))
	return fileSafe(name) + "-" + id.String()[:8]
}

// writeAnalyses writes fitted, forecast and ACF CSVs per analysis plus one JSON document.
func writeAnalyses(cfg Config, series string, analyses []*trend.Analysis) error {
	if cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	for _, a := range analyses {
		spec := a.Model.Spec
		if err := report.WriteFittedCSV(outputPath(cfg.OutputDir, series, spec, "fitted.csv"), a.Model); err != nil {
			return err
		}
		if err := report.WriteForecastCSV(outputPath(cfg.OutputDir, series, spec, "forecast.csv"), a.Forecast); err != nil {
			return err
		}
		if err := report.WriteACFCSV(outputPath(cfg.OutputDir, series, spec, "acf.csv"), a.Diagnostics); err != nil {
			return err
		}
	}

	doc := report.NewDocument(series, analyses)
	path := filepath.Join(cfg.OutputDir, fileSafe(series)+"_analysis.json")
	if err := report.WriteJSON(path, doc); err != nil {
		return err
	}
	log.Info().Str("run_id", doc.RunID).Str("dir", cfg.OutputDir).Int("analyses", len(analyses)).Msg("reports written")
	return nil
}

func outputPath(dir, series string, spec trend.Spec, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s", fileSafe(series), fileSafe(spec.String()), suffix))
}

var unsafeChars = strings.NewReplacer("(", "_", ")", "", ",", "_", " ", "_", "/", "_", ":", "_")

func fileSafe(s string) string {
	if s == "" {
		return "series"
	}
	return unsafeChars.Replace(s)
}
