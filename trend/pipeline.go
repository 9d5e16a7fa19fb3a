// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config is everything one analysis run needs besides the data.
type Config struct {
	Spec        Spec
	Diagnostics DiagnosticsOptions
	Forecast    ForecastOptions
}

// Analysis bundles the three outputs of the pipeline.
type Analysis struct {
	Model       *Model
	Diagnostics *Diagnostics
	Forecast    *ForecastResult
}

// Analyze runs fit, diagnose and forecast in order. The first failure aborts the run.
func Analyze(s *Series, cfg Config) (*Analysis, error) {
	m, err := Fit(s, cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", cfg.Spec, err)
	}
	d, err := Diagnose(m, cfg.Diagnostics)
	if err != nil {
		return nil, fmt.Errorf("diagnose %s: %w", cfg.Spec, err)
	}
	f, err := Forecast(m, cfg.Forecast)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", cfg.Spec, err)
	}
	return &Analysis{Model: m, Diagnostics: d, Forecast: f}, nil
}

// AnalyzeAll runs Analyze once per spec on a bounded set of goroutines. The runs
// share nothing but the read-only series. Results come back in spec order; the
// first error cancels the runs not yet started.
func AnalyzeAll(ctx context.Context, s *Series, specs []Spec, cfg Config) ([]*Analysis, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Analysis, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := cfg
			c.Spec = spec
			a, err := Analyze(s, c)
			if err != nil {
				return err
			}
			results[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
