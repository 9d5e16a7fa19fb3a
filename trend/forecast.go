// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultLevels are used when ForecastOptions.Levels is empty.
var DefaultLevels = []float64{0.80, 0.95}

func (m IntervalMethod) String() string {
	switch m {
	case ConstantSigma:
		return "constant-sigma"
	case PredictionVariance:
		return "prediction-variance"
	default:
		return fmt.Sprintf("IntervalMethod(%d)", int(m))
	}
}

// ParseIntervalMethod reads the String form of an IntervalMethod.
func ParseIntervalMethod(text string) (IntervalMethod, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "constant-sigma", "constant":
		return ConstantSigma, nil
	case "prediction-variance", "prediction":
		return PredictionVariance, nil
	}
	return 0, fmt.Errorf("unknown interval method %q", text)
}

// Forecast projects the fitted trend opts.Horizon years past the last fitted year.
// Every level c gives the bounds mean -/+ z_{(1+c)/2} * se.
// With ConstantSigma, se is the in-sample residual standard deviation at every step.
// With PredictionVariance, se = sigma * sqrt(1 + x0'(X'X)^-1 x0), growing with distance.
func Forecast(m *Model, opts ForecastOptions) (*ForecastResult, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, fmt.Errorf("trend model not fit")
	}
	if opts.Horizon <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, opts.Horizon)
	}
	if opts.Method != ConstantSigma && opts.Method != PredictionVariance {
		return nil, fmt.Errorf("unknown interval method %d", opts.Method)
	}

	levels := opts.Levels
	if len(levels) == 0 {
		levels = DefaultLevels
	}
	levels = append([]float64(nil), levels...)
	sort.Float64s(levels)

	// z quantile per level
	z := make([]float64, len(levels))
	for i, c := range levels {
		if !(c > 0 && c < 1) {
			return nil, fmt.Errorf("%w: got %g", ErrInvalidLevel, c)
		}
		z[i] = distuv.UnitNormal.Quantile((1 + c) / 2)
	}

	sigma := m.ResidualStdDev()
	last := m.LastYear()

	out := &ForecastResult{
		Method: opts.Method,
		Levels: levels,
		Points: make([]ForecastPoint, opts.Horizon),
	}

	for h := 1; h <= opts.Horizon; h++ {
		year := last + h
		mu := m.Trend(float64(year))

		se := sigma
		if opts.Method == PredictionVariance {
			se = sigma * math.Sqrt(1+m.leverage(float64(year)))
		}

		pt := ForecastPoint{
			Year:      year,
			Mean:      mu,
			StdError:  se,
			Intervals: make([]Interval, len(levels)),
		}
		for i, c := range levels {
			pt.Intervals[i] = Interval{
				Level: c,
				Lower: mu - z[i]*se,
				Upper: mu + z[i]*se,
			}
		}
		out.Points[h-1] = pt
	}

	return out, nil
}

// Interval returns the interval of p at level, and false if level was not requested.
func (p ForecastPoint) Interval(level float64) (Interval, bool) {
	for _, iv := range p.Intervals {
		if math.Abs(iv.Level-level) < 1e-12 {
			return iv, true
		}
	}
	return Interval{}, false
}
