// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Missing marks a duration or auxiliary value that was not recorded for a year.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Record is one season of data
type Record struct {
	// Calendar year, the ordering key
	Year int
	// Mean per-9-inning game duration in decimal hours, Missing if unknown
	Duration float64
	// Auxiliary regressors, aligned with Series.AuxNames
	Aux []float64
}

// Series is an ordered annual series. Years are strictly increasing; skipped years
// stay skipped since every fit is indexed by the year value, not the row.
type Series struct {
	Records  []Record
	AuxNames []string
	// Optional label, e.g. the team
	Name string
}

// SpecKind is the shape of the trend to fit.
type SpecKind int

const (
	KindLinear SpecKind = iota
	KindPiecewise
)

// Spec is a trend specification: a plain linear trend, or a broken line whose
// slope may change at each knot year.
type Spec struct {
	Kind  SpecKind
	Knots []float64
}

// Model is a fitted trend. Never modified after Fit returns it.
type Model struct {
	Spec Spec

	// Intercept, year slope, then one slope change per knot
	Coefficients []float64

	// Only years with a recorded duration
	Rows []FittedRow
	// Names of the auxiliary values carried on each row
	AuxNames []string

	// RSS / (n - p)
	ResidualVariance float64
	RSS              float64
	RSquared         float64
	AdjRSquared      float64
	AIC              float64
	BIC              float64

	// (X'X)^-1, used for prediction variance
	covUnscaled *mat.SymDense
}

// FittedRow holds the in-sample fit for one observed year.
type FittedRow struct {
	Year     int
	Observed float64
	Fitted   float64
	Residual float64
	// Aux values of the source record, Missing where absent
	Aux []float64
}

// DiagnosticsOptions configures Diagnose. Zero fields take the defaults.
type DiagnosticsOptions struct {
	// ACF lag count, 0 means min(10, n/4)
	MaxLag int

	HeteroscedasticityThreshold float64
	SkewnessThreshold           float64
	OmittedThreshold            float64
	NonlinearityThreshold       float64
}

// Diagnostics is a structured residual report. It flags, it does not decide.
type Diagnostics struct {
	N int

	// ACF[k-1] is the autocorrelation at lag k
	ACF             []float64
	ACFBound        float64 // 1.96/sqrt(n)
	SignificantLags []int

	// Spearman correlation between |residual| and fitted value
	HeteroscedasticityRho float64
	Heteroscedastic       bool

	Skewness       float64
	ExcessKurtosis float64
	JarqueBera     float64
	JarqueBeraP    float64
	Skewed         bool

	// Correlation of residuals with the squared centred fitted value
	NonlinearityCorr float64
	Nonlinear        bool

	DurbinWatson float64
	LjungBoxQ    float64
	LjungBoxP    float64

	Omitted []OmittedCheck
}

// OmittedCheck is the residual correlation against one auxiliary regressor.
type OmittedCheck struct {
	Name        string
	Correlation float64
	N           int
	Flagged     bool
}

// IntervalMethod selects how forecast standard errors are computed.
type IntervalMethod int

const (
	// Constant in-sample residual standard deviation at every step
	ConstantSigma IntervalMethod = iota
	// Regression prediction variance, widens with extrapolation distance
	PredictionVariance
)

// ForecastOptions configures Forecast.
type ForecastOptions struct {
	Horizon int
	// Confidence levels in (0, 1), e.g. 0.8 and 0.95
	Levels []float64
	Method IntervalMethod
}

// ForecastResult holds one point per future year.
type ForecastResult struct {
	Method IntervalMethod
	Levels []float64
	Points []ForecastPoint
}

// ForecastPoint is the forecast for a single future year.
type ForecastPoint struct {
	Year      int
	Mean      float64
	StdError  float64
	Intervals []Interval // same order as ForecastResult.Levels
}

// Interval is a prediction interval at one confidence level.
type Interval struct {
	Level float64
	Lower float64
	Upper float64
}
