// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"Game_Duration_Trend_Project/application/trend"
)

// Document is the JSON form of one run over one series.
type Document struct {
	RunID     string      `json:"run_id"`
	CreatedAt time.Time   `json:"created_at"`
	Series    string      `json:"series"`
	Analyses  []AnalysisJ `json:"analyses"`
}

// AnalysisJ is the JSON form of a trend.Analysis.
type AnalysisJ struct {
	Spec             string      `json:"spec"`
	Coefficients     []float64   `json:"coefficients"`
	SegmentSlopes    []float64   `json:"segment_slopes"`
	ResidualVariance float64     `json:"residual_variance"`
	RSquared         float64     `json:"r_squared"`
	AIC              float64     `json:"aic"`
	BIC              float64     `json:"bic"`
	Fitted           []FittedJ   `json:"fitted"`
	Diagnostics      DiagJ       `json:"diagnostics"`
	Forecast         []ForecastJ `json:"forecast"`
	IntervalMethod   string      `json:"interval_method"`
}

type FittedJ struct {
	Year     int     `json:"year"`
	Observed float64 `json:"observed"`
	Fitted   float64 `json:"fitted"`
	Residual float64 `json:"residual"`
}

type DiagJ struct {
	ACF                   []float64 `json:"acf"`
	ACFBound              float64   `json:"acf_bound"`
	SignificantLags       []int     `json:"significant_lags"`
	HeteroscedasticityRho float64   `json:"heteroscedasticity_rho"`
	Heteroscedastic       bool      `json:"heteroscedastic"`
	Skewness              float64   `json:"skewness"`
	Skewed                bool      `json:"skewed"`
	JarqueBeraP           float64   `json:"jarque_bera_p"`
	NonlinearityCorr      float64   `json:"nonlinearity_corr"`
	Nonlinear             bool      `json:"nonlinear"`
	DurbinWatson          float64   `json:"durbin_watson"`
	LjungBoxP             float64   `json:"ljung_box_p"`
	Omitted               []OmitJ   `json:"omitted"`
}

type OmitJ struct {
	Name        string  `json:"name"`
	Correlation float64 `json:"correlation"`
	Flagged     bool    `json:"flagged"`
}

type ForecastJ struct {
	Year      int         `json:"year"`
	Mean      float64     `json:"mean"`
	StdError  float64     `json:"std_error"`
	Intervals []IntervalJ `json:"intervals"`
}

type IntervalJ struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewDocument converts analyses into a Document stamped with a fresh run id.
func NewDocument(series string, analyses []*trend.Analysis) *Document {
	doc := &Document{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Series:    series,
		Analyses:  make([]AnalysisJ, 0, len(analyses)),
	}
	for _, a := range analyses {
		doc.Analyses = append(doc.Analyses, convert(a))
	}
	return doc
}

// WriteJSON writes doc to path, indented.
func WriteJSON(path string, doc *Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

func convert(a *trend.Analysis) AnalysisJ {
	m, d, f := a.Model, a.Diagnostics, a.Forecast
	out := AnalysisJ{
		Spec:             m.Spec.String(),
		Coefficients:     roundAll(m.Coefficients),
		SegmentSlopes:    roundAll(m.SegmentSlopes()),
		ResidualVariance: round(m.ResidualVariance),
		RSquared:         round(m.RSquared),
		AIC:              round(m.AIC),
		BIC:              round(m.BIC),
		IntervalMethod:   f.Method.String(),
		Diagnostics: DiagJ{
			ACF:                   roundAll(d.ACF),
			ACFBound:              round(d.ACFBound),
			SignificantLags:       d.SignificantLags,
			HeteroscedasticityRho: round(d.HeteroscedasticityRho),
			Heteroscedastic:       d.Heteroscedastic,
			Skewness:              round(d.Skewness),
			Skewed:                d.Skewed,
			JarqueBeraP:           round(d.JarqueBeraP),
			NonlinearityCorr:      round(d.NonlinearityCorr),
			Nonlinear:             d.Nonlinear,
			DurbinWatson:          round(d.DurbinWatson),
			LjungBoxP:             round(d.LjungBoxP),
		},
	}
	for _, r := range m.Rows {
		out.Fitted = append(out.Fitted, FittedJ{
			Year: r.Year, Observed: round(r.Observed), Fitted: round(r.Fitted), Residual: round(r.Residual),
		})
	}
	for _, o := range d.Omitted {
		out.Diagnostics.Omitted = append(out.Diagnostics.Omitted, OmitJ{
			Name: o.Name, Correlation: round(o.Correlation), Flagged: o.Flagged,
		})
	}
	for _, p := range f.Points {
		fj := ForecastJ{Year: p.Year, Mean: round(p.Mean), StdError: round(p.StdError)}
		for _, iv := range p.Intervals {
			fj.Intervals = append(fj.Intervals, IntervalJ{Level: iv.Level, Lower: round(iv.Lower), Upper: round(iv.Upper)})
		}
		out.Forecast = append(out.Forecast, fj)
	}
	return out
}

// Digits kept in JSON output
const jsonPlaces = 6

// round keeps jsonPlaces decimals. JSON has no NaN or Inf, so those become 0.
func round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r, _ := decimal.NewFromFloat(v).Round(jsonPlaces).Float64()
	return r
}

func roundAll(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = round(v)
	}
	return out
}
