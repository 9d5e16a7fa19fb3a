// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default diagnostic thresholds
const (
	DefaultHeteroscedasticityThreshold = 0.3
	DefaultSkewnessThreshold           = 0.5
	DefaultOmittedThreshold            = 0.3
	DefaultNonlinearityThreshold       = 0.3
	DefaultMaxLag                      = 10
)

// withDefaults fills zero thresholds.
func (o DiagnosticsOptions) withDefaults() DiagnosticsOptions {
	if o.HeteroscedasticityThreshold <= 0 {
		o.HeteroscedasticityThreshold = DefaultHeteroscedasticityThreshold
	}
	if o.SkewnessThreshold <= 0 {
		o.SkewnessThreshold = DefaultSkewnessThreshold
	}
	if o.OmittedThreshold <= 0 {
		o.OmittedThreshold = DefaultOmittedThreshold
	}
	if o.NonlinearityThreshold <= 0 {
		o.NonlinearityThreshold = DefaultNonlinearityThreshold
	}
	return o
}

// Diagnose computes residual diagnostics for a fitted model: ACF with its
// significance bound, a heteroscedasticity check, normality statistics, a check
// for a missed curvature, and residual correlation against every auxiliary regressor.
// Returns ErrEmptyResiduals if the model has fewer than two residuals.
func Diagnose(m *Model, opts DiagnosticsOptions) (*Diagnostics, error) {
	if m == nil || len(m.Rows) < 2 {
		return nil, ErrEmptyResiduals
	}
	opts = opts.withDefaults()

	n := len(m.Rows)
	resid := m.Residuals()
	fitted := m.FittedValues()
	years := make([]int, n)
	for i, r := range m.Rows {
		years[i] = r.Year
	}

	d := &Diagnostics{
		N:        n,
		ACFBound: 1.96 / math.Sqrt(float64(n)),
	}

	lags := acfLags(n, opts.MaxLag)

	// A perfect fit leaves only rounding noise, and correlating noise against
	// anything gives arbitrary numbers. Report it as clean.
	if negligible(m) {
		d.ACF = make([]float64, lags)
		d.DurbinWatson = 2
		d.LjungBoxP = 1
		d.JarqueBeraP = 1
		d.Omitted = make([]OmittedCheck, len(m.AuxNames))
		for j, name := range m.AuxNames {
			d.Omitted[j] = OmittedCheck{Name: name, N: auxPairs(m, j)}
		}
		return d, nil
	}

	// 1. Autocorrelation
	acf, err := ACF(years, resid, lags)
	if err != nil {
		return nil, err
	}
	d.ACF = acf
	d.SignificantLags = SignificantLags(d.ACF, d.ACFBound)
	d.DurbinWatson = DurbinWatson(resid)
	d.LjungBoxQ, d.LjungBoxP = LjungBox(d.ACF, n)

	// 2. Heteroscedasticity: does |e| move with the fitted value?
	absResid := make([]float64, n)
	for i, e := range resid {
		absResid[i] = math.Abs(e)
	}
	d.HeteroscedasticityRho = Spearman(absResid, fitted)
	d.Heteroscedastic = math.Abs(d.HeteroscedasticityRho) > opts.HeteroscedasticityThreshold

	// 3. Normality
	d.Skewness = finiteOr(stat.Skew(resid, nil), 0)
	if n >= 4 {
		d.ExcessKurtosis = finiteOr(stat.ExKurtosis(resid, nil), 0)
	}
	d.JarqueBera = float64(n) / 6 * (d.Skewness*d.Skewness + d.ExcessKurtosis*d.ExcessKurtosis/4)
	d.JarqueBeraP = distuv.ChiSquared{K: 2}.Survival(d.JarqueBera)
	d.Skewed = math.Abs(d.Skewness) > opts.SkewnessThreshold

	// 4. Curvature the trend missed: residuals against the squared centred fit
	meanFit := stat.Mean(fitted, nil)
	curve := make([]float64, n)
	for i, f := range fitted {
		curve[i] = (f - meanFit) * (f - meanFit)
	}
	d.NonlinearityCorr = correlation(resid, curve)
	d.Nonlinear = math.Abs(d.NonlinearityCorr) > opts.NonlinearityThreshold

	// 5. Omitted regressors
	d.Omitted = make([]OmittedCheck, len(m.AuxNames))
	for j, name := range m.AuxNames {
		var xs, es []float64
		for _, r := range m.Rows {
			if j >= len(r.Aux) || IsMissing(r.Aux[j]) {
				continue
			}
			xs = append(xs, r.Aux[j])
			es = append(es, r.Residual)
		}
		check := OmittedCheck{Name: name, N: len(xs)}
		if len(xs) >= 3 {
			check.Correlation = correlation(es, xs)
			check.Flagged = math.Abs(check.Correlation) > opts.OmittedThreshold
		}
		d.Omitted[j] = check
	}

	return d, nil
}

// acfLags picks the lag count: maxLag if set, else min(10, n/4); clamped to [1, n-1].
func acfLags(n, maxLag int) int {
	L := maxLag
	if L <= 0 {
		L = n / 4
		if L > DefaultMaxLag {
			L = DefaultMaxLag
		}
	}
	if L > n-1 {
		L = n - 1
	}
	if L < 1 {
		L = 1
	}
	return L
}

// negligible reports whether the residuals are rounding noise next to the data.
func negligible(m *Model) bool {
	scale := 0.0
	for _, r := range m.Rows {
		scale += math.Abs(r.Observed)
	}
	scale /= float64(len(m.Rows))
	rms := math.Sqrt(m.RSS / float64(len(m.Rows)))
	return rms <= exactTolerance*math.Max(1, scale)
}

func auxPairs(m *Model, j int) int {
	n := 0
	for _, r := range m.Rows {
		if j < len(r.Aux) && !IsMissing(r.Aux[j]) {
			n++
		}
	}
	return n
}

// ACF computes the sample autocorrelation of resid at lags 1..maxLag.
// The series is indexed by year: the lag-k product pairs the residuals of years
// t and t-k, so a skipped year contributes no pair instead of shifting the others.
// Returns: slice where index k-1 holds lag k, or an error when years and resid differ in length
func ACF(years []int, resid []float64, maxLag int) ([]float64, error) {
	if len(years) != len(resid) {
		return nil, fmt.Errorf("ACF: %d years for %d residuals", len(years), len(resid))
	}
	if maxLag < 0 {
		maxLag = 0
	}
	out := make([]float64, maxLag)
	if len(resid) == 0 {
		return out, nil
	}

	mean := stat.Mean(resid, nil)
	centred := make(map[int]float64, len(resid))
	denom := 0.0
	for i, e := range resid {
		c := e - mean
		centred[years[i]] = c
		denom += c * c
	}
	if denom == 0 {
		return out, nil
	}

	for k := 1; k <= maxLag; k++ {
		sum := 0.0
		for i, y := range years {
			if prev, ok := centred[y-k]; ok {
				sum += (resid[i] - mean) * prev
			}
		}
		out[k-1] = sum / denom
	}
	return out, nil
}

// SignificantLags returns the lags whose |ACF| exceeds bound.
func SignificantLags(acf []float64, bound float64) []int {
	var lags []int
	for i, r := range acf {
		if math.Abs(r) > bound {
			lags = append(lags, i+1)
		}
	}
	return lags
}

// DurbinWatson computes sum (e_t - e_{t-1})^2 / sum e_t^2.
// About 2 means no first-order autocorrelation.
func DurbinWatson(resid []float64) float64 {
	num, den := 0.0, 0.0
	for i, e := range resid {
		den += e * e
		if i > 0 {
			d := e - resid[i-1]
			num += d * d
		}
	}
	if den == 0 {
		return 2
	}
	return num / den
}

// LjungBox computes Q = n(n+2) sum r_k^2/(n-k) over the given ACF and its
// chi-squared p-value with len(acf) degrees of freedom.
func LjungBox(acf []float64, n int) (q, pValue float64) {
	if len(acf) == 0 {
		return 0, 1
	}
	for i, r := range acf {
		k := i + 1
		if n-k <= 0 {
			break
		}
		q += r * r / float64(n-k)
	}
	q *= float64(n * (n + 2))
	pValue = distuv.ChiSquared{K: float64(len(acf))}.Survival(q)
	return q, pValue
}

// Spearman computes the rank correlation of x and y, ties getting their mean rank.
func Spearman(x, y []float64) float64 {
	return correlation(ranks(x), ranks(y))
}

// correlation is Pearson correlation that reports 0 when either side is constant.
func correlation(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return finiteOr(stat.Correlation(x, y, nil), 0)
}

func ranks(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	out := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		// positions i..j are tied, ranks are 1-based
		r := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = r
		}
		i = j + 1
	}
	return out
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
