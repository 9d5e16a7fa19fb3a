// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Singular values at or below rankTolerance times the largest one count as zero.
const rankTolerance = 1e-10

// Residual RMS at or below exactTolerance times the mean |observation| is rounding noise.
const exactTolerance = 1e-9

// Fit estimates the trend of s under spec by ordinary least squares.
// Years with a missing duration are skipped and get no fitted value.
// Returns: the fitted model, or ErrInsufficientData, ErrInvalidKnot or ErrSingularDesign
func Fit(s *Series, spec Spec) (*Model, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if spec.Kind != KindLinear && spec.Kind != KindPiecewise {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidSpec, spec.Kind)
	}

	first, last := s.YearRange()
	if err := spec.checkKnots(first, last); err != nil {
		return nil, err
	}

	// the model keeps its own copies so later edits to the inputs cannot reach it
	spec.Knots = append([]float64(nil), spec.Knots...)

	p := spec.NumParams()
	n := s.Observed()
	if n < p {
		return nil, fmt.Errorf("%w: %d observations, %s needs %d", ErrInsufficientData, n, spec, p)
	}

	// Design matrix X (n x p) and response y, one row per observed year
	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	rows := make([]FittedRow, 0, n)
	basis := make([]float64, p)

	for _, r := range s.Records {
		if IsMissing(r.Duration) {
			continue
		}
		i := len(rows)
		spec.basis(float64(r.Year), basis)
		X.SetRow(i, basis)
		y.SetVec(i, r.Duration)
		rows = append(rows, FittedRow{Year: r.Year, Observed: r.Duration, Aux: append([]float64(nil), r.Aux...)})
	}

	// Least squares through the SVD so rank deficiency is caught instead of
	// producing a garbage inverse of X'X.
	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: SVD factorization failed", ErrSingularDesign)
	}
	if rank := svd.Rank(rankTolerance); rank < p {
		return nil, fmt.Errorf("%w: rank %d, %s needs %d", ErrSingularDesign, rank, spec, p)
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, y, p)

	var yHat mat.VecDense
	yHat.MulVec(X, &beta)

	rss := 0.0
	for i := range rows {
		rows[i].Fitted = yHat.AtVec(i)
		rows[i].Residual = rows[i].Observed - rows[i].Fitted
		rss += rows[i].Residual * rows[i].Residual
	}

	model := &Model{
		Spec:         spec,
		Coefficients: make([]float64, p),
		Rows:         rows,
		AuxNames:     append([]string(nil), s.AuxNames...),
		RSS:          rss,
		covUnscaled:  unscaledCovariance(&svd, p),
	}
	for j := 0; j < p; j++ {
		model.Coefficients[j] = beta.AtVec(j)
	}

	// Unbiased estimator. An exact fit (n == p) has no degrees of freedom left.
	if df := n - p; df > 0 {
		model.ResidualVariance = rss / float64(df)
	}

	model.fillSummary(y)
	return model, nil
}

// unscaledCovariance computes (X'X)^-1 = V diag(1/s^2) V' from the factorization.
func unscaledCovariance(svd *mat.SVD, p int) *mat.SymDense {
	var v mat.Dense
	svd.VTo(&v)
	s := svd.Values(nil)

	cov := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sum := 0.0
			for k := 0; k < p; k++ {
				sum += v.At(i, k) * v.At(j, k) / (s[k] * s[k])
			}
			cov.SetSym(i, j, sum)
		}
	}
	return cov
}

// fillSummary sets R squared and the information criteria.
func (m *Model) fillSummary(y *mat.VecDense) {
	n := float64(len(m.Rows))
	p := float64(len(m.Coefficients))

	mean := 0.0
	for i := 0; i < y.Len(); i++ {
		mean += y.AtVec(i)
	}
	mean /= n

	tss := 0.0
	for i := 0; i < y.Len(); i++ {
		d := y.AtVec(i) - mean
		tss += d * d
	}

	if tss > 0 {
		m.RSquared = 1 - m.RSS/tss
	} else {
		m.RSquared = 1
	}
	if n > p {
		m.AdjRSquared = 1 - (1-m.RSquared)*(n-1)/(n-p)
	} else {
		m.AdjRSquared = m.RSquared
	}

	// An exact fit has RSS 0 and log(0) = -Inf. Below the rounding floor of the
	// data every fit is equally exact, so the variance is clamped there and the
	// parameter penalty decides between them.
	scale := 0.0
	for i := 0; i < y.Len(); i++ {
		scale += math.Abs(y.AtVec(i))
	}
	floor := exactTolerance * math.Max(1, scale/n)
	sigma2 := math.Max(m.RSS/n, floor*floor)

	logLikTerm := n * math.Log(sigma2)
	m.AIC = logLikTerm + 2*p
	m.BIC = logLikTerm + p*math.Log(n)
}

// Trend evaluates the fitted trend function at any year, in or out of sample.
func (m *Model) Trend(year float64) float64 {
	basis := make([]float64, len(m.Coefficients))
	m.Spec.basis(year, basis)
	val := 0.0
	for j, b := range basis {
		val += m.Coefficients[j] * b
	}
	return val
}

// Intercept returns the fitted value at year 0.
func (m *Model) Intercept() float64 { return m.Coefficients[0] }

// SegmentSlopes returns the slope of each segment: one for a linear trend,
// len(knots)+1 for a piecewise one.
func (m *Model) SegmentSlopes() []float64 {
	slopes := make([]float64, 1, len(m.Coefficients)-1)
	slopes[0] = m.Coefficients[1]
	for j := 2; j < len(m.Coefficients); j++ {
		slopes = append(slopes, slopes[len(slopes)-1]+m.Coefficients[j])
	}
	return slopes
}

// ResidualStdDev is the square root of the residual variance.
func (m *Model) ResidualStdDev() float64 { return math.Sqrt(m.ResidualVariance) }

// LastYear is the last year that entered the fit.
func (m *Model) LastYear() int { return m.Rows[len(m.Rows)-1].Year }

// Residuals returns the residuals in year order.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Residual
	}
	return out
}

// FittedValues returns the fitted values in year order.
func (m *Model) FittedValues() []float64 {
	out := make([]float64, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Fitted
	}
	return out
}

// leverage returns x0'(X'X)^-1 x0 for a design row at year.
func (m *Model) leverage(year float64) float64 {
	basis := make([]float64, len(m.Coefficients))
	m.Spec.basis(year, basis)
	x0 := mat.NewVecDense(len(basis), basis)
	return mat.Inner(x0, m.covUnscaled, x0)
}
