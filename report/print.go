// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

// Package report renders trend analyses as console tables, CSV files and JSON.
package report

import (
	"fmt"
	"io"
	"strings"

	"Game_Duration_Trend_Project/application/trend"
)

// PrintModel writes the coefficient table and fit summary of m.
func PrintModel(w io.Writer, m *trend.Model) {
	fmt.Fprintf(w, "\n=== Trend Model: %s ===\n", m.Spec)
	fmt.Fprintf(w, "Observations (n):   %d\n", len(m.Rows))
	fmt.Fprintf(w, "Parameters (p):     %d\n", len(m.Coefficients))
	fmt.Fprintf(w, "First / last year:  %d / %d\n", m.Rows[0].Year, m.LastYear())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-24s %14s\n", "Term", "Coefficient")
	fmt.Fprintln(w, strings.Repeat("-", 39))
	for j, c := range m.Coefficients {
		fmt.Fprintf(w, "%-24s %14.6f\n", termName(m.Spec, j), c)
	}
	fmt.Fprintln(w)

	if m.Spec.Kind == trend.KindPiecewise {
		fmt.Fprintln(w, "Segment slopes (hours/year):")
		bounds := segmentBounds(m)
		for i, s := range m.SegmentSlopes() {
			fmt.Fprintf(w, "  %-18s %10.6f\n", bounds[i], s)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Residual variance:  %.6g\n", m.ResidualVariance)
	fmt.Fprintf(w, "Residual std dev:   %.6g\n", m.ResidualStdDev())
	fmt.Fprintf(w, "R squared:          %.4f (adjusted %.4f)\n", m.RSquared, m.AdjRSquared)
	fmt.Fprintf(w, "AIC / BIC:          %.3f / %.3f\n", m.AIC, m.BIC)
}

// PrintDiagnostics writes the residual diagnostics report.
func PrintDiagnostics(w io.Writer, d *trend.Diagnostics) {
	fmt.Fprintln(w, "\n=== Residual Diagnostics ===")
	fmt.Fprintf(w, "Residuals: %d, ACF bound: +/-%.4f\n\n", d.N, d.ACFBound)

	fmt.Fprintf(w, "%-6s %10s\n", "Lag", "ACF")
	for k, r := range d.ACF {
		mark := ""
		if abs(r) > d.ACFBound {
			mark = " *"
		}
		fmt.Fprintf(w, "%-6d %10.4f%s\n", k+1, r, mark)
	}
	fmt.Fprintf(w, "Durbin-Watson: %.4f, Ljung-Box Q: %.4f (p = %.4f)\n\n", d.DurbinWatson, d.LjungBoxQ, d.LjungBoxP)

	fmt.Fprintf(w, "%-28s %10s  %s\n", "Check", "Value", "Flag")
	fmt.Fprintln(w, strings.Repeat("-", 48))
	fmt.Fprintf(w, "%-28s %10.4f  %s\n", "Heteroscedasticity (rho)", d.HeteroscedasticityRho, flag(d.Heteroscedastic))
	fmt.Fprintf(w, "%-28s %10.4f  %s\n", "Skewness", d.Skewness, flag(d.Skewed))
	fmt.Fprintf(w, "%-28s %10.4f\n", "Excess kurtosis", d.ExcessKurtosis)
	fmt.Fprintf(w, "%-28s %10.4f  (p = %.4f)\n", "Jarque-Bera", d.JarqueBera, d.JarqueBeraP)
	fmt.Fprintf(w, "%-28s %10.4f  %s\n", "Nonlinearity (corr)", d.NonlinearityCorr, flag(d.Nonlinear))
	for _, o := range d.Omitted {
		fmt.Fprintf(w, "%-28s %10.4f  %s (n = %d)\n", "Omitted: "+o.Name, o.Correlation, flag(o.Flagged), o.N)
	}
}

// PrintForecast writes one row per forecast year with every interval.
func PrintForecast(w io.Writer, f *trend.ForecastResult) {
	fmt.Fprintf(w, "\n=== Forecast (%s) ===\n", f.Method)

	fmt.Fprintf(w, "%-6s %10s %10s", "Year", "Mean", "SE")
	for _, lvl := range f.Levels {
		fmt.Fprintf(w, " %21s", fmt.Sprintf("%g%% interval", lvl*100))
	}
	fmt.Fprintln(w)

	for _, p := range f.Points {
		fmt.Fprintf(w, "%-6d %10.4f %10.4f", p.Year, p.Mean, p.StdError)
		for _, iv := range p.Intervals {
			fmt.Fprintf(w, " [%9.4f, %9.4f]", iv.Lower, iv.Upper)
		}
		fmt.Fprintln(w)
	}
}

// PrintComparison writes the ranked candidates from trend.Compare.
func PrintComparison(w io.Writer, cands []trend.Candidate) {
	fmt.Fprintln(w, "\n=== Specification Comparison ===")
	fmt.Fprintf(w, "%-4s %-32s %4s %12s %12s %8s\n", "Rank", "Specification", "p", "AIC", "BIC", "AdjR2")
	fmt.Fprintln(w, strings.Repeat("-", 77))
	for i, c := range cands {
		if c.Err != nil {
			fmt.Fprintf(w, "%-4s %-32s %4d  failed: %v\n", "-", c.Spec, c.Spec.NumParams(), c.Err)
			continue
		}
		m := c.Model
		fmt.Fprintf(w, "%-4d %-32s %4d %12.3f %12.3f %8.4f\n",
			i+1, c.Spec, len(m.Coefficients), m.AIC, m.BIC, m.AdjRSquared)
	}
}

func termName(s trend.Spec, j int) string {
	switch j {
	case 0:
		return "intercept"
	case 1:
		return "year"
	}
	return fmt.Sprintf("slope change @ %g", s.Knots[j-2])
}

func segmentBounds(m *trend.Model) []string {
	lo := fmt.Sprintf("%d", m.Rows[0].Year)
	out := make([]string, 0, len(m.Spec.Knots)+1)
	for _, k := range m.Spec.Knots {
		hi := fmt.Sprintf("%g", k)
		out = append(out, lo+"-"+hi)
		lo = hi
	}
	return append(out, fmt.Sprintf("%s-%d", lo, m.LastYear()))
}

func flag(b bool) string {
	if b {
		return "FLAGGED"
	}
	return "ok"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
