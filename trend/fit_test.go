// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

// almostEqual compares floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// makeSeries builds a series over [first, last] with duration f(year)
func makeSeries(t *testing.T, first, last int, f func(year int) float64) *Series {
	t.Helper()
	records := make([]Record, 0, last-first+1)
	for y := first; y <= last; y++ {
		records = append(records, Record{Year: y, Duration: f(y)})
	}
	s, err := NewSeries("test", nil, records)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}

// kinked is 1 + 0.01*t up to t = 10, then slope 0.05
func kinked(year int) float64 {
	t := float64(year)
	if t <= 10 {
		return 1 + 0.01*t
	}
	return 1 + 0.1 + 0.05*(t-10)
}

// ============================================================================
// SERIES TESTS
// ============================================================================

func TestNewSeries(t *testing.T) {
	tests := []struct {
		name    string
		aux     []string
		records []Record
		wantErr error
	}{
		{"empty", nil, nil, ErrEmptySeries},
		{"duplicate year", nil, []Record{{Year: 1900, Duration: 1}, {Year: 1900, Duration: 2}}, ErrUnorderedYears},
		{"decreasing", nil, []Record{{Year: 1901, Duration: 1}, {Year: 1900, Duration: 2}}, ErrUnorderedYears},
		{"aux width", []string{"runs"}, []Record{{Year: 1900, Duration: 1}}, ErrAuxWidth},
		{"gap is fine", nil, []Record{{Year: 1900, Duration: 1}, {Year: 1905, Duration: Missing}}, nil},
		{"infinite duration", nil, []Record{{Year: 1900, Duration: 1}, {Year: 1901, Duration: math.Inf(1)}}, ErrNonFinite},
		{"infinite aux", []string{"runs"}, []Record{{Year: 1900, Duration: 1, Aux: []float64{math.Inf(-1)}}}, ErrNonFinite},
		{"missing aux is fine", []string{"runs"}, []Record{{Year: 1900, Duration: 1, Aux: []float64{Missing}}}, nil},
	}

	for i, test := range tests {
		_, err := NewSeries("x", test.aux, test.records)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("Test %d (%s): got error %v, want %v", i+1, test.name, err, test.wantErr)
		}
	}
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"linear", "linear", false},
		{"", "linear", false},
		{"piecewise(1960,1990)", "piecewise(1960,1990)", false},
		{"1975", "piecewise(1975)", false},
		{" 1960 , 1990.5 ", "piecewise(1960,1990.5)", false},
		{"piecewise(x)", "", true},
		{"piecewise()", "", true},
	}

	for i, test := range tests {
		spec, err := ParseSpec(test.in)
		if test.wantErr {
			if !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("Test %d: ParseSpec(%q) error = %v, want ErrInvalidSpec", i+1, test.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Test %d: ParseSpec(%q) returned error: %v", i+1, test.in, err)
			continue
		}
		if spec.String() != test.want {
			t.Errorf("Test %d: ParseSpec(%q) = %s; want %s", i+1, test.in, spec, test.want)
		}
	}
}

// ============================================================================
// FIT TESTS
// ============================================================================

func TestFitLinearRecoversSlope(t *testing.T) {
	// 1901..1920 rising linearly from 1.55 to 2.05
	s := makeSeries(t, 1901, 1920, func(y int) float64 {
		return 1.55 + float64(y-1901)*(2.05-1.55)/19
	})

	m, err := Fit(s, Linear())
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	wantSlope := (2.05 - 1.55) / 19
	if !almostEqual(m.Coefficients[1], wantSlope, 1e-9) {
		t.Errorf("slope = %v; want %v", m.Coefficients[1], wantSlope)
	}
	for _, r := range m.Rows {
		if !almostEqual(r.Residual, 0, 1e-9) {
			t.Errorf("year %d: residual %v; want ~0", r.Year, r.Residual)
		}
	}
	if !almostEqual(m.RSquared, 1, 1e-9) {
		t.Errorf("RSquared = %v; want 1", m.RSquared)
	}
	if !almostEqual(m.Trend(1920), 2.05, 1e-9) {
		t.Errorf("Trend(1920) = %v; want 2.05", m.Trend(1920))
	}
}

func TestFitLinearNormalEquations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := makeSeries(t, 1950, 2019, func(y int) float64 {
		return 2.4 + 0.006*float64(y-1950) + rng.NormFloat64()*0.05
	})

	m, err := Fit(s, Linear())
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	sum, cross := 0.0, 0.0
	for _, r := range m.Rows {
		sum += r.Residual
		cross += r.Residual * float64(r.Year)
	}
	if !almostEqual(sum, 0, 1e-9) {
		t.Errorf("sum of residuals = %v; want ~0", sum)
	}
	if !almostEqual(cross, 0, 1e-6) {
		t.Errorf("residuals . year = %v; want ~0", cross)
	}

	// unbiased variance: RSS/(n-2)
	want := m.RSS / float64(len(m.Rows)-2)
	if !almostEqual(m.ResidualVariance, want, 1e-15) {
		t.Errorf("ResidualVariance = %v; want %v", m.ResidualVariance, want)
	}
}

func TestFitPiecewiseRecoversSlopes(t *testing.T) {
	s := makeSeries(t, 1, 20, kinked)

	m, err := Fit(s, Piecewise(10))
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	slopes := m.SegmentSlopes()
	if len(slopes) != 2 {
		t.Fatalf("got %d segment slopes; want 2", len(slopes))
	}
	if !almostEqual(slopes[0], 0.01, 1e-9) || !almostEqual(slopes[1], 0.05, 1e-9) {
		t.Errorf("slopes = %v; want [0.01 0.05]", slopes)
	}
	for _, r := range m.Rows {
		if !almostEqual(r.Residual, 0, 1e-9) {
			t.Errorf("year %d: residual %v; want ~0", r.Year, r.Residual)
		}
	}
}

func TestFitPiecewiseContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := makeSeries(t, 1940, 2020, func(y int) float64 {
		return 2.3 + 0.004*float64(y-1940) + rng.NormFloat64()*0.04
	})

	knots := []float64{1965, 1990.5, 2005}
	m, err := Fit(s, Piecewise(knots...))
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	for i, k := range knots {
		left := m.Trend(k - 1e-7)
		right := m.Trend(k + 1e-7)
		if !almostEqual(left, right, 1e-6) {
			t.Errorf("knot %v: jump from %v to %v", k, left, right)
		}

		// slope change across the knot is exactly that knot's coefficient
		before := m.Trend(k) - m.Trend(k-0.5)
		after := m.Trend(k+0.5) - m.Trend(k)
		if !almostEqual((after-before)/0.5, m.Coefficients[2+i], 1e-8) {
			t.Errorf("knot %v: slope change %v; want %v", k, (after-before)/0.5, m.Coefficients[2+i])
		}
	}

	// linear between knots: second difference is zero away from knots
	for _, y := range []float64{1950, 1975, 1998, 2012} {
		d2 := m.Trend(y+1) - 2*m.Trend(y) + m.Trend(y-1)
		if !almostEqual(d2, 0, 1e-9) {
			t.Errorf("year %v: second difference %v; want 0", y, d2)
		}
	}
}

func TestFitUsesYearNotRow(t *testing.T) {
	// 1903 and 1904 are absent and 1906 has no duration
	records := []Record{
		{Year: 1900, Duration: 1.5},
		{Year: 1901, Duration: 1.52},
		{Year: 1902, Duration: 1.54},
		{Year: 1905, Duration: 1.60},
		{Year: 1906, Duration: Missing},
		{Year: 1907, Duration: 1.64},
	}
	s, err := NewSeries("gaps", nil, records)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}

	m, err := Fit(s, Linear())
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	if !almostEqual(m.Coefficients[1], 0.02, 1e-9) {
		t.Errorf("slope = %v; want 0.02", m.Coefficients[1])
	}
	if len(m.Rows) != 5 {
		t.Errorf("got %d fitted rows; want 5", len(m.Rows))
	}
	for _, r := range m.Rows {
		if r.Year == 1906 {
			t.Errorf("missing year 1906 has a fitted row")
		}
	}
}

func TestFitErrors(t *testing.T) {
	full := makeSeries(t, 1900, 1910, func(y int) float64 { return 2 + 0.01*float64(y-1900) })

	oneObserved := makeSeries(t, 1900, 1910, func(y int) float64 {
		if y == 1904 {
			return 2
		}
		return Missing
	})

	// nothing observed after 1905, so a hinge at 1907 is all zeros
	truncated := makeSeries(t, 1900, 1910, func(y int) float64 {
		if y > 1905 {
			return Missing
		}
		return 2 + 0.01*float64(y-1900)
	})

	tests := []struct {
		name    string
		series  *Series
		spec    Spec
		wantErr error
	}{
		{"one observation, two knots", oneObserved, Piecewise(1903, 1906), ErrInsufficientData},
		{"one observation, linear", oneObserved, Linear(), ErrInsufficientData},
		{"knot below range", full, Piecewise(1899), ErrInvalidKnot},
		{"knot above range", full, Piecewise(1911), ErrInvalidKnot},
		{"knot on first year", full, Piecewise(1900), ErrInvalidKnot},
		{"knot on last year", full, Piecewise(1910), ErrInvalidKnot},
		{"knots not increasing", full, Piecewise(1906, 1904), ErrInvalidKnot},
		{"duplicate knots", full, Piecewise(1905, 1905), ErrInvalidKnot},
		{"empty hinge", truncated, Piecewise(1907), ErrSingularDesign},
		{"bad kind", full, Spec{Kind: SpecKind(9)}, ErrInvalidSpec},
	}

	for i, test := range tests {
		_, err := Fit(test.series, test.spec)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("Test %d (%s): got error %v, want %v", i+1, test.name, err, test.wantErr)
		}
	}
}

func TestFitExactlyDetermined(t *testing.T) {
	s := makeSeries(t, 2000, 2001, func(y int) float64 { return float64(y) / 1000 })

	m, err := Fit(s, Linear())
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	if m.ResidualVariance != 0 {
		t.Errorf("ResidualVariance = %v; want 0 with no degrees of freedom", m.ResidualVariance)
	}
	if math.IsInf(m.AIC, 0) || math.IsNaN(m.AIC) || math.IsInf(m.BIC, 0) || math.IsNaN(m.BIC) {
		t.Errorf("exact fit gave AIC %v, BIC %v; want finite", m.AIC, m.BIC)
	}
}

func TestCompareExactFits(t *testing.T) {
	// both specs reproduce a straight line exactly; the smaller one must win
	s := makeSeries(t, 1901, 1920, func(y int) float64 {
		return 1.55 + float64(y-1901)*0.5/19
	})
	cands := Compare(s, Piecewise(1910), Linear())
	for _, c := range cands {
		if c.Err != nil {
			t.Fatalf("%s: Fit returned error: %v", c.Spec, c.Err)
		}
		if math.IsInf(c.Model.AIC, 0) || math.IsNaN(c.Model.AIC) {
			t.Errorf("%s: AIC = %v; want finite", c.Spec, c.Model.AIC)
		}
	}
	if best := Best(cands); best == nil || best.Spec.Kind != KindLinear {
		t.Errorf("best exact fit = %+v; want linear", best)
	}
}

func TestFitIsolatedFromInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	records := make([]Record, 0, 30)
	for y := 1901; y <= 1930; y++ {
		records = append(records, Record{
			Year:     y,
			Duration: 1 + 0.01*float64(y-1901) + rng.NormFloat64()*0.02,
			Aux:      []float64{4 + rng.NormFloat64()},
		})
	}
	s, err := NewSeries("iso", []string{"runs"}, records)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}

	knots := []float64{1915}
	m, err := Fit(s, Spec{Kind: KindPiecewise, Knots: knots})
	if err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}
	trendBefore := m.Trend(1925)
	dBefore, err := Diagnose(m, DiagnosticsOptions{})
	if err != nil {
		t.Fatalf("Diagnose returned error: %v", err)
	}

	// edit every input the model was built from
	knots[0] = 1905
	s.Records[0].Aux[0] = 1000
	s.AuxNames[0] = "renamed"

	if got := m.Trend(1925); got != trendBefore {
		t.Errorf("Trend(1925) moved from %v to %v after editing the knots", trendBefore, got)
	}
	if m.Spec.Knots[0] != 1915 {
		t.Errorf("model knot = %v; want 1915", m.Spec.Knots[0])
	}
	dAfter, err := Diagnose(m, DiagnosticsOptions{})
	if err != nil {
		t.Fatalf("Diagnose returned error: %v", err)
	}
	if dAfter.Omitted[0] != dBefore.Omitted[0] {
		t.Errorf("omitted check changed from %+v to %+v after editing the series", dBefore.Omitted[0], dAfter.Omitted[0])
	}
}

func TestFitDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := makeSeries(t, 1920, 2020, func(y int) float64 {
		return 2 + 0.008*float64(y-1920) + rng.NormFloat64()*0.1
	})

	for _, spec := range []Spec{Linear(), Piecewise(1960, 1995)} {
		a, err := Fit(s, spec)
		if err != nil {
			t.Fatalf("%s: Fit returned error: %v", spec, err)
		}
		b, err := Fit(s, spec)
		if err != nil {
			t.Fatalf("%s: Fit returned error: %v", spec, err)
		}
		for j := range a.Coefficients {
			if a.Coefficients[j] != b.Coefficients[j] {
				t.Errorf("%s: coefficient %d differs between fits: %v vs %v",
					spec, j, a.Coefficients[j], b.Coefficients[j])
			}
		}
		if a.ResidualVariance != b.ResidualVariance {
			t.Errorf("%s: residual variance differs between fits", spec)
		}
	}
}

// ============================================================================
// COMPARE TESTS
// ============================================================================

func TestCompare(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := makeSeries(t, 1, 40, func(y int) float64 {
		v := 1 + 0.01*float64(y)
		if y > 20 {
			v += 0.05 * float64(y-20)
		}
		return v + rng.NormFloat64()*0.005
	})

	cands := Compare(s, Linear(), Piecewise(20), Piecewise(50))
	if len(cands) != 3 {
		t.Fatalf("got %d candidates; want 3", len(cands))
	}

	best := Best(cands)
	if best == nil {
		t.Fatalf("Best returned nil")
	}
	if best.Spec.String() != "piecewise(20)" {
		t.Errorf("best spec = %s; want piecewise(20)", best.Spec)
	}
	last := cands[len(cands)-1]
	if !errors.Is(last.Err, ErrInvalidKnot) {
		t.Errorf("last candidate error = %v; want ErrInvalidKnot", last.Err)
	}
	if Best([]Candidate{{Spec: Linear(), Err: ErrInsufficientData}}) != nil {
		t.Errorf("Best of only failures should be nil")
	}
}
