// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Linear returns a single-slope trend specification.
func Linear() Spec { return Spec{Kind: KindLinear} }

// Piecewise returns a broken-line specification with a slope change at each knot.
// With no knots it is the same as Linear.
func Piecewise(knots ...float64) Spec {
	if len(knots) == 0 {
		return Linear()
	}
	k := make([]float64, len(knots))
	copy(k, knots)
	return Spec{Kind: KindPiecewise, Knots: k}
}

// NumParams is the intercept plus one slope per segment.
func (s Spec) NumParams() int {
	if s.Kind == KindLinear {
		return 2
	}
	return 2 + len(s.Knots)
}

func (s Spec) String() string {
	if s.Kind == KindLinear {
		return "linear"
	}
	parts := make([]string, len(s.Knots))
	for i, k := range s.Knots {
		parts[i] = strconv.FormatFloat(k, 'g', -1, 64)
	}
	return "piecewise(" + strings.Join(parts, ",") + ")"
}

// ParseSpec reads the String form back: "linear", "piecewise(1960,1990)" or a bare
// knot list "1960,1990".
func ParseSpec(text string) (Spec, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" || text == "linear" {
		return Linear(), nil
	}
	if strings.HasPrefix(text, "piecewise(") && strings.HasSuffix(text, ")") {
		text = strings.TrimSuffix(strings.TrimPrefix(text, "piecewise("), ")")
	}
	var knots []float64
	for _, f := range strings.Split(text, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		k, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: knot %q: %v", ErrInvalidSpec, f, err)
		}
		knots = append(knots, k)
	}
	if len(knots) == 0 {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidSpec, text)
	}
	return Piecewise(knots...), nil
}

// checkKnots requires knots strictly increasing and strictly inside (first, last).
func (s Spec) checkKnots(first, last int) error {
	if s.Kind == KindLinear {
		return nil
	}
	for i, k := range s.Knots {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return fmt.Errorf("%w: knot %d is not finite", ErrInvalidKnot, i)
		}
		if k <= float64(first) || k >= float64(last) {
			return fmt.Errorf("%w: knot %g outside (%d, %d)", ErrInvalidKnot, k, first, last)
		}
		if i > 0 && k <= s.Knots[i-1] {
			return fmt.Errorf("%w: knot %g not after %g", ErrInvalidKnot, k, s.Knots[i-1])
		}
	}
	return nil
}

// basis fills row with the design row of year: [1, year, max(0, year-k1), ...].
func (s Spec) basis(year float64, row []float64) {
	row[0] = 1
	row[1] = year
	if s.Kind == KindLinear {
		return
	}
	for i, k := range s.Knots {
		row[2+i] = math.Max(0, year-k)
	}
}
