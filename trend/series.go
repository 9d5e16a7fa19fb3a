// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"fmt"
	"math"
)

// NewSeries validates records and wraps them in a Series. Records are not copied.
func NewSeries(name string, auxNames []string, records []Record) (*Series, error) {
	s := &Series{Records: records, AuxNames: auxNames, Name: name}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the ordering and width invariants of the series. Values are
// finite or Missing; an infinity is rejected rather than fit.
func (s *Series) Validate() error {
	if s == nil || len(s.Records) == 0 {
		return ErrEmptySeries
	}
	for i, r := range s.Records {
		if i > 0 && r.Year <= s.Records[i-1].Year {
			return fmt.Errorf("%w: %d follows %d", ErrUnorderedYears, r.Year, s.Records[i-1].Year)
		}
		if len(r.Aux) != len(s.AuxNames) {
			return fmt.Errorf("%w: year %d has %d values, want %d",
				ErrAuxWidth, r.Year, len(r.Aux), len(s.AuxNames))
		}
		if math.IsInf(r.Duration, 0) {
			return fmt.Errorf("%w: duration of year %d", ErrNonFinite, r.Year)
		}
		for j, v := range r.Aux {
			if math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s of year %d", ErrNonFinite, s.AuxNames[j], r.Year)
			}
		}
	}
	return nil
}

// Len returns the number of records, missing durations included.
func (s *Series) Len() int { return len(s.Records) }

// Observed returns the number of records with a duration.
func (s *Series) Observed() int {
	n := 0
	for _, r := range s.Records {
		if !IsMissing(r.Duration) {
			n++
		}
	}
	return n
}

// YearRange returns the first and last year of the series.
func (s *Series) YearRange() (first, last int) {
	return s.Records[0].Year, s.Records[len(s.Records)-1].Year
}

// AuxIndex returns the column of the named auxiliary regressor, or -1.
func (s *Series) AuxIndex(name string) int {
	for i, n := range s.AuxNames {
		if n == name {
			return i
		}
	}
	return -1
}
