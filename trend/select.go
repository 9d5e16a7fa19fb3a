// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import (
	"sort"
)

// Candidate is the outcome of fitting one specification during Compare.
type Candidate struct {
	Spec  Spec
	Model *Model // nil when Err is set
	Err   error
}

// Compare fits every spec to s and ranks the successful fits by AIC, lower first,
// with ties going to the smaller model. Failed fits keep their error and sort last
// in their original order.
func Compare(s *Series, specs ...Spec) []Candidate {
	out := make([]Candidate, len(specs))
	for i, spec := range specs {
		m, err := Fit(s, spec)
		out[i] = Candidate{Spec: spec, Model: m, Err: err}
	}

	sort.SliceStable(out, func(a, b int) bool {
		ca, cb := out[a], out[b]
		if ca.Err != nil || cb.Err != nil {
			return ca.Err == nil && cb.Err != nil
		}
		if ca.Model.AIC != cb.Model.AIC {
			return ca.Model.AIC < cb.Model.AIC
		}
		return ca.Spec.NumParams() < cb.Spec.NumParams()
	})
	return out
}

// Best returns the first successful candidate, or nil if every fit failed.
func Best(cands []Candidate) *Candidate {
	for i := range cands {
		if cands[i].Err == nil {
			return &cands[i]
		}
	}
	return nil
}
