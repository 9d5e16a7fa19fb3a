// Project: A Trend-Based Analysis of Cleveland Game Duration
// Date: Oct 17th 2026

package trend

import "errors"

// Every failure below is terminal for the call that returned it; they come from the
// caller's data or configuration, so retrying the same input cannot succeed.
var (
	ErrEmptySeries      = errors.New("series has no records")
	ErrUnorderedYears   = errors.New("years must be strictly increasing")
	ErrAuxWidth         = errors.New("auxiliary values do not match auxiliary names")
	ErrNonFinite        = errors.New("value is infinite")
	ErrInsufficientData = errors.New("not enough observations for specification")
	ErrInvalidKnot      = errors.New("invalid knot")
	ErrSingularDesign   = errors.New("design matrix is rank deficient")
	ErrEmptyResiduals   = errors.New("not enough residuals to diagnose")
	ErrInvalidHorizon   = errors.New("forecast horizon must be > 0")
	ErrInvalidLevel     = errors.New("confidence level must be in (0, 1)")
	ErrInvalidSpec      = errors.New("invalid trend specification")
)
