package models

import "math"

// F is a pointer constructor for optional numerics, mostly used by tests and
// fixture builders.
func F(v float64) *float64 { return &v }

// Val dereferences an optional, treating nil as zero. Rules that must
// distinguish "missing" from "zero" check the pointer first.
func Val(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Has reports whether every optional in the list is present.
func Has(vs ...*float64) bool {
	for _, v := range vs {
		if v == nil {
			return false
		}
	}
	return true
}

// Div divides two optionals, returning nil when either side is missing or the
// denominator is zero. This is the standard divide-by-zero guard for ratio and
// rule formulas.
func Div(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}

// Growth computes the fractional change from prior to current, nil when either
// side is missing or prior is zero. Prior is taken in absolute value so a swing
// out of a loss still reads as an increase.
func Growth(current, prior *float64) *float64 {
	if current == nil || prior == nil || *prior == 0 {
		return nil
	}
	g := (*current - *prior) / math.Abs(*prior)
	return &g
}

func abs(v float64) float64 { return math.Abs(v) }
