// SPDX-License-Identifier: MIT

package basis

import "math"

// CutoffFunction smooths contributions close to the cutoff.
type CutoffFunction interface {
	// Value at distance r for the given cutoff.
	Value(r, cutoff float64) float64
	// Derivative with respect to r.
	Derivative(r, cutoff float64) float64
}

// Step is 1 inside the cutoff and 0 outside.
type Step struct{}

// Value implements CutoffFunction.
func (Step) Value(r, cutoff float64) float64 {
	if r <= cutoff {
		return 1
	}

	return 0
}

// Derivative implements CutoffFunction.
func (Step) Derivative(float64, float64) float64 { return 0 }

// ShiftedCosine is 1 up to cutoff - Width, then decays as a cosine to 0 at the
// cutoff.
type ShiftedCosine struct {
	Width float64
}

// Value implements CutoffFunction.
func (s ShiftedCosine) Value(r, cutoff float64) float64 {
	switch {
	case r <= cutoff-s.Width:
		return 1
	case r >= cutoff:
		return 0
	}
	x := (r - cutoff + s.Width) / s.Width

	return 0.5 * (1 + math.Cos(math.Pi*x))
}

// Derivative implements CutoffFunction.
func (s ShiftedCosine) Derivative(r, cutoff float64) float64 {
	if r <= cutoff-s.Width || r >= cutoff {
		return 0
	}
	x := (r - cutoff + s.Width) / s.Width

	return -0.5 * math.Pi / s.Width * math.Sin(math.Pi*x)
}
