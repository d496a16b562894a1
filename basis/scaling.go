// SPDX-License-Identifier: MIT

package basis

import "math"

// RadialScaling weights each neighbor by a function of its distance.
type RadialScaling interface {
	Value(r float64) float64
	Derivative(r float64) float64
}

// NoScaling weights every neighbor by 1.
type NoScaling struct{}

// Value implements RadialScaling.
func (NoScaling) Value(float64) float64 { return 1 }

// Derivative implements RadialScaling.
func (NoScaling) Derivative(float64) float64 { return 0 }

// Willatt2018 is rate / (rate + (r/scale)^exponent), or 1/(r/scale)^exponent
// when rate is zero.
type Willatt2018 struct {
	Scale    float64
	Rate     float64
	Exponent float64
}

// Value implements RadialScaling.
func (w Willatt2018) Value(r float64) float64 {
	p := math.Pow(r/w.Scale, w.Exponent)
	if w.Rate == 0 {
		return 1 / p
	}

	return w.Rate / (w.Rate + p)
}

// Derivative implements RadialScaling.
func (w Willatt2018) Derivative(r float64) float64 {
	if r == 0 {
		return 0
	}
	p := math.Pow(r/w.Scale, w.Exponent)
	dp := w.Exponent * p / r
	if w.Rate == 0 {
		return -dp / (p * p)
	}
	d := w.Rate + p

	return -w.Rate * dp / (d * d)
}
