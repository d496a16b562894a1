// SPDX-License-Identifier: MIT

package basis

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

const (
	// DefaultSplineAccuracy is the default largest absolute error of a
	// splined radial integral at the midpoints of its grid.
	DefaultSplineAccuracy = 1e-8

	initialSplinePoints = 33
	maxSplinePoints     = 1<<12 + 1
)

// Splined replaces a RadialIntegral by cubic Hermite interpolation on
// [0, cutoff], using the exact values and derivatives at the grid points.
type Splined struct {
	maxRadial  int
	maxAngular int
	cutoff     float64
	points     int
	splines    []*interp.PiecewiseCubic // l*maxRadial + n
}

var _ RadialIntegral = (*Splined)(nil)

// NewSplined tabulates exact on [0, cutoff].
// MAIN DESCRIPTION:
//   - Build Hermite splines whose error at every grid midpoint is below accuracy.
//
// Implementation:
//   - Stage 1: evaluate exact on 33 equally spaced points.
//   - Stage 2: fit one gonum interp.PiecewiseCubic per (l, n) with the exact
//     derivatives (FitWithDerivatives).
//   - Stage 3: evaluate exact at the midpoints; when the largest error is above
//     accuracy, merge midpoints into the grid and go back to Stage 2.
//
// Errors:
//   - ErrInvalidParameter for a non-positive cutoff or accuracy.
//   - ErrSplineAccuracy when 2^12+1 points are not enough.
func NewSplined(exact RadialIntegral, cutoff, accuracy float64) (*Splined, error) {
	if !(cutoff > 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "cutoff must be positive, got %v", cutoff)
	}
	if !(accuracy > 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "spline_accuracy must be positive, got %v", accuracy)
	}
	nmax, lmax := exact.MaxRadial(), exact.MaxAngular()
	size := nmax * (lmax + 1)

	xs := floats.Span(make([]float64, initialSplinePoints), 0, cutoff)
	ys := make([][]float64, len(xs)) // per grid point, values of every (l, n)
	ds := make([][]float64, len(xs))
	for i, x := range xs {
		ys[i], ds[i] = make([]float64, size), make([]float64, size)
		exact.Compute(x, ys[i], ds[i])
	}

	for {
		splines := fitSplines(xs, ys, ds, size)

		mx := make([]float64, len(xs)-1)
		my := make([][]float64, len(mx))
		md := make([][]float64, len(mx))
		worst := 0.0
		for i := range mx {
			mx[i] = 0.5 * (xs[i] + xs[i+1])
			my[i], md[i] = make([]float64, size), make([]float64, size)
			exact.Compute(mx[i], my[i], md[i])
			for k, s := range splines {
				worst = max(worst, math.Abs(s.Predict(mx[i])-my[i][k]))
			}
		}
		if worst < accuracy {
			return &Splined{
				maxRadial:  nmax,
				maxAngular: lmax,
				cutoff:     cutoff,
				points:     len(xs),
				splines:    splines,
			}, nil
		}

		n := 2*len(xs) - 1
		if n > maxSplinePoints {
			return nil, errors.WithHintf(
				errors.Wrapf(ErrSplineAccuracy, "error %g above %g with %d points", worst, accuracy, len(xs)),
				"increase spline_accuracy or disable splined_radial_integral")
		}
		nx := make([]float64, 0, n)
		ny := make([][]float64, 0, n)
		nd := make([][]float64, 0, n)
		for i := range xs {
			nx, ny, nd = append(nx, xs[i]), append(ny, ys[i]), append(nd, ds[i])
			if i < len(mx) {
				nx, ny, nd = append(nx, mx[i]), append(ny, my[i]), append(nd, md[i])
			}
		}
		xs, ys, ds = nx, ny, nd
	}
}

func fitSplines(xs []float64, ys, ds [][]float64, size int) []*interp.PiecewiseCubic {
	splines := make([]*interp.PiecewiseCubic, size)
	col := make([]float64, len(xs))
	dcol := make([]float64, len(xs))
	for k := 0; k < size; k++ {
		for i := range xs {
			col[i], dcol[i] = ys[i][k], ds[i][k]
		}
		var pc interp.PiecewiseCubic
		pc.FitWithDerivatives(xs, col, dcol)
		splines[k] = &pc
	}

	return splines
}

// MaxRadial implements RadialIntegral.
func (s *Splined) MaxRadial() int { return s.maxRadial }

// MaxAngular implements RadialIntegral.
func (s *Splined) MaxAngular() int { return s.maxAngular }

// Points is the number of grid points of the tables.
func (s *Splined) Points() int { return s.points }

// Compute implements RadialIntegral. r must be within [0, cutoff].
func (s *Splined) Compute(r float64, values, gradients []float64) {
	for k, sp := range s.splines {
		values[k] = sp.Predict(r)
		if gradients != nil {
			gradients[k] = sp.PredictDerivative(r)
		}
	}
}
