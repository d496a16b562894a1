// SPDX-License-Identifier: MIT

package basis

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/integrate/quad"
)

// RadialIntegral evaluates I_nl(r), the radial part of the projection of a
// neighbor at distance r on radial function n and angular order l, and its
// derivative with respect to r.
type RadialIntegral interface {
	MaxRadial() int
	MaxAngular() int
	// Compute fills values[l*MaxRadial()+n]. gradients may be nil.
	// Implementations must be safe for concurrent use.
	Compute(r float64, values, gradients []float64)
}

// gaussianWindow is the half-width, in units of the atomic width, outside of
// which the neighbor density is treated as zero.
const gaussianWindow = 10.0

// DefaultGaussianNodes is the number of Gauss-Legendre nodes used by
// GaussianIntegral.
const DefaultGaussianNodes = 80

// legendreRule holds Gauss-Legendre nodes and weights on [0, 1].
type legendreRule struct {
	x, w []float64
}

func newLegendreRule(n int) legendreRule {
	r := legendreRule{x: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(r.x, r.w, 0, 1)

	return r
}

// GaussianIntegral projects a Gaussian atomic density of width σ on a GTO
// basis:
//
//	I_nl(r_j) = 4π (πσ²)^{-3/4} ∫ r² R_n(r) exp(-a(r-r_j)²) i_l(2a r r_j) exp(-2a r r_j) dr
//
// with a = 1/(2σ²), integrated by Gauss-Legendre quadrature over
// [max(0, r_j - 10σ), r_j + 10σ].
type GaussianIntegral struct {
	basis      *GtoRadialBasis
	maxAngular int
	sigma      float64
	a          float64
	prefactor  float64
	rule       legendreRule
}

var _ RadialIntegral = (*GaussianIntegral)(nil)

// NewGaussianIntegral builds the integral for one atomic width.
func NewGaussianIntegral(basis *GtoRadialBasis, maxAngular int, atomicWidth float64) (*GaussianIntegral, error) {
	if maxAngular < 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "max_angular must be >= 0, got %d", maxAngular)
	}
	if !(atomicWidth > 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "atomic_gaussian_width must be positive, got %v", atomicWidth)
	}

	return &GaussianIntegral{
		basis:      basis,
		maxAngular: maxAngular,
		sigma:      atomicWidth,
		a:          1 / (2 * atomicWidth * atomicWidth),
		prefactor:  4 * math.Pi * math.Pow(math.Pi*atomicWidth*atomicWidth, -0.75),
		rule:       newLegendreRule(DefaultGaussianNodes),
	}, nil
}

// MaxRadial implements RadialIntegral.
func (gi *GaussianIntegral) MaxRadial() int { return gi.basis.maxRadial }

// MaxAngular implements RadialIntegral.
func (gi *GaussianIntegral) MaxAngular() int { return gi.maxAngular }

// Compute implements RadialIntegral. The derivative integrand is
// exp(-a(r-r_j)²)·(2a r i_l'(x) - 2a r_j i_l(x))·exp(-x).
func (gi *GaussianIntegral) Compute(rj float64, values, gradients []float64) {
	nmax, lmax := gi.basis.maxRadial, gi.maxAngular
	clear(values[:nmax*(lmax+1)])
	if gradients != nil {
		clear(gradients[:nmax*(lmax+1)])
	}

	lo := max(0, rj-gaussianWindow*gi.sigma)
	hi := rj + gaussianWindow*gi.sigma
	width := hi - lo

	radial := make([]float64, 3*nmax)
	bessel := make([]float64, lmax+1)
	var dbessel []float64
	if gradients != nil {
		dbessel = make([]float64, lmax+1)
	}

	for k, t := range gi.rule.x {
		r := lo + width*t
		w := width * gi.rule.w[k]
		gauss := math.Exp(-gi.a * (r - rj) * (r - rj))
		gi.basis.Compute(r, radial[:nmax], nil, radial[nmax:])
		ModifiedSphericalBessel(2*gi.a*r*rj, bessel, dbessel)
		common := w * r * r * gauss * gi.prefactor
		for l := 0; l <= lmax; l++ {
			v := common * bessel[l]
			var g float64
			if gradients != nil {
				g = common * (2*gi.a*r*dbessel[l] - 2*gi.a*rj*bessel[l])
			}
			out := values[l*nmax : (l+1)*nmax]
			for n := 0; n < nmax; n++ {
				out[n] += v * radial[n]
			}
			if gradients != nil {
				dout := gradients[l*nmax : (l+1)*nmax]
				for n := 0; n < nmax; n++ {
					dout[n] += g * radial[n]
				}
			}
		}
	}
}
