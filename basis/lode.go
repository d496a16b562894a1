// SPDX-License-Identifier: MIT

package basis

import (
	"math"

	"github.com/cockroachdb/errors"
)

const (
	// lodePanelNodes is the number of Gauss-Legendre nodes per panel.
	lodePanelNodes = 8
	// psiSeriesLimit is the value of ρ/(√2σ) below which ψ uses its series.
	psiSeriesLimit = 0.1
)

// LodeIntegral projects the potential of a Gaussian-smeared unit charge,
//
//	φ(ρ) = erf(ρ / (√2σ)) / ρ,
//
// on a GTO basis. Expanding φ(|r - r_j|) over Legendre polynomials of the
// angle between r and r_j gives
//
//	g_l(r, r_j) = 2π ∫_{-1}^{1} φ(ρ) P_l(t) dt,  ρ² = r² + r_j² - 2 r r_j t
//	I_nl(r_j)   = ∫_0^{R} r² R_n(r) g_l(r, r_j) dr
//
// with R the extent of the basis. Both integrals use composite Gauss-Legendre
// rules whose panels are at most σ wide; the inner one is written in ρ rather
// than t so that panels resolve φ where it varies. Only the Coulomb exponent
// (1/r) is implemented.
type LodeIntegral struct {
	basis      *GtoRadialBasis
	maxAngular int
	sigma      float64
	extent     float64
	rule       legendreRule
}

var _ RadialIntegral = (*LodeIntegral)(nil)

// NewLodeIntegral builds the integral for one smearing width.
func NewLodeIntegral(basis *GtoRadialBasis, maxAngular int, atomicWidth float64) (*LodeIntegral, error) {
	if maxAngular < 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "max_angular must be >= 0, got %d", maxAngular)
	}
	if !(atomicWidth > 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "atomic_gaussian_width must be positive, got %v", atomicWidth)
	}

	return &LodeIntegral{
		basis:      basis,
		maxAngular: maxAngular,
		sigma:      atomicWidth,
		extent:     basis.Extent(),
		rule:       newLegendreRule(lodePanelNodes),
	}, nil
}

// MaxRadial implements RadialIntegral.
func (li *LodeIntegral) MaxRadial() int { return li.basis.maxRadial }

// MaxAngular implements RadialIntegral.
func (li *LodeIntegral) MaxAngular() int { return li.maxAngular }

// potential is φ(ρ); potential(0) is its limit √(2/π)/σ.
func (li *LodeIntegral) potential(rho float64) float64 {
	s := rho / (math.Sqrt2 * li.sigma)
	if s < 1e-8 {
		return math.Sqrt(2/math.Pi) / li.sigma
	}

	return math.Erf(s) / rho
}

// psi is φ'(ρ)/ρ, finite at ρ = 0.
func (li *LodeIntegral) psi(rho float64) float64 {
	c := math.Sqrt2 * li.sigma
	s := rho / c
	if s < psiSeriesLimit {
		// (2/√π) Σ_{k>=1} (-1)^k 2k s^{2k-2} / (k! (2k+1)) / c³
		sum, pow, fact := 0.0, 1.0, 1.0
		for k := 1; k <= 6; k++ {
			fact *= float64(k)
			term := 2 * float64(k) * pow / (fact * float64(2*k+1))
			if k%2 == 1 {
				term = -term
			}
			sum += term
			pow *= s * s
		}

		return 2 / math.SqrtPi * sum / (c * c * c)
	}
	dphi := (2/math.SqrtPi*s*math.Exp(-s*s) - math.Erf(s)) / (rho * rho)

	return dphi / rho
}

// panels splits [lo, hi] into pieces at most width long and calls fn on every
// quadrature node with its weight.
func (li *LodeIntegral) panels(lo, hi, width float64, fn func(x, w float64)) {
	if hi <= lo {
		return
	}
	count := max(1, int(math.Ceil((hi-lo)/width)))
	step := (hi - lo) / float64(count)
	for p := 0; p < count; p++ {
		start := lo + float64(p)*step
		for k, t := range li.rule.x {
			fn(start+step*t, step*li.rule.w[k])
		}
	}
}

// angular fills g[l] = g_l(r, r_j) and, when dg is not nil, dg[l] = ∂g_l/∂r_j.
func (li *LodeIntegral) angular(r, rj float64, g, dg, legendre []float64) {
	clear(g)
	if dg != nil {
		clear(dg)
	}
	lmax := li.maxAngular
	if rj == 0 {
		g[0] = 4 * math.Pi * li.potential(r)
		if dg != nil && lmax >= 1 {
			// 2π ∫ φ'(r)(-t) t dt
			dg[1] = -4 * math.Pi / 3 * li.psi(r) * r
		}
		return
	}

	// t = (r² + r_j² - ρ²)/(2 r r_j), dt = -ρ dρ/(r r_j)
	scale := 2 * math.Pi / (r * rj)
	li.panels(math.Abs(r-rj), r+rj, li.sigma, func(rho, w float64) {
		t := (r*r + rj*rj - rho*rho) / (2 * r * rj)
		legendrePolynomials(min(1, max(-1, t)), legendre)
		v := scale * w * rho * li.potential(rho)
		var d float64
		if dg != nil {
			d = scale * w * rho * li.psi(rho) * (rj - r*t)
		}
		for l := 0; l <= lmax; l++ {
			g[l] += v * legendre[l]
			if dg != nil {
				dg[l] += d * legendre[l]
			}
		}
	})
}

// Compute implements RadialIntegral.
func (li *LodeIntegral) Compute(rj float64, values, gradients []float64) {
	nmax, lmax := li.basis.maxRadial, li.maxAngular
	clear(values[:nmax*(lmax+1)])
	if gradients != nil {
		clear(gradients[:nmax*(lmax+1)])
	}

	radial := make([]float64, 3*nmax)
	g := make([]float64, lmax+1)
	legendre := make([]float64, lmax+1)
	var dg []float64
	if gradients != nil {
		dg = make([]float64, lmax+1)
	}

	li.panels(0, li.extent, li.sigma, func(r, w float64) {
		li.basis.Compute(r, radial[:nmax], nil, radial[nmax:])
		li.angular(r, rj, g, dg, legendre)
		common := w * r * r
		for l := 0; l <= lmax; l++ {
			out := values[l*nmax : (l+1)*nmax]
			for n := 0; n < nmax; n++ {
				out[n] += common * g[l] * radial[n]
			}
			if gradients != nil {
				dout := gradients[l*nmax : (l+1)*nmax]
				for n := 0; n < nmax; n++ {
					dout[n] += common * dg[l] * radial[n]
				}
			}
		}
	})
}

// legendrePolynomials fills p[l] = P_l(t).
func legendrePolynomials(t float64, p []float64) {
	p[0] = 1
	if len(p) > 1 {
		p[1] = t
	}
	for l := 2; l < len(p); l++ {
		p[l] = (float64(2*l-1)*t*p[l-1] - float64(l-1)*p[l-2]) / float64(l)
	}
}
