// SPDX-License-Identifier: MIT

package basis

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// GtoRadialBasis is a set of orthonormalised Gaussian-type orbitals.
//
// The primitive functions are ψ_n(r) = N_n r^n exp(-b_n r²), with
// σ_n = cutoff·max(√n, 1)/maxRadial and b_n = 1/(2σ_n²), each normalised so
// that ∫ r² ψ_n² dr = 1. The orthonormal basis is R = S^{-1/2} ψ with S the
// overlap matrix of the primitives.
type GtoRadialBasis struct {
	maxRadial int
	cutoff    float64
	sigma     []float64
	b         []float64
	norm      []float64
	transform []float64 // S^{-1/2}, row-major maxRadial×maxRadial
}

// NewGtoRadialBasis builds the basis.
// MAIN DESCRIPTION:
//   - Compute widths, normalisation and the symmetric orthonormalisation.
//
// Implementation:
//   - Stage 1: σ_n, b_n and N_n = sqrt(2 (2b_n)^{n+3/2} / Γ(n+3/2)).
//   - Stage 2: S_nm = N_n N_m Γ((n+m+3)/2) / (2 (b_n+b_m)^{(n+m+3)/2}).
//   - Stage 3: S^{-1/2} = V diag(λ^{-1/2}) Vᵀ from gonum mat.EigenSym.
//
// Errors:
//   - ErrInvalidParameter for maxRadial < 1 or a non-positive cutoff.
//   - ErrSingularOverlap when the eigendecomposition fails or S is not
//     positive definite.
//
// Complexity:
//   - Time O(maxRadial³), Space O(maxRadial²).
func NewGtoRadialBasis(maxRadial int, cutoff float64) (*GtoRadialBasis, error) {
	if maxRadial < 1 {
		return nil, errors.Wrapf(ErrInvalidParameter, "max_radial must be >= 1, got %d", maxRadial)
	}
	if !(cutoff > 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "cutoff must be positive, got %v", cutoff)
	}
	g := &GtoRadialBasis{
		maxRadial: maxRadial,
		cutoff:    cutoff,
		sigma:     make([]float64, maxRadial),
		b:         make([]float64, maxRadial),
		norm:      make([]float64, maxRadial),
		transform: make([]float64, maxRadial*maxRadial),
	}
	for n := 0; n < maxRadial; n++ {
		g.sigma[n] = cutoff * max(math.Sqrt(float64(n)), 1) / float64(maxRadial)
		g.b[n] = 1 / (2 * g.sigma[n] * g.sigma[n])
		fn := float64(n)
		g.norm[n] = math.Sqrt(2 * math.Pow(2*g.b[n], fn+1.5) / math.Gamma(fn+1.5))
	}

	overlap := mat.NewSymDense(maxRadial, nil)
	for n := 0; n < maxRadial; n++ {
		for m := n; m < maxRadial; m++ {
			p := 0.5 * float64(n+m+3)
			s := g.norm[n] * g.norm[m] * math.Gamma(p) / (2 * math.Pow(g.b[n]+g.b[m], p))
			overlap.SetSym(n, m, s)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(overlap, true); !ok {
		return nil, errors.Wrap(ErrSingularOverlap, "eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	inv := make([]float64, maxRadial)
	for i, v := range values {
		if !(v > 0) {
			return nil, errors.Wrapf(ErrSingularOverlap, "eigenvalue %d is %g", i, v)
		}
		inv[i] = 1 / math.Sqrt(v)
	}
	var half, invSqrt mat.Dense
	half.Mul(&vectors, mat.NewDiagDense(maxRadial, inv))
	invSqrt.Mul(&half, vectors.T())
	for n := 0; n < maxRadial; n++ {
		for k := 0; k < maxRadial; k++ {
			g.transform[n*maxRadial+k] = invSqrt.At(n, k)
		}
	}

	return g, nil
}

// MaxRadial is the number of radial functions.
func (g *GtoRadialBasis) MaxRadial() int { return g.maxRadial }

// Cutoff is the radius the widths were derived from.
func (g *GtoRadialBasis) Cutoff() float64 { return g.cutoff }

// Sigma returns σ_n of the n-th primitive.
func (g *GtoRadialBasis) Sigma(n int) float64 { return g.sigma[n] }

// Extent is a radius beyond which every basis function is negligible
// (below exp(-50) of its maximum).
func (g *GtoRadialBasis) Extent() float64 {
	extent := 0.0
	for n, s := range g.sigma {
		extent = max(extent, (math.Sqrt(float64(n))+10)*s)
	}

	return extent
}

// Compute fills values[n] with R_n(r). When derivatives is not nil it also
// fills derivatives[n] with dR_n/dr. scratch must hold 2*maxRadial values or
// be nil.
func (g *GtoRadialBasis) Compute(r float64, values, derivatives, scratch []float64) {
	if len(scratch) < 2*g.maxRadial {
		scratch = make([]float64, 2*g.maxRadial)
	}
	prim, dprim := scratch[:g.maxRadial], scratch[g.maxRadial:2*g.maxRadial]
	for n := 0; n < g.maxRadial; n++ {
		e := g.norm[n] * math.Exp(-g.b[n]*r*r)
		rn := 1.0
		if n > 0 {
			rn = math.Pow(r, float64(n))
		}
		prim[n] = rn * e
		// d/dr r^n e^{-b r²} = (n/r - 2 b r) r^n e^{-b r²}
		drn := 0.0
		if n > 0 {
			drn = float64(n) * math.Pow(r, float64(n-1))
		}
		dprim[n] = (drn - 2*g.b[n]*r*rn) * e
	}
	for n := 0; n < g.maxRadial; n++ {
		row := g.transform[n*g.maxRadial : (n+1)*g.maxRadial]
		v, d := 0.0, 0.0
		for k, t := range row {
			v += t * prim[k]
			d += t * dprim[k]
		}
		values[n] = v
		if derivatives != nil {
			derivatives[n] = d
		}
	}
}
