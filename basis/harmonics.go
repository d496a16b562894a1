// SPDX-License-Identifier: MIT

package basis

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/systems"
)

// LM is the position of harmonic (l, m) in a flat table.
func LM(l, m int) int { return l*l + l + m }

// SphericalHarmonics evaluates real, orthonormal spherical harmonics up to a
// maximal angular order.
//
// On the unit sphere Y_l^m is the polynomial
//
//	√2 K_l^m Q_l^m(z) C_m(x, y)    m > 0
//	K_l^0 Q_l^0(z)                 m = 0
//	√2 K_l^|m| Q_l^|m|(z) S_|m|(x, y)  m < 0
//
// with C_m + i S_m = (x + i y)^m, Q_l^m the m-th derivative of the Legendre
// polynomial P_l and K_l^m = sqrt((2l+1)/4π · (l-m)!/(l+m)!). Gradients with
// respect to the (non-unit) vector r are the tangential part of the polynomial
// gradient, divided by |r|.
//
// A SphericalHarmonics value holds scratch space; it is not safe for
// concurrent use. Create one per worker.
type SphericalHarmonics struct {
	maxAngular int
	k          []float64   // K_l^m at l*(l+1)/2 + m, m >= 0
	q          [][]float64 // Q_l^m scratch, q[l][m], m up to l+1
	c, s       []float64   // C_m, S_m scratch
}

// NewSphericalHarmonics prepares the normalisation table.
func NewSphericalHarmonics(maxAngular int) (*SphericalHarmonics, error) {
	if maxAngular < 0 {
		return nil, errors.Wrapf(ErrInvalidParameter, "max_angular must be >= 0, got %d", maxAngular)
	}
	sh := &SphericalHarmonics{
		maxAngular: maxAngular,
		k:          make([]float64, (maxAngular+1)*(maxAngular+2)/2),
		q:          make([][]float64, maxAngular+1),
		c:          make([]float64, maxAngular+1),
		s:          make([]float64, maxAngular+1),
	}
	for l := 0; l <= maxAngular; l++ {
		sh.q[l] = make([]float64, l+2)
		for m := 0; m <= l; m++ {
			// (l-m)!/(l+m)! as a product to stay finite
			ratio := 1.0
			for f := l - m + 1; f <= l+m; f++ {
				ratio /= float64(f)
			}
			sh.k[l*(l+1)/2+m] = math.Sqrt(float64(2*l+1) / (4 * math.Pi) * ratio)
		}
	}

	return sh, nil
}

// MaxAngular is the highest l evaluated.
func (sh *SphericalHarmonics) MaxAngular() int { return sh.maxAngular }

// Size is the length of the tables filled by Compute, (maxAngular+1)².
func (sh *SphericalHarmonics) Size() int { return (sh.maxAngular + 1) * (sh.maxAngular + 1) }

// Compute fills values[LM(l,m)] with Y_l^m(r/|r|). When gradients[0] is not nil,
// gradients[d][LM(l,m)] receives ∂Y_l^m/∂r_d. r must not be the zero vector.
func (sh *SphericalHarmonics) Compute(r systems.Vector3D, values []float64, gradients [3][]float64) {
	d := r.Norm()
	x, y, z := r[0]/d, r[1]/d, r[2]/d
	L := sh.maxAngular

	sh.c[0], sh.s[0] = 1, 0
	for m := 1; m <= L; m++ {
		sh.c[m] = x*sh.c[m-1] - y*sh.s[m-1]
		sh.s[m] = x*sh.s[m-1] + y*sh.c[m-1]
	}

	// Q_l^m(z); q[l][l+1] stays 0
	dfact := 1.0
	for m := 0; m <= L; m++ {
		if m > 0 {
			dfact *= float64(2*m - 1)
		}
		sh.q[m][m] = dfact
		if m+1 <= L {
			sh.q[m+1][m] = float64(2*m+1) * z * dfact
		}
		for l := m + 2; l <= L; l++ {
			sh.q[l][m] = (float64(2*l-1)*z*sh.q[l-1][m] - float64(l+m-1)*sh.q[l-2][m]) / float64(l-m)
		}
	}

	for l := 0; l <= L; l++ {
		ql := sh.q[l]
		for m := 0; m <= l; m++ {
			k := sh.k[l*(l+1)/2+m]
			if m == 0 {
				values[LM(l, 0)] = k * ql[0]
				continue
			}
			k *= math.Sqrt2
			values[LM(l, m)] = k * ql[m] * sh.c[m]
			values[LM(l, -m)] = k * ql[m] * sh.s[m]
		}
	}
	if gradients[0] == nil {
		return
	}

	for l := 0; l <= L; l++ {
		ql := sh.q[l]
		for m := -l; m <= l; m++ {
			am := max(m, -m)
			k := sh.k[l*(l+1)/2+am]
			var g systems.Vector3D
			switch {
			case m == 0:
				g = systems.Vector3D{0, 0, k * ql[1]}
			case m > 0:
				k *= math.Sqrt2
				fm := float64(m)
				g = systems.Vector3D{
					k * ql[m] * fm * sh.c[m-1],
					-k * ql[m] * fm * sh.s[m-1],
					k * ql[m+1] * sh.c[m],
				}
			default:
				k *= math.Sqrt2
				fm := float64(am)
				g = systems.Vector3D{
					k * ql[am] * fm * sh.s[am-1],
					k * ql[am] * fm * sh.c[am-1],
					k * ql[am+1] * sh.s[am],
				}
			}
			// project on the tangent plane and account for |r|
			gu := g[0]*x + g[1]*y + g[2]*z
			idx := LM(l, m)
			gradients[0][idx] = (g[0] - gu*x) / d
			gradients[1][idx] = (g[1] - gu*y) / d
			gradients[2][idx] = (g[2] - gu*z) / d
		}
	}
}
