// SPDX-License-Identifier: MIT

package basis

import "math"

// seriesTerms bounds the power series of the modified spherical Bessel
// functions; the series is only used where it converges well before that.
const seriesTerms = 500

// ModifiedSphericalBessel fills values[l] with i_l(x)·exp(-x) for l up to
// len(values)-1, where i_l is the modified spherical Bessel function of the
// first kind. When derivatives is not nil, derivatives[l] receives
// i_l'(x)·exp(-x). x must be >= 0.
//
// Implementation:
//   - Small x (below max(20, 2·(lmax+2))): power series of every order.
//   - Large x: closed forms of i_0 and i_1, then upward recurrence
//     i_{l+1} = i_{l-1} - (2l+1)/x · i_l, which is stable in that range.
//   - Derivatives: i_l' = (l·i_{l-1} + (l+1)·i_{l+1}) / (2l+1).
func ModifiedSphericalBessel(x float64, values, derivatives []float64) {
	lmax := len(values) - 1
	// one more order for the derivatives
	n := lmax + 2
	buf := make([]float64, n)
	if x < max(20, 2*float64(n)) {
		besselSeries(x, buf)
	} else {
		besselRecurrence(x, buf)
	}
	copy(values, buf[:lmax+1])
	if derivatives == nil {
		return
	}
	for l := 0; l <= lmax; l++ {
		lower := 0.0
		if l > 0 {
			lower = float64(l) * buf[l-1]
		}
		derivatives[l] = (lower + float64(l+1)*buf[l+1]) / float64(2*l+1)
	}
}

// besselSeries uses i_l(x) = x^l/(2l+1)!! Σ_k (x²/2)^k / (k! Π_{j=1..k}(2l+2j+1)).
func besselSeries(x float64, out []float64) {
	half := 0.5 * x * x
	scale := math.Exp(-x)
	lead := 1.0 // x^l/(2l+1)!!
	for l := range out {
		if l > 0 {
			lead *= x / float64(2*l+1)
		}
		sum, term := 1.0, 1.0
		for k := 1; k < seriesTerms; k++ {
			term *= half / (float64(k) * float64(2*l+2*k+1))
			sum += term
			if term < 1e-17*sum {
				break
			}
		}
		out[l] = lead * sum * scale
	}
}

func besselRecurrence(x float64, out []float64) {
	e := math.Exp(-2 * x)
	out[0] = (1 - e) / (2 * x)
	if len(out) > 1 {
		out[1] = ((1+e)/2 - (1-e)/(2*x)) / x
	}
	for l := 1; l+1 < len(out); l++ {
		out[l+1] = out[l-1] - float64(2*l+1)/x*out[l]
	}
}
