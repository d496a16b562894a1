package basis_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/katalvlaran/lvatoms/basis"
	"github.com/katalvlaran/lvatoms/systems"
)

// centralDifference approximates f'(x).
func centralDifference(f func(float64) float64, x, h float64) float64 {
	return (f(x+h) - f(x-h)) / (2 * h)
}

func TestCutoffFunctions(t *testing.T) {
	c := basis.ShiftedCosine{Width: 0.5}
	require.Equal(t, 1.0, c.Value(2.0, 3.0))
	require.Equal(t, 0.0, c.Value(3.0, 3.0))
	require.InDelta(t, 0.5, c.Value(2.75, 3.0), 1e-12)
	for _, r := range []float64{2.6, 2.75, 2.9} {
		fd := centralDifference(func(x float64) float64 { return c.Value(x, 3) }, r, 1e-6)
		require.InDelta(t, fd, c.Derivative(r, 3), 1e-7)
	}

	s := basis.Step{}
	require.Equal(t, 1.0, s.Value(3.0, 3.0))
	require.Equal(t, 0.0, s.Value(3.1, 3.0))
	require.Equal(t, 0.0, s.Derivative(1, 3))
}

func TestRadialScaling(t *testing.T) {
	w := basis.Willatt2018{Scale: 1.5, Rate: 0.8, Exponent: 2}
	require.InDelta(t, 0.8/(0.8+1), w.Value(1.5), 1e-12)
	for _, r := range []float64{0.5, 1.2, 3.0} {
		fd := centralDifference(w.Value, r, 1e-6)
		require.InDelta(t, fd, w.Derivative(r), 1e-7)
	}
	noRate := basis.Willatt2018{Scale: 2, Exponent: 3}
	require.InDelta(t, 1.0, noRate.Value(2), 1e-12)
	require.InDelta(t, centralDifference(noRate.Value, 1.7, 1e-6), noRate.Derivative(1.7), 1e-6)

	require.Equal(t, 1.0, basis.NoScaling{}.Value(4))
}

func TestSphericalHarmonics_KnownValues(t *testing.T) {
	sh, err := basis.NewSphericalHarmonics(2)
	require.NoError(t, err)
	values := make([]float64, sh.Size())

	r := systems.Vector3D{1, 2, 2} // |r| = 3
	sh.Compute(r, values, [3][]float64{})
	x, y, z := 1.0/3, 2.0/3, 2.0/3
	want := []float64{
		0.5 / math.SqrtPi,                     // Y00
		math.Sqrt(3/(4*math.Pi)) * y,          // Y1-1
		math.Sqrt(3/(4*math.Pi)) * z,          // Y10
		math.Sqrt(3/(4*math.Pi)) * x,          // Y11
		0.5 * math.Sqrt(15/math.Pi) * x * y,   // Y2-2
		0.5 * math.Sqrt(15/math.Pi) * y * z,   // Y2-1
		0.25 * math.Sqrt(5/math.Pi) * (3*z*z - 1),
		0.5 * math.Sqrt(15/math.Pi) * x * z,   // Y21
		0.25 * math.Sqrt(15/math.Pi) * (x*x - y*y),
	}
	require.True(t, cmp.Equal(want, values, cmpopts.EquateApprox(0, 1e-12)), cmp.Diff(want, values))

	_, err = basis.NewSphericalHarmonics(-1)
	require.ErrorIs(t, err, basis.ErrInvalidParameter)
}

func TestSphericalHarmonics_Orthonormal(t *testing.T) {
	const lmax = 5
	sh, err := basis.NewSphericalHarmonics(lmax)
	require.NoError(t, err)
	size := sh.Size()

	// Gauss-Legendre in cos(θ) and a uniform rule in φ are exact for these
	// polynomials
	nt, np := 12, 24
	ct, wt := make([]float64, nt), make([]float64, nt)
	quad.Legendre{}.FixedLocations(ct, wt, -1, 1)

	gram := make([]float64, size*size)
	values := make([]float64, size)
	for i := range ct {
		st := math.Sqrt(1 - ct[i]*ct[i])
		for j := 0; j < np; j++ {
			phi := 2 * math.Pi * float64(j) / float64(np)
			sh.Compute(systems.Vector3D{st * math.Cos(phi), st * math.Sin(phi), ct[i]}, values, [3][]float64{})
			w := wt[i] * 2 * math.Pi / float64(np)
			for a := 0; a < size; a++ {
				for b := 0; b < size; b++ {
					gram[a*size+b] += w * values[a] * values[b]
				}
			}
		}
	}
	for a := 0; a < size; a++ {
		for b := 0; b < size; b++ {
			want := 0.0
			if a == b {
				want = 1
			}
			require.InDelta(t, want, gram[a*size+b], 1e-10, "entry (%d, %d)", a, b)
		}
	}
}

func TestSphericalHarmonics_Gradients(t *testing.T) {
	sh, err := basis.NewSphericalHarmonics(4)
	require.NoError(t, err)
	size := sh.Size()
	values := make([]float64, size)
	grads := [3][]float64{make([]float64, size), make([]float64, size), make([]float64, size)}
	plus, minus := make([]float64, size), make([]float64, size)

	r := systems.Vector3D{0.3, -1.1, 0.7}
	sh.Compute(r, values, grads)
	const h = 1e-6
	for d := 0; d < 3; d++ {
		rp, rm := r, r
		rp[d] += h
		rm[d] -= h
		sh.Compute(rp, plus, [3][]float64{})
		sh.Compute(rm, minus, [3][]float64{})
		for k := 0; k < size; k++ {
			require.InDelta(t, (plus[k]-minus[k])/(2*h), grads[d][k], 1e-7, "direction %d, lm %d", d, k)
		}
	}
}

func TestModifiedSphericalBessel(t *testing.T) {
	exact := func(x float64) [3]float64 {
		sh, ch := math.Sinh(x), math.Cosh(x)
		return [3]float64{
			sh / x,
			(x*ch - sh) / (x * x),
			((3/(x*x)+1)*sh - 3*ch/x) / x,
		}
	}
	values := make([]float64, 3)
	derivatives := make([]float64, 3)
	for _, x := range []float64{0.5, 3, 19.9, 25, 40} {
		basis.ModifiedSphericalBessel(x, values, derivatives)
		want := exact(x)
		for l := 0; l < 3; l++ {
			require.InEpsilon(t, want[l]*math.Exp(-x), values[l], 1e-8, "x = %v, l = %d", x, l)
		}
		fd := centralDifference(func(y float64) float64 { return exact(y)[1] }, x, 1e-5*max(1, x))
		require.InEpsilon(t, fd*math.Exp(-x), derivatives[1], 1e-6, "x = %v", x)
	}

	basis.ModifiedSphericalBessel(0, values, derivatives)
	require.Equal(t, []float64{1, 0, 0}, values)
	require.InDelta(t, 1.0/3, derivatives[1], 1e-15)
}

func TestGtoRadialBasis_Orthonormal(t *testing.T) {
	g, err := basis.NewGtoRadialBasis(6, 4.5)
	require.NoError(t, err)
	n := g.MaxRadial()

	xs, ws := make([]float64, 400), make([]float64, 400)
	quad.Legendre{}.FixedLocations(xs, ws, 0, g.Extent())
	values := make([]float64, n)
	gram := make([]float64, n*n)
	for k, r := range xs {
		g.Compute(r, values, nil, nil)
		for a := 0; a < n; a++ {
			for b := 0; b < n; b++ {
				gram[a*n+b] += ws[k] * r * r * values[a] * values[b]
			}
		}
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			want := 0.0
			if a == b {
				want = 1
			}
			require.InDelta(t, want, gram[a*n+b], 1e-8)
		}
	}

	derivatives := make([]float64, n)
	g.Compute(1.3, values, derivatives, nil)
	for k := 0; k < n; k++ {
		fd := centralDifference(func(r float64) float64 {
			v := make([]float64, n)
			g.Compute(r, v, nil, nil)
			return v[k]
		}, 1.3, 1e-6)
		require.InDelta(t, fd, derivatives[k], 1e-6)
	}

	_, err = basis.NewGtoRadialBasis(0, 4.5)
	require.ErrorIs(t, err, basis.ErrInvalidParameter)
}

// requireRadialDerivatives compares analytic and finite-difference derivatives
// of a radial integral.
func requireRadialDerivatives(t *testing.T, ri basis.RadialIntegral, r, tol float64) {
	t.Helper()
	size := ri.MaxRadial() * (ri.MaxAngular() + 1)
	values, grads := make([]float64, size), make([]float64, size)
	plus, minus := make([]float64, size), make([]float64, size)
	ri.Compute(r, values, grads)
	const h = 1e-5
	ri.Compute(r+h, plus, nil)
	ri.Compute(r-h, minus, nil)
	for k := 0; k < size; k++ {
		require.InDelta(t, (plus[k]-minus[k])/(2*h), grads[k], tol, "entry %d at r = %v", k, r)
	}
}

func TestGaussianIntegral_Derivatives(t *testing.T) {
	g, err := basis.NewGtoRadialBasis(4, 4)
	require.NoError(t, err)
	gi, err := basis.NewGaussianIntegral(g, 3, 0.4)
	require.NoError(t, err)
	for _, r := range []float64{0.2, 1.0, 2.7, 3.9} {
		requireRadialDerivatives(t, gi, r, 1e-6)
	}

	// at r = 0 only l = 0 survives
	size := 4 * 4
	values := make([]float64, size)
	gi.Compute(0, values, nil)
	for k := 4; k < size; k++ {
		require.InDelta(t, 0.0, values[k], 1e-14)
	}

	_, err = basis.NewGaussianIntegral(g, 3, 0)
	require.ErrorIs(t, err, basis.ErrInvalidParameter)
}

func TestLodeIntegral_Derivatives(t *testing.T) {
	g, err := basis.NewGtoRadialBasis(3, 3)
	require.NoError(t, err)
	li, err := basis.NewLodeIntegral(g, 2, 0.5)
	require.NoError(t, err)
	for _, r := range []float64{0.4, 1.5, 2.8} {
		requireRadialDerivatives(t, li, r, 1e-5)
	}
}

func TestSplined_MatchesExact(t *testing.T) {
	g, err := basis.NewGtoRadialBasis(4, 3.5)
	require.NoError(t, err)
	gi, err := basis.NewGaussianIntegral(g, 3, 0.3)
	require.NoError(t, err)
	sp, err := basis.NewSplined(gi, 3.5, 1e-8)
	require.NoError(t, err)
	require.Greater(t, sp.Points(), 32)

	size := 4 * 4
	want, got := make([]float64, size), make([]float64, size)
	dwant, dgot := make([]float64, size), make([]float64, size)
	for _, r := range []float64{0.05, 0.77, 1.91, 3.33} {
		gi.Compute(r, want, dwant)
		sp.Compute(r, got, dgot)
		require.True(t, cmp.Equal(want, got, cmpopts.EquateApprox(0, 1e-7)), cmp.Diff(want, got))
		require.True(t, cmp.Equal(dwant, dgot, cmpopts.EquateApprox(0, 1e-4)), cmp.Diff(dwant, dgot))
	}

	_, err = basis.NewSplined(gi, 3.5, 1e-30)
	require.ErrorIs(t, err, basis.ErrSplineAccuracy)
}
