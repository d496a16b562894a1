package calculator_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvatoms/calculator"
	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/systems"
	"github.com/katalvlaran/lvatoms/tensor"
)

// soapParameters renders spherical expansion / power spectrum hyperparameters.
func soapParameters(cutoff float64, maxRadial, maxAngular int) string {
	return fmt.Sprintf(`{
		"cutoff": %v,
		"max_radial": %d,
		"max_angular": %d,
		"atomic_gaussian_width": 0.3,
		"center_atom_weight": 1.0,
		"radial_basis": {"Gto": {}},
		"cutoff_function": {"ShiftedCosine": {"width": 0.5}}
	}`, cutoff, maxRadial, maxAngular)
}

func fixture(t testing.TB, name string) *systems.SimpleSystem {
	t.Helper()
	sys, err := systems.Fixture(name)
	require.NoError(t, err)

	return sys
}

func newCalculator(t testing.TB, kind, parameters string, opts ...calculator.Option) *calculator.Calculator {
	t.Helper()
	calc, err := calculator.New(kind, parameters, opts...)
	require.NoError(t, err)

	return calc
}

func run(t testing.TB, calc *calculator.Calculator, opts calculator.Options, list ...systems.System) *tensor.Map {
	t.Helper()
	out, err := calc.Compute(list, opts)
	require.NoError(t, err)

	return out
}

func rows(names []string, values ...[]int32) *labels.Labels {
	return labels.New(names, values)
}

// approx compares floating point slices with a relative tolerance.
var approx = cmpopts.EquateApprox(1e-12, 1e-14)

func requireApprox(t testing.TB, want, got []float64, msgAndArgs ...any) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		require.Fail(t, "values differ (-want +got):\n"+diff, msgAndArgs...)
	}
}

func componentSize(components []*labels.Labels) int {
	size := 1
	for _, c := range components {
		size *= c.Count()
	}

	return size
}

// requireRestriction checks that every entry of part equals the entry with
// the same labels in full, values and gradients.
func requireRestriction(t *testing.T, full, part *tensor.Map) {
	t.Helper()
	for b, key := range part.Keys().Iter() {
		pb := part.Block(b)
		fb, ok := full.BlockByKey(key...)
		require.True(t, ok, "key %v", key)

		properties := make([]int, pb.Properties().Count())
		for p, prop := range pb.Properties().Iter() {
			var found bool
			properties[p], found = fb.Properties().Position(prop...)
			require.True(t, found, "property %v", prop)
		}
		comps := componentSize(pb.Components())
		project := func(partRow, fullRow []float64, comps int) ([]float64, []float64) {
			np, nf := len(properties), fb.Properties().Count()
			want := make([]float64, 0, comps*np)
			got := make([]float64, 0, comps*np)
			for c := 0; c < comps; c++ {
				for p, fp := range properties {
					want = append(want, fullRow[c*nf+fp])
					got = append(got, partRow[c*np+p])
				}
			}

			return want, got
		}

		fullRows := make([]int, pb.Samples().Count())
		for r, sample := range pb.Samples().Iter() {
			f, found := fb.Samples().Position(sample...)
			require.True(t, found, "sample %v", sample)
			fullRows[r] = f
			want, got := project(pb.Values().Row(r), fb.Values().Row(f), comps)
			requireApprox(t, want, got, "key %v sample %v", key, sample)
		}

		for _, name := range pb.GradientNames() {
			pg, _ := pb.Gradient(name)
			fg, ok := fb.Gradient(name)
			require.True(t, ok, "gradient %s", name)
			gcomps := componentSize(pg.Components())
			for g, gs := range pg.Samples().Iter() {
				fullSample := append([]int32{int32(fullRows[gs[0]])}, gs[1:]...)
				f, found := fg.Samples().Position(fullSample...)
				require.True(t, found, "gradient sample %v", fullSample)
				want, got := project(pg.Values().Row(g), fg.Values().Row(f), gcomps)
				requireApprox(t, want, got, "key %v %s gradient %v", key, name, gs)
			}
		}
	}
}

// requireFiniteDifferences compares the positions gradient of calc with
// central finite differences of displacement h.
func requireFiniteDifferences(t *testing.T, calc *calculator.Calculator, sys *systems.SimpleSystem, h, tol float64) {
	t.Helper()
	ref := run(t, calc, calculator.Options{Gradients: []string{calculator.GradientPositions}}, sys)
	for atom := 0; atom < sys.Size(); atom++ {
		for dir := 0; dir < 3; dir++ {
			plus := run(t, calc, calculator.Options{}, systems.Displace(sys, atom, dir, h))
			minus := run(t, calc, calculator.Options{}, systems.Displace(sys, atom, dir, -h))
			for b, key := range ref.Keys().Iter() {
				block := ref.Block(b)
				grad, ok := block.Gradient(calculator.GradientPositions)
				require.True(t, ok)
				bp, ok := plus.BlockByKey(key...)
				require.True(t, ok)
				bm, ok := minus.BlockByKey(key...)
				require.True(t, ok)

				size := block.Values().RowSize()
				for g, gs := range grad.Samples().Iter() {
					if int(gs[2]) != atom {
						continue
					}
					sample := block.Samples().Row(int(gs[0]))
					rp, ok := bp.Samples().Position(sample...)
					require.True(t, ok)
					rm, ok := bm.Samples().Position(sample...)
					require.True(t, ok)
					vp, vm := bp.Values().Row(rp), bm.Values().Row(rm)
					analytic := grad.Values().Row(g)[dir*size : (dir+1)*size]
					for k := range analytic {
						fd := (vp[k] - vm[k]) / (2 * h)
						require.InDelta(t, fd, analytic[k], tol*(1+math.Abs(fd)),
							"key %v sample %v atom %d direction %d entry %d", key, sample, atom, dir, k)
					}
				}
			}
		}
	}
}

// requireCellFiniteDifferences compares the cell gradient of calc with
// central finite differences of the strain r → r(1 + h e_ab).
func requireCellFiniteDifferences(t *testing.T, calc *calculator.Calculator, sys *systems.SimpleSystem, h, tol float64) {
	t.Helper()
	ref := run(t, calc, calculator.Options{Gradients: []string{calculator.GradientCell}}, sys)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			strained, err := systems.Strain(sys, a, b, h)
			require.NoError(t, err)
			plus := run(t, calc, calculator.Options{}, strained)
			strained, err = systems.Strain(sys, a, b, -h)
			require.NoError(t, err)
			minus := run(t, calc, calculator.Options{}, strained)

			for k, key := range ref.Keys().Iter() {
				block := ref.Block(k)
				grad, ok := block.Gradient(calculator.GradientCell)
				require.True(t, ok)
				bp, ok := plus.BlockByKey(key...)
				require.True(t, ok)
				bm, ok := minus.BlockByKey(key...)
				require.True(t, ok)

				size := block.Values().RowSize()
				for r, sample := range block.Samples().Iter() {
					rp, ok := bp.Samples().Position(sample...)
					require.True(t, ok)
					rm, ok := bm.Samples().Position(sample...)
					require.True(t, ok)
					vp, vm := bp.Values().Row(rp), bm.Values().Row(rm)
					analytic := grad.Values().Row(r)[(3*a+b)*size : (3*a+b+1)*size]
					for i := range analytic {
						fd := (vp[i] - vm[i]) / (2 * h)
						require.InDelta(t, fd, analytic[i], tol*(1+math.Abs(fd)),
							"key %v sample %v strain %d%d entry %d", key, sample, a, b, i)
					}
				}
			}
		}
	}
}
