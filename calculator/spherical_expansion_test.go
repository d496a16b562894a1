package calculator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvatoms/calculator"
	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/systems"
)

var expansionKeyNames = []string{"spherical_harmonics_l", "species_center", "species_neighbor"}

// denseCrystal is two atoms in a small cubic cell, so that every atom sees its
// own periodic images within the cutoff.
func denseCrystal(t *testing.T) *systems.SimpleSystem {
	t.Helper()
	sys, err := systems.NewSimpleSystem(systems.Cubic(3.2), []int32{1, 8},
		[]systems.Vector3D{{0.1, 0.2, 0.3}, {1.5, 1.4, 1.9}})
	require.NoError(t, err)

	return sys
}

func TestSphericalExpansion_Keys(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 2))
	require.Equal(t, "spherical expansion", calc.Name())
	out := run(t, calc, calculator.Options{}, fixture(t, "water"))

	var want [][]int32
	for l := int32(0); l <= 2; l++ {
		for _, pair := range [][2]int32{{1, 1}, {1, 8}, {8, 1}, {8, 8}} {
			want = append(want, []int32{l, pair[0], pair[1]})
		}
	}
	require.Equal(t, labels.New(expansionKeyNames, want).String(), out.Keys().String())

	block, ok := out.BlockByKey(1, 8, 1)
	require.True(t, ok)
	require.Equal(t, []string{"spherical_harmonics_m"}, block.Components()[0].Names())
	require.Equal(t, 3, block.Components()[0].Count())
	require.Equal(t, []string{"n"}, block.Properties().Names())
	require.Equal(t, []int{1, 3, 4}, block.Values().Shape())

	// both hydrogens see the oxygen
	block, ok = out.BlockByKey(0, 1, 8)
	require.True(t, ok)
	require.Equal(t, labels.New(sampleNames, [][]int32{{0, 1}, {0, 2}}).String(), block.Samples().String())
}

func TestSphericalExpansion_CenterAtomWeight(t *testing.T) {
	const weighted = `{
		"cutoff": 3.5, "max_radial": 4, "max_angular": 2, "atomic_gaussian_width": 0.3,
		"center_atom_weight": 2.0, "radial_basis": {"Gto": {}},
		"cutoff_function": {"ShiftedCosine": {"width": 0.5}}
	}`
	water := fixture(t, "water")
	single := run(t, newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 2)), calculator.Options{}, water)
	double := run(t, newCalculator(t, "spherical_expansion", weighted), calculator.Options{}, water)

	// the oxygen is alone in its (8, 8) density: only the center contributes
	a, ok := single.BlockByKey(0, 8, 8)
	require.True(t, ok)
	b, ok := double.BlockByKey(0, 8, 8)
	require.True(t, ok)
	require.NotEqual(t, make([]float64, 4), a.Values().Data())
	for i, v := range a.Values().Data() {
		require.InDelta(t, 2*v, b.Values().Data()[i], 1e-14)
	}

	// l > 0 blocks do not see the center
	a, ok = single.BlockByKey(1, 8, 8)
	require.True(t, ok)
	for _, v := range a.Values().Data() {
		require.Zero(t, v)
	}
}

func TestSphericalExpansion_RotationKeepsScalars(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 2))
	methane := fixture(t, "methane")
	rotated, err := systems.Rotate(methane, systems.RandomRotation(systems.NewRNG(7)))
	require.NoError(t, err)

	ref := run(t, calc, calculator.Options{}, methane)
	got := run(t, calc, calculator.Options{}, rotated)
	require.True(t, ref.SameLayout(got))
	for b, key := range ref.Keys().Iter() {
		if key[0] != 0 {
			continue
		}
		want := ref.Block(b).Values().Data()
		have := got.Block(b).Values().Data()
		require.InDeltaSlice(t, want, have, 1e-10, "key %v", key)
	}
}

func TestSphericalExpansion_Restriction(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 2))
	gradients := []string{calculator.GradientPositions, calculator.GradientCell}
	methane := fixture(t, "methane")

	full := run(t, calc, calculator.Options{Gradients: gradients}, methane)
	part := run(t, calc, calculator.Options{
		Gradients:          gradients,
		SelectedSamples:    calculator.Subset(rows(sampleNames, []int32{0, 1}, []int32{0, 3})),
		SelectedProperties: calculator.Subset(rows([]string{"n"}, []int32{0}, []int32{2})),
	}, methane)
	requireRestriction(t, full, part)

	block, ok := part.BlockByKey(0, 1, 6)
	require.True(t, ok)
	require.Equal(t, []int{2, 1, 2}, block.Values().Shape())

	// predefined selections reproduce the same layout and values
	again := run(t, calc, calculator.Options{
		Gradients:          gradients,
		SelectedSamples:    calculator.Predefined(part),
		SelectedProperties: calculator.Predefined(part),
	}, methane)
	require.True(t, part.SameLayout(again))
	requireRestriction(t, full, again)
}

func TestSphericalExpansion_SelectedKeys(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 2))
	water := fixture(t, "water")

	out := run(t, calc, calculator.Options{
		SelectedKeys: rows(expansionKeyNames, []int32{2, 8, 1}, []int32{0, 6, 1}),
	}, water)
	require.Equal(t, 2, out.Len())
	block, ok := out.BlockByKey(0, 6, 1)
	require.True(t, ok)
	require.Equal(t, []int{0, 1, 4}, block.Values().Shape())

	_, err := calc.Compute([]systems.System{water}, calculator.Options{
		SelectedKeys: rows(expansionKeyNames, []int32{3, 1, 1}),
	})
	require.ErrorIs(t, err, calculator.ErrInvalidSelection)
}

func TestSphericalExpansion_PositionsGradient(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 3))
	requireFiniteDifferences(t, calc, fixture(t, "water"), 1e-5, 1e-5)
	requireFiniteDifferences(t, calc, denseCrystal(t), 1e-5, 1e-5)
}

func TestSphericalExpansion_PositionsGradientSamples(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 1))
	out := run(t, calc, calculator.Options{Gradients: []string{calculator.GradientPositions}}, fixture(t, "water"))

	block, ok := out.BlockByKey(1, 1, 8)
	require.True(t, ok)
	grad, ok := block.Gradient(calculator.GradientPositions)
	require.True(t, ok)
	require.Equal(t, labels.New(gradSampleNames, [][]int32{
		{0, 0, 0}, {0, 0, 1},
		{1, 0, 0}, {1, 0, 2},
	}).String(), grad.Samples().String())
	require.Equal(t, []int{4, 3, 3, 4}, grad.Values().Shape())

	// translation invariance: the center moves opposite to its neighbors
	size := 3 * block.Values().RowSize()
	for sample := 0; sample < 2; sample++ {
		sum := make([]float64, size)
		for g, gs := range grad.Samples().Iter() {
			if int(gs[0]) != sample {
				continue
			}
			for i, v := range grad.Values().Row(g) {
				sum[i] += v
			}
		}
		for _, v := range sum {
			require.InDelta(t, 0, v, 1e-12)
		}
	}
}

func TestSphericalExpansion_CellGradient(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 4, 3))
	requireCellFiniteDifferences(t, calc, fixture(t, "water"), 1e-5, 1e-5)
	requireCellFiniteDifferences(t, calc, denseCrystal(t), 1e-5, 1e-5)
}

func TestSphericalExpansion_CellGradientShape(t *testing.T) {
	calc := newCalculator(t, "spherical_expansion", soapParameters(3.5, 3, 1))
	out := run(t, calc, calculator.Options{Gradients: []string{calculator.GradientCell}}, fixture(t, "water"))

	block, ok := out.BlockByKey(1, 1, 1)
	require.True(t, ok)
	grad, ok := block.Gradient(calculator.GradientCell)
	require.True(t, ok)
	require.Equal(t, labels.New([]string{"sample"}, [][]int32{{0}, {1}}).String(), grad.Samples().String())
	require.Equal(t, []int{2, 3, 3, 3, 3}, grad.Values().Shape())
	require.Equal(t, []string{"direction_1"}, grad.Components()[0].Names())
	require.Equal(t, []string{"direction_2"}, grad.Components()[1].Names())
}

const lodeParameters = `{
	"cutoff": 3.0, "max_radial": 3, "max_angular": 2, "atomic_gaussian_width": 0.6,
	"center_atom_weight": 1.0, "potential_exponent": 1,
	"radial_basis": {"Gto": {}},
	"cutoff_function": {"ShiftedCosine": {"width": 0.5}}
}`

func TestLodeSphericalExpansion(t *testing.T) {
	calc := newCalculator(t, "lode_spherical_expansion", lodeParameters)
	require.Equal(t, "LODE spherical expansion", calc.Name())

	water := fixture(t, "water")
	out := run(t, calc, calculator.Options{}, water)
	require.Equal(t, 12, out.Len())
	for b := 0; b < out.Len(); b++ {
		for _, v := range out.Block(b).Values().Data() {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}

	// the potential differs from the density it is built from
	gaussian := run(t, newCalculator(t, "spherical_expansion", `{
		"cutoff": 3.0, "max_radial": 3, "max_angular": 2, "atomic_gaussian_width": 0.6,
		"center_atom_weight": 1.0, "radial_basis": {"Gto": {}},
		"cutoff_function": {"ShiftedCosine": {"width": 0.5}}
	}`), calculator.Options{}, water)
	lode, _ := out.BlockByKey(0, 8, 1)
	density, _ := gaussian.BlockByKey(0, 8, 1)
	require.NotEqual(t, density.Values().Data(), lode.Values().Data())

	requireFiniteDifferences(t, calc, water, 1e-5, 1e-5)
}
