package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/tensor"
)

func TestArray_AccessorsAndRows(t *testing.T) {
	a, err := tensor.NewArray(2, 3, 4)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4}, a.Shape())
	require.Equal(t, 12, a.RowSize())
	require.Len(t, a.Data(), 24)

	require.NoError(t, a.Set(1.5, 1, 2, 3))
	require.NoError(t, a.Add(1.0, 1, 2, 3))
	v, err := a.At(1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 2.5, v)
	require.Equal(t, 2.5, a.Row(1)[2*4+3]) // row-major offset

	_, err = a.At(2, 0, 0)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
	require.ErrorIs(t, a.Set(0, 0, 0), tensor.ErrOutOfRange) // wrong rank

	c := a.Clone()
	c.Row(1)[0] = 7
	require.Equal(t, 0.0, a.Row(1)[0]) // independent copy
}

func TestArray_Shapes(t *testing.T) {
	_, err := tensor.NewArray()
	require.ErrorIs(t, err, tensor.ErrBadShape)
	_, err = tensor.NewArray(2, -1)
	require.ErrorIs(t, err, tensor.ErrBadShape)

	empty, err := tensor.NewArray(0, 3)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())
	require.Empty(t, empty.Data())
}

func blockFixture(t *testing.T) *tensor.Block {
	t.Helper()
	samples := labels.New([]string{"structure", "center"}, [][]int32{{0, 0}, {0, 2}})
	m := labels.New([]string{"spherical_harmonics_m"}, [][]int32{{-1}, {0}, {1}})
	props := labels.New([]string{"n"}, [][]int32{{0}, {1}})
	b, err := tensor.NewBlock(nil, samples, []*labels.Labels{m}, props)
	require.NoError(t, err)

	return b
}

func TestBlock_NewAndGradients(t *testing.T) {
	b := blockFixture(t)
	require.Equal(t, []int{2, 3, 2}, b.Values().Shape())

	gs := labels.New([]string{"sample", "structure", "atom"}, [][]int32{{0, 0, 0}, {1, 0, 2}, {1, 0, 1}})
	dir := labels.New([]string{"direction"}, [][]int32{{0}, {1}, {2}})
	g, err := b.AddGradient("positions", gs, []*labels.Labels{dir}, nil)
	require.NoError(t, err)
	// gradient components come first, then block components
	require.Equal(t, []int{3, 3, 3, 2}, g.Values().Shape())
	require.Len(t, g.Components(), 2)

	_, err = b.AddGradient("positions", gs, []*labels.Labels{dir}, nil)
	require.ErrorIs(t, err, tensor.ErrDuplicateGradient)

	got, ok := b.Gradient("positions")
	require.True(t, ok)
	require.Same(t, g, got)
	require.Equal(t, []string{"positions"}, b.GradientNames())
}

func TestBlock_RejectsInvalidGradientSamples(t *testing.T) {
	b := blockFixture(t)

	bad := labels.New([]string{"sample", "structure", "atom"}, [][]int32{{2, 0, 0}}) // only 2 rows
	_, err := b.AddGradient("positions", bad, nil, nil)
	require.ErrorIs(t, err, tensor.ErrGradientSample)

	noSample := labels.New([]string{"structure", "atom"}, [][]int32{{0, 0}})
	_, err = b.AddGradient("positions", noSample, nil, nil)
	require.ErrorIs(t, err, tensor.ErrGradientSample)
}

func TestBlock_RejectsMismatchedValues(t *testing.T) {
	samples := labels.New([]string{"structure", "center"}, [][]int32{{0, 0}})
	props := labels.New([]string{"n"}, [][]int32{{0}, {1}})

	wrong, err := tensor.NewArray(1, 3)
	require.NoError(t, err)
	_, err = tensor.NewBlock(wrong, samples, nil, props)
	require.ErrorIs(t, err, tensor.ErrDimensionMismatch)

	right, err := tensor.NewArray(1, 2)
	require.NoError(t, err)
	b, err := tensor.NewBlock(right, samples, nil, props)
	require.NoError(t, err)
	require.Same(t, right, b.Values())
}

func TestMap_KeysAndLookup(t *testing.T) {
	keys := labels.New([]string{"species_center"}, [][]int32{{1}, {6}})
	b1 := blockFixture(t)
	b6 := blockFixture(t)

	m, err := tensor.NewMap(keys, []*tensor.Block{b1, b6})
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	got, ok := m.BlockByKey(6)
	require.True(t, ok)
	require.Same(t, b6, got)
	_, ok = m.BlockByKey(8)
	require.False(t, ok)

	_, err = tensor.NewMap(keys, []*tensor.Block{b1})
	require.ErrorIs(t, err, tensor.ErrKeys)

	clash := labels.New([]string{"center"}, [][]int32{{0}})
	_, err = tensor.NewMap(clash, []*tensor.Block{b1})
	require.ErrorIs(t, err, tensor.ErrKeys)

	other, err := tensor.NewBlock(nil, labels.New([]string{"structure"}, [][]int32{{0}}), nil, labels.Single())
	require.NoError(t, err)
	_, err = tensor.NewMap(keys, []*tensor.Block{b1, other})
	require.ErrorIs(t, err, tensor.ErrInconsistentBlocks)

	same, err := tensor.NewMap(keys, []*tensor.Block{blockFixture(t), blockFixture(t)})
	require.NoError(t, err)
	require.True(t, m.SameLayout(same))
}
