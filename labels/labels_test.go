// Package labels_test covers construction, lookup and selection of label sets.
package labels_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvatoms/labels"
)

// TestBuilderRejectsInvalidEntries ensures arity and duplicate checks fire.
func TestBuilderRejectsInvalidEntries(t *testing.T) {
	b := labels.NewBuilder("structure", "center")
	require.NoError(t, b.Add(0, 1))
	require.ErrorIs(t, b.Add(0), labels.ErrArity)        // too short
	require.ErrorIs(t, b.Add(0, 1), labels.ErrDuplicate) // already there
	require.NoError(t, b.AddIfMissing(0, 1))             // silently skipped
	require.Equal(t, 1, b.Count())
}

// TestBuilderRejectsInvalidNames ensures empty and repeated names are reported.
func TestBuilderRejectsInvalidNames(t *testing.T) {
	require.ErrorIs(t, labels.NewBuilder("a", "a").Add(1, 2), labels.ErrInvalidName)
	require.ErrorIs(t, labels.NewBuilder("").Add(1), labels.ErrInvalidName)
	require.Panics(t, func() { labels.Empty("x", "x") })
}

// TestPositionAndOrder verifies insertion order is kept and lookups are exact.
func TestPositionAndOrder(t *testing.T) {
	l := labels.New([]string{"structure", "center"}, [][]int32{{0, 3}, {0, 1}, {1, 0}})

	require.Equal(t, []string{"structure", "center"}, l.Names())
	require.Equal(t, 2, l.Size())
	require.Equal(t, 3, l.Count())
	require.Equal(t, []int32{0, 1}, l.Row(1))

	i, ok := l.Position(1, 0)
	require.True(t, ok)
	require.Equal(t, 2, i)

	_, ok = l.Position(1, 1)
	require.False(t, ok)
	_, ok = l.Position(1) // wrong arity is just "not found"
	require.False(t, ok)
	require.True(t, l.Contains(0, 3))
}

// TestEqual compares names, entries and order.
func TestEqual(t *testing.T) {
	a := labels.New([]string{"n"}, [][]int32{{0}, {1}})
	b := labels.New([]string{"n"}, [][]int32{{0}, {1}})
	c := labels.New([]string{"n"}, [][]int32{{1}, {0}})
	d := labels.New([]string{"l"}, [][]int32{{0}, {1}})

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c)) // order is significant
	require.False(t, a.Equal(d)) // names are significant
	require.True(t, labels.Empty("n").Equal(labels.Empty("n")))
}

// TestSelectProjectsOnSubsetOfNames checks selection by a subset of dimensions.
func TestSelectProjectsOnSubsetOfNames(t *testing.T) {
	l := labels.New([]string{"l", "n1", "n2"}, [][]int32{
		{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 1, 1}, {2, 0, 1},
	})

	// select on "n2" only
	idx, err := l.Select(labels.New([]string{"n2"}, [][]int32{{1}}))
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 4}, idx)

	// names in a different order, one entry without match
	idx, err = l.Select(labels.New([]string{"n1", "l"}, [][]int32{{0, 1}, {5, 5}}))
	require.NoError(t, err)
	require.Equal(t, []int{2}, idx)

	_, err = l.Select(labels.New([]string{"m"}, [][]int32{{0}}))
	require.ErrorIs(t, err, labels.ErrUnknownName)

	sub := l.Subset([]int{4, 0})
	require.Equal(t, 2, sub.Count())
	require.Equal(t, []int32{2, 0, 1}, sub.Row(0))
}

// TestSingle checks the conventional placeholder set.
func TestSingle(t *testing.T) {
	s := labels.Single()
	require.Equal(t, []string{"_"}, s.Names())
	require.Equal(t, 1, s.Count())
	require.Contains(t, s.String(), "(_)")
}
