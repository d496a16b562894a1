// SPDX-License-Identifier: MIT

package labels

import (
	"encoding/binary"
	"fmt"
	"iter"
	"strings"

	"github.com/cockroachdb/errors"
)

// Labels is an immutable, ordered set of integer tuples sharing the same named
// dimensions.
//   - names hold the dimension names (unique, non-empty).
//   - values is a flat row-major buffer of len(names)*Count() entries.
//   - index maps the binary encoding of an entry to its position.
type Labels struct {
	names  []string
	values []int32
	index  map[string]int
}

// New builds a set from literal rows and panics on invalid input. It exists for
// fixtures and tests; runtime code goes through Builder and handles errors.
func New(names []string, rows [][]int32) *Labels {
	b := NewBuilder(names...)
	for _, row := range rows {
		if err := b.Add(row...); err != nil {
			panic(err)
		}
	}

	return b.Finish()
}

// Empty returns a set with the given dimensions and no entries.
func Empty(names ...string) *Labels {
	return NewBuilder(names...).Finish()
}

// Single returns the conventional one-entry set used when an axis carries no
// information: a single dimension "_" holding the value 0.
func Single() *Labels {
	return New([]string{"_"}, [][]int32{{0}})
}

// Names returns a copy of the dimension names.
func (l *Labels) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)

	return out
}

// Size is the number of dimensions of every entry.
func (l *Labels) Size() int { return len(l.names) }

// Count is the number of entries.
func (l *Labels) Count() int {
	if len(l.names) == 0 {
		return 0
	}

	return len(l.values) / len(l.names)
}

// Row returns the i-th entry. The returned slice aliases internal storage and
// must be treated as read-only.
func (l *Labels) Row(i int) []int32 {
	s := len(l.names)

	return l.values[i*s : (i+1)*s : (i+1)*s]
}

// Dimension returns the position of the named dimension.
func (l *Labels) Dimension(name string) (int, bool) {
	for i, n := range l.names {
		if n == name {
			return i, true
		}
	}

	return -1, false
}

// Position returns the index of the given entry.
func (l *Labels) Position(values ...int32) (int, bool) {
	if len(values) != len(l.names) {
		return -1, false
	}
	i, ok := l.index[encode(values)]

	return i, ok
}

// Contains reports whether the entry is part of the set.
func (l *Labels) Contains(values ...int32) bool {
	_, ok := l.Position(values...)

	return ok
}

// Equal reports whether both sets have the same names and the same entries in
// the same order.
func (l *Labels) Equal(other *Labels) bool {
	if l == nil || other == nil {
		return l == other
	}
	if len(l.names) != len(other.names) || len(l.values) != len(other.values) {
		return false
	}
	for i := range l.names {
		if l.names[i] != other.names[i] {
			return false
		}
	}
	for i := range l.values {
		if l.values[i] != other.values[i] {
			return false
		}
	}

	return true
}

// Select returns, in the receiver's order, the indices of the entries whose
// projection on the selection's dimensions is part of selection.
// The selection may use any subset of the receiver's dimension names, in any
// order. Selected values without a matching entry are ignored.
func (l *Labels) Select(selection *Labels) ([]int, error) {
	columns := make([]int, len(selection.names))
	for i, name := range selection.names {
		c, ok := l.Dimension(name)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownName, "%q is not one of %v", name, l.names)
		}
		columns[i] = c
	}

	projected := make([]int32, len(columns))
	selected := make([]int, 0, selection.Count())
	for i := 0; i < l.Count(); i++ {
		row := l.Row(i)
		for j, c := range columns {
			projected[j] = row[c]
		}
		if selection.Contains(projected...) {
			selected = append(selected, i)
		}
	}

	return selected, nil
}

// Subset builds a new set from the entries at the given indices, in that order.
func (l *Labels) Subset(indices []int) *Labels {
	b := NewBuilder(l.names...)
	for _, i := range indices {
		// entries of a valid set are unique, so Add cannot fail on them
		_ = b.Add(l.Row(i)...)
	}

	return b.Finish()
}

// String renders the set as a small table, one entry per line.
func (l *Labels) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(strings.Join(l.names, ", "))
	sb.WriteString(")\n")
	for i := 0; i < l.Count(); i++ {
		fmt.Fprintf(&sb, "%v\n", l.Row(i))
	}

	return sb.String()
}

// encode packs an entry into a string usable as a map key.
func encode(values []int32) string {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}

	return string(buf)
}

// Iter yields the position and value of every entry, in order.
func (l *Labels) Iter() iter.Seq2[int, []int32] {
	return func(yield func(int, []int32) bool) {
		for i := 0; i < l.Count(); i++ {
			if !yield(i, l.Row(i)) {
				return
			}
		}
	}
}
