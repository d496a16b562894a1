// SPDX-License-Identifier: MIT

package labels

import "github.com/cockroachdb/errors"

// Builder accumulates entries for a new Labels set.
// A Builder is not safe for concurrent use; the Labels it produces are.
type Builder struct {
	names  []string
	values []int32
	index  map[string]int
	err    error
}

// NewBuilder starts a set with the given dimension names. Invalid names are
// reported by the first call to Add.
func NewBuilder(names ...string) *Builder {
	b := &Builder{
		names: append([]string(nil), names...),
		index: make(map[string]int),
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			b.err = errors.Wrap(ErrInvalidName, "dimension names must not be empty")

			break
		}
		if _, dup := seen[n]; dup {
			b.err = errors.Wrapf(ErrInvalidName, "%q is repeated", n)

			break
		}
		seen[n] = struct{}{}
	}

	return b
}

// Add appends an entry. It rejects entries of the wrong size and duplicates.
func (b *Builder) Add(values ...int32) error {
	if b.err != nil {
		return b.err
	}
	if len(values) != len(b.names) {
		return errors.Wrapf(ErrArity, "got %d values for %d dimensions %v", len(values), len(b.names), b.names)
	}
	key := encode(values)
	if _, dup := b.index[key]; dup {
		return errors.Wrapf(ErrDuplicate, "%v", values)
	}
	b.index[key] = len(b.values) / max(len(b.names), 1)
	b.values = append(b.values, values...)

	return nil
}

// AddIfMissing appends an entry unless it is already present.
func (b *Builder) AddIfMissing(values ...int32) error {
	if b.err == nil && len(values) == len(b.names) {
		if _, dup := b.index[encode(values)]; dup {
			return nil
		}
	}

	return b.Add(values...)
}

// Count is the number of entries added so far.
func (b *Builder) Count() int {
	if len(b.names) == 0 {
		return 0
	}

	return len(b.values) / len(b.names)
}

// Finish freezes the builder into a Labels set. The builder must not be used
// afterwards. Finish panics when the dimension names were invalid, a condition
// Add already reported to the caller.
func (b *Builder) Finish() *Labels {
	if b.err != nil {
		panic(b.err)
	}
	l := &Labels{
		names:  b.names,
		values: b.values,
		index:  b.index,
	}
	b.names, b.values, b.index = nil, nil, nil

	return l
}
