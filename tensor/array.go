// SPDX-License-Identifier: MIT

// Package tensor - Array storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a flat row-major buffer for N-dimensional values with the offset
//     formula Σ idx[k]*strides[k].
//   - Keep the public surface safe: At/Set/Add return errors instead of panicking.
//   - Expose contiguous rows (first axis) for in-place accumulation.
//
// Complexity quicksheet:
//   - NewArray: O(Π shape) zero-init; At/Set/Add: O(rank); Row: O(1); Clone: O(Π shape).

package tensor

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	ctxAt  = "At"
	ctxSet = "Set"
	ctxAdd = "Add"
)

func arrayErrorf(method string, idx []int, err error) error {
	return errors.Wrapf(err, "Array.%s%v", method, idx)
}

// Array is a dense N-dimensional array of float64.
//   - shape holds the extents of every axis (zero allowed).
//   - strides holds the row-major step of every axis.
//   - data is a flat buffer of length Π shape.
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

var _ fmt.Stringer = (*Array)(nil)

// NewArray allocates a zero-filled array.
// MAIN DESCRIPTION:
//   - Public constructor with strict shape validation (see ValidateShape).
//
// Implementation:
//   - Stage 1: validate shape (at least one axis, no negative extent).
//   - Stage 2: compute row-major strides from the last axis backwards.
//   - Stage 3: allocate the zero-filled buffer.
//
// Behavior highlights:
//   - Zero extents are legal; they describe empty blocks.
//
// Errors:
//   - ErrBadShape.
//
// Complexity:
//   - Time O(Π shape), Space O(Π shape).
func NewArray(shape ...int) (*Array, error) {
	if err := ValidateShape(shape); err != nil {
		return nil, err
	}
	strides := make([]int, len(shape))
	size := 1
	for k := len(shape) - 1; k >= 0; k-- {
		strides[k] = size
		size *= shape[k]
	}

	return &Array{
		shape:   append([]int(nil), shape...),
		strides: strides,
		data:    make([]float64, size),
	}, nil
}

// Shape returns a copy of the extents.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Rank is the number of axes.
func (a *Array) Rank() int { return len(a.shape) }

// Len is the extent of the first axis.
func (a *Array) Len() int { return a.shape[0] }

// Data exposes the flat row-major buffer. Writes through it are visible.
func (a *Array) Data() []float64 { return a.data }

// RowSize is the number of values in one entry of the first axis.
func (a *Array) RowSize() int { return a.strides[0] }

// Row returns the contiguous values of entry i along the first axis.
// The slice aliases the array; it panics when i is out of range, like
// slice indexing does.
func (a *Array) Row(i int) []float64 {
	s := a.strides[0]

	return a.data[i*s : (i+1)*s : (i+1)*s]
}

// offset computes the row-major offset or returns ErrOutOfRange.
func (a *Array) offset(idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, ErrOutOfRange
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= a.shape[k] {
			return 0, ErrOutOfRange
		}
		off += i * a.strides[k]
	}

	return off, nil
}

// At returns the value at idx.
func (a *Array) At(idx ...int) (float64, error) {
	off, err := a.offset(idx)
	if err != nil {
		return 0, arrayErrorf(ctxAt, idx, err)
	}

	return a.data[off], nil
}

// Set stores v at idx.
func (a *Array) Set(v float64, idx ...int) error {
	off, err := a.offset(idx)
	if err != nil {
		return arrayErrorf(ctxSet, idx, err)
	}
	a.data[off] = v

	return nil
}

// Add accumulates v into the value at idx.
func (a *Array) Add(v float64, idx ...int) error {
	off, err := a.offset(idx)
	if err != nil {
		return arrayErrorf(ctxAdd, idx, err)
	}
	a.data[off] += v

	return nil
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    append([]float64(nil), a.data...),
	}
}

// String renders the array one first-axis entry per line.
// Not for hot paths.
func (a *Array) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Array%v\n", a.shape)
	if a.strides[0] == 0 {
		return sb.String()
	}
	for i := 0; i < a.shape[0]; i++ {
		sb.WriteString("[")
		for j, v := range a.Row(i) {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", v)
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
