// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set.
// Every constructor in this package validates its inputs and returns one of
// these sentinels, possibly wrapped with context. Callers match with errors.Is.

package tensor

import "github.com/cockroachdb/errors"

var (
	// ErrBadShape is returned for negative extents or a shape with no axis.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates an index outside the array bounds.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrDimensionMismatch indicates an array whose shape does not follow the
	// labels it is attached to.
	ErrDimensionMismatch = errors.New("tensor: dimension mismatch")

	// ErrGradientSample signals a gradient sample that does not reference a
	// valid row of the parent block, or a gradient sample set without the
	// leading "sample" dimension.
	ErrGradientSample = errors.New("tensor: invalid gradient sample")

	// ErrDuplicateGradient is returned when a gradient name is attached twice.
	ErrDuplicateGradient = errors.New("tensor: gradient already present")

	// ErrKeys covers key/block count mismatches and key dimensions that are
	// also used as sample or property dimensions.
	ErrKeys = errors.New("tensor: invalid keys")

	// ErrInconsistentBlocks is returned when the blocks of one map do not share
	// their sample, component and property dimension names.
	ErrInconsistentBlocks = errors.New("tensor: blocks are not consistent")
)
