// SPDX-License-Identifier: MIT
// Package basis: sentinel error set.

package basis

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidParameter is returned for out-of-range basis parameters
	// (non-positive widths, cutoffs or radial counts, negative angular order).
	ErrInvalidParameter = errors.New("basis: invalid parameter")

	// ErrSingularOverlap is returned when the GTO overlap matrix cannot be
	// orthonormalised.
	ErrSingularOverlap = errors.New("basis: singular overlap matrix")

	// ErrSplineAccuracy is returned when a splined radial integral does not
	// reach the requested accuracy with the largest allowed grid.
	ErrSplineAccuracy = errors.New("basis: spline accuracy not reached")
)
