// SPDX-License-Identifier: MIT
// Package systems: sentinel error set.
// Geometry errors are reported before any neighbor pair is produced. Callers
// match them with errors.Is.

package systems

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidCutoff is returned for a cutoff that is not a positive, finite number.
	ErrInvalidCutoff = errors.New("systems: cutoff must be positive and finite")

	// ErrInvalidCell is returned for a non-finite or non-invertible cell matrix.
	ErrInvalidCell = errors.New("systems: invalid unit cell")

	// ErrInvalidSystem covers inconsistent species/positions, negative species
	// and non-finite coordinates.
	ErrInvalidSystem = errors.New("systems: invalid system")

	// ErrUnknownFixture is returned by Fixture for an unknown name.
	ErrUnknownFixture = errors.New("systems: unknown fixture")
)
