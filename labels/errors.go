// SPDX-License-Identifier: MIT
// Package labels: sentinel error set.
// Every message is prefixed with "labels: ..." for consistency. Call sites
// add context with errors.Wrapf; callers match with errors.Is.

package labels

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidName is returned when a dimension name is empty or repeated.
	ErrInvalidName = errors.New("labels: invalid dimension name")

	// ErrArity indicates an entry whose length differs from the number of dimensions.
	ErrArity = errors.New("labels: entry size does not match the number of dimensions")

	// ErrDuplicate indicates an entry that is already present in the set.
	ErrDuplicate = errors.New("labels: duplicate entry")

	// ErrUnknownName indicates a selection that references a dimension this set does not have.
	ErrUnknownName = errors.New("labels: unknown dimension name")
)
