// SPDX-License-Identifier: MIT
// Package calculator: sentinel error set.
// Every error is reported before any value is accumulated, so a failed
// Compute never returns a partial tensor. Callers match with errors.Is; the
// wrapped message names the offending field, key or gradient.

package calculator

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownCalculator is returned by New for a kind outside the registry.
	ErrUnknownCalculator = errors.New("calculator: unknown calculator")

	// ErrInvalidParameter covers malformed or out-of-range hyperparameters,
	// unknown gradient names and unsupported parameter documents.
	ErrInvalidParameter = errors.New("calculator: invalid parameter")

	// ErrUnsupportedGradient is returned when a calculator cannot compute a
	// requested gradient.
	ErrUnsupportedGradient = errors.New("calculator: unsupported gradient")

	// ErrInvalidSelection is returned for selections incompatible with the
	// calculator's key, sample or property dimensions.
	ErrInvalidSelection = errors.New("calculator: invalid selection")
)
