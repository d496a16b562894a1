// SPDX-License-Identifier: MIT
// Package: tensor
//
// Purpose:
//  - Provide a single source of truth for the shape and label checks used by
//    NewBlock, Block.AddGradient and NewMap.
//  - Return sentinel errors wrapped with the validator tag so call sites can
//    match with errors.Is.
//
// Note:
//  - Each validator documents what it assumes (e.g. non-nil arguments).

package tensor

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/labels"
)

func validatorErrorf(tag string, err error) error {
	return errors.Wrap(err, tag)
}

// ValidateShape ensures a shape has at least one axis and no negative extent.
// Complexity: O(rank).
func ValidateShape(shape []int) error {
	if len(shape) == 0 {
		return validatorErrorf("ValidateShape: rank", ErrBadShape)
	}
	for k, n := range shape {
		if n < 0 {
			return errors.Wrapf(ErrBadShape, "ValidateShape: axis %d has extent %d", k, n)
		}
	}

	return nil
}

// ValidateArrayLabels ensures that the array axes follow the label sets, in
// order: the extent of axis k equals the entry count of axes[k].
// Assumes a and every label set are non-nil.
// Complexity: O(rank).
func ValidateArrayLabels(a *Array, axes []*labels.Labels) error {
	if a.Rank() != len(axes) {
		return errors.Wrapf(ErrDimensionMismatch, "ValidateArrayLabels: array has %d axes, labels describe %d", a.Rank(), len(axes))
	}
	for k, l := range axes {
		if a.shape[k] != l.Count() {
			return errors.Wrapf(ErrDimensionMismatch,
				"ValidateArrayLabels: axis %d has extent %d but %d labels %v", k, a.shape[k], l.Count(), l.Names())
		}
	}

	return nil
}

// ValidateGradientSamples ensures the first gradient-sample dimension is
// "sample" and that every entry references a row of a parent with n samples.
// Complexity: O(count).
func ValidateGradientSamples(samples *labels.Labels, n int) error {
	if samples.Size() == 0 || samples.Names()[0] != GradientSampleDimension {
		return errors.Wrapf(ErrGradientSample, "ValidateGradientSamples: first dimension must be %q, got %v",
			GradientSampleDimension, samples.Names())
	}
	for i, row := range samples.Iter() {
		if row[0] < 0 || int(row[0]) >= n {
			return errors.Wrapf(ErrGradientSample,
				"ValidateGradientSamples: entry %d references sample %d of %d", i, row[0], n)
		}
	}

	return nil
}

// validateDisjoint ensures no dimension name appears in both sets.
func validateDisjoint(a, b []string) error {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return errors.Wrapf(ErrKeys, "dimension %q is used by keys and blocks", x)
			}
		}
	}

	return nil
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
