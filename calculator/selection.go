// SPDX-License-Identifier: MIT

package calculator

import (
	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/tensor"
)

// Gradient names accepted in Options.Gradients.
const (
	GradientPositions = "positions"
	GradientCell      = "cell"
)

type selectionMode uint8

const (
	selectAll selectionMode = iota
	selectSubset
	selectPredefined
)

// Selection restricts the samples or the properties of a computation.
// The zero value selects everything.
type Selection struct {
	mode       selectionMode
	subset     *labels.Labels
	predefined *tensor.Map
}

// All selects every entry implied by the systems.
func All() Selection { return Selection{} }

// Subset keeps the entries whose projection on the names of s is part of s.
// The names of s must be a subset of the calculator's sample (or property)
// names. Entries of s without a match are ignored.
func Subset(s *labels.Labels) Selection {
	return Selection{mode: selectSubset, subset: s}
}

// Predefined copies, block by block, the samples (or properties) of m. The
// keys of m become the keys of the output unless Options.SelectedKeys is set.
func Predefined(m *tensor.Map) Selection {
	return Selection{mode: selectPredefined, predefined: m}
}

// IsAll reports whether the selection keeps everything.
func (s Selection) IsAll() bool { return s.mode == selectAll }

// Options parametrise one call to Compute.
type Options struct {
	// Gradients lists the gradients to compute: GradientPositions and/or
	// GradientCell.
	Gradients []string
	// SelectedSamples restricts the rows of every block.
	SelectedSamples Selection
	// SelectedProperties restricts the columns of every block.
	SelectedProperties Selection
	// SelectedKeys, when set, replaces the default keys. Keys without data
	// produce empty blocks.
	SelectedKeys *labels.Labels
}
