// SPDX-License-Identifier: MIT

package tensor

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/labels"
)

// Map is a keyed collection of blocks.
//   - keys identifies the blocks, one entry per block.
//   - blocks is the arena; blocks[i] belongs to keys.Row(i).
type Map struct {
	keys   *labels.Labels
	blocks []*Block
}

// NewMap assembles a map and checks the container invariants.
// MAIN DESCRIPTION:
//   - One block per key, key dimensions disjoint from block dimensions, and
//     the same sample/component/property names in every block.
//
// Errors:
//   - ErrKeys, ErrInconsistentBlocks.
//
// Complexity:
//   - Time O(blocks · dimensions²).
func NewMap(keys *labels.Labels, blocks []*Block) (*Map, error) {
	if keys == nil {
		return nil, errors.Wrap(ErrKeys, "keys are required")
	}
	if keys.Count() != len(blocks) {
		return nil, errors.Wrapf(ErrKeys, "%d keys for %d blocks", keys.Count(), len(blocks))
	}
	keyNames := keys.Names()
	for i, b := range blocks {
		if b == nil {
			return nil, errors.Wrapf(ErrInconsistentBlocks, "block %d is nil", i)
		}
		if err := validateDisjoint(keyNames, b.samples.Names()); err != nil {
			return nil, err
		}
		if err := validateDisjoint(keyNames, b.properties.Names()); err != nil {
			return nil, err
		}
		if i == 0 {
			continue
		}
		if err := sameLayoutNames(blocks[0], b); err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
	}

	return &Map{keys: keys, blocks: append([]*Block(nil), blocks...)}, nil
}

func sameLayoutNames(a, b *Block) error {
	if !sameNames(a.samples.Names(), b.samples.Names()) {
		return errors.Wrapf(ErrInconsistentBlocks, "samples %v vs %v", a.samples.Names(), b.samples.Names())
	}
	if !sameNames(a.properties.Names(), b.properties.Names()) {
		return errors.Wrapf(ErrInconsistentBlocks, "properties %v vs %v", a.properties.Names(), b.properties.Names())
	}
	if len(a.components) != len(b.components) {
		return errors.Wrapf(ErrInconsistentBlocks, "%d vs %d components", len(a.components), len(b.components))
	}
	for k := range a.components {
		if !sameNames(a.components[k].Names(), b.components[k].Names()) {
			return errors.Wrapf(ErrInconsistentBlocks, "component %d", k)
		}
	}

	return nil
}

// Keys identifies the blocks.
func (m *Map) Keys() *labels.Labels { return m.keys }

// Len is the number of blocks.
func (m *Map) Len() int { return len(m.blocks) }

// Block returns the block with id i, in key order.
func (m *Map) Block(i int) *Block { return m.blocks[i] }

// BlockByKey returns the block owned by the given key.
func (m *Map) BlockByKey(values ...int32) (*Block, bool) {
	i, ok := m.keys.Position(values...)
	if !ok {
		return nil, false
	}

	return m.blocks[i], true
}

// SameLayout reports whether both maps have identical keys, and identical
// samples, components and properties in every block. Values and gradients are
// not compared.
func (m *Map) SameLayout(other *Map) bool {
	if !m.keys.Equal(other.keys) {
		return false
	}
	for i, b := range m.blocks {
		o := other.blocks[i]
		if !b.samples.Equal(o.samples) || !b.properties.Equal(o.properties) || len(b.components) != len(o.components) {
			return false
		}
		for k := range b.components {
			if !b.components[k].Equal(o.components[k]) {
				return false
			}
		}
	}

	return true
}
