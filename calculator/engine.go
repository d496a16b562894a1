// SPDX-License-Identifier: MIT

package calculator

import (
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lvatoms/dispatch"
	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/systems"
	"github.com/katalvlaran/lvatoms/tensor"
)

// Label names shared by every calculator.
var (
	sampleNames          = []string{"structure", "center"}
	positionsSampleNames = []string{tensor.GradientSampleDimension, "structure", "atom"}
	cellSampleNames      = []string{tensor.GradientSampleDimension}
)

var (
	directions   = axisLabels("direction")
	directions1  = axisLabels("direction_1")
	directions2  = axisLabels("direction_2")
	gradientKind = map[string]entryKind{GradientPositions: positionsEntry, GradientCell: cellEntry}
)

func axisLabels(name string) *labels.Labels {
	return labels.New([]string{name}, [][]int32{{0}, {1}, {2}})
}

// blockLayout is the shape of one output block, fixed before any value is
// computed.
type blockLayout struct {
	key        []int32
	samples    *labels.Labels
	components []*labels.Labels
	properties *labels.Labels
	positions  *labels.Labels // nil unless positions gradients are computed
	cell       *labels.Labels // nil unless cell gradients are computed
	// rowSize is the number of values in one sample row.
	rowSize int
}

// slot is one row of one block.
type slot struct {
	block, row int
}

// layout is the shape of a whole output.
//   - centers[s][c] lists the rows describing center c of system s, in block
//     order; it drives the work units.
type layout struct {
	keys      *labels.Labels
	blocks    []blockLayout
	positions bool
	cell      bool
	centers   [][][]slot
}

// unit is the work item of the dispatcher: the centers [start, end) of one
// system.
type unit struct {
	system     int
	start, end int
}

// unitFunc computes one unit into a private buffer. It runs after every
// validation and never fails.
type unitFunc func(u unit, out *buffer)

type entryKind uint8

const (
	valuesEntry entryKind = iota
	positionsEntry
	cellEntry
)

type entry struct {
	block int
	kind  entryKind
	row   int
	data  []float64
}

// buffer holds the rows produced by one unit until they are merged.
type buffer struct {
	entries []entry
}

// row returns a zeroed row of size values, merged later into the given row of
// the block values (or gradient) array.
func (b *buffer) row(block int, kind entryKind, row, size int) []float64 {
	data := make([]float64, size)
	b.entries = append(b.entries, entry{block: block, kind: kind, row: row, data: data})

	return data
}

// Compute evaluates the representation of every system.
// MAIN DESCRIPTION:
//   - Validate the request, build the output layout, then compute it in
//     parallel work units merged in a fixed order.
//
// Implementation:
//   - Stage 1: check gradient names, compute neighbor lists.
//   - Stage 2: resolve keys (SelectedKeys, predefined keys or defaults), then
//     samples, properties and gradient samples of every block.
//   - Stage 3: split every system into units of centers; each unit fills a
//     private buffer and buffers are added to the output in unit order.
//
// Behavior highlights:
//   - Keys without data yield empty blocks; a Subset entry without data is
//     ignored; Predefined layouts are reproduced exactly.
//   - The output does not depend on WithThreads.
//
// Errors:
//   - ErrInvalidParameter for unknown gradient names.
//   - ErrUnsupportedGradient when the calculator cannot compute a gradient.
//   - ErrInvalidSelection for incompatible keys or selections.
//   - systems.ErrInvalidCutoff / systems.ErrInvalidCell from neighbor lists.
func (c *Calculator) Compute(systemList []systems.System, opts Options) (out *tensor.Map, err error) {
	start := time.Now()
	log := c.cfg.logger.With(zap.String("calculator", c.kind))
	log.Debug("compute started", zap.Int("systems", len(systemList)))
	defer func() {
		elapsed := time.Since(start)
		c.cfg.metrics.observe(c.kind, elapsed, err)
		if err != nil {
			log.Debug("compute failed", zap.Duration("duration", elapsed), zap.Error(err))
			return
		}
		log.Debug("compute finished",
			zap.Int("systems", len(systemList)),
			zap.Int("keys", out.Len()),
			zap.Duration("duration", elapsed))
	}()

	in, err := newInput(c.impl, systemList, c.cfg)
	if err != nil {
		return nil, err
	}

	return compute(c.impl, in, opts, c.cfg)
}

// newInput computes the neighbor list of every system.
func newInput(impl implementation, systemList []systems.System, cfg config) (*input, error) {
	in := &input{
		systems:   systemList,
		neighbors: make([]*systems.NeighborList, len(systemList)),
	}
	err := dispatch.Ordered(len(systemList), cfg.threads,
		func(i int) (*systems.NeighborList, error) {
			nl, err := systemList[i].Neighbors(impl.cutoff())
			if err != nil {
				return nil, errors.Wrapf(err, "system %d", i)
			}

			return nl, nil
		},
		func(i int, nl *systems.NeighborList) error {
			in.neighbors[i] = nl
			cfg.metrics.addPairs(len(nl.Pairs()))

			return nil
		})
	if err != nil {
		return nil, err
	}

	return in, nil
}

// compute runs one calculation on prepared input.
func compute(impl implementation, in *input, opts Options, cfg config) (*tensor.Map, error) {
	lay, err := buildLayout(impl, in, opts, cfg)
	if err != nil {
		return nil, err
	}
	work, err := impl.prepare(in, lay, cfg)
	if err != nil {
		return nil, err
	}

	blocks, targets, err := allocate(lay)
	if err != nil {
		return nil, err
	}

	var units []unit
	for s, sys := range in.systems {
		for _, r := range dispatch.Chunks(sys.Size(), cfg.centersPerTask) {
			units = append(units, unit{system: s, start: r[0], end: r[1]})
		}
	}
	err = dispatch.Ordered(len(units), cfg.threads,
		func(i int) (*buffer, error) {
			b := &buffer{}
			work(units[i], b)

			return b, nil
		},
		func(_ int, b *buffer) error {
			for _, e := range b.entries {
				floats.Add(targets[e.block][e.kind].Row(e.row), e.data)
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	return tensor.NewMap(lay.keys, blocks)
}

// allocate creates zero-filled blocks following lay; targets[b][kind] is the
// array receiving entries of that kind.
func allocate(lay *layout) ([]*tensor.Block, [][3]*tensor.Array, error) {
	blocks := make([]*tensor.Block, len(lay.blocks))
	targets := make([][3]*tensor.Array, len(lay.blocks))
	for i, bl := range lay.blocks {
		block, err := tensor.NewBlock(nil, bl.samples, bl.components, bl.properties)
		if err != nil {
			return nil, nil, err
		}
		targets[i][valuesEntry] = block.Values()
		if bl.positions != nil {
			g, err := block.AddGradient(GradientPositions, bl.positions, []*labels.Labels{directions}, nil)
			if err != nil {
				return nil, nil, err
			}
			targets[i][positionsEntry] = g.Values()
		}
		if bl.cell != nil {
			g, err := block.AddGradient(GradientCell, bl.cell, []*labels.Labels{directions1, directions2}, nil)
			if err != nil {
				return nil, nil, err
			}
			targets[i][cellEntry] = g.Values()
		}
		blocks[i] = block
	}

	return blocks, targets, nil
}

// buildLayout resolves the shape of the output.
func buildLayout(impl implementation, in *input, opts Options, cfg config) (*layout, error) {
	lay := &layout{}
	for _, name := range opts.Gradients {
		if _, known := gradientKind[name]; !known {
			return nil, errors.WithHintf(errors.Wrapf(ErrInvalidParameter, "unknown gradient %q", name),
				"use %q or %q", GradientPositions, GradientCell)
		}
		if !impl.supportsGradient(name) {
			return nil, errors.Wrapf(ErrUnsupportedGradient, "%s gradients are not implemented by %s", name, impl.name())
		}
		switch name {
		case GradientPositions:
			lay.positions = true
		case GradientCell:
			lay.cell = true
		}
	}

	keys, err := resolveKeys(impl, in, opts, cfg.logger)
	if err != nil {
		return nil, err
	}
	lay.keys = keys

	lay.centers = make([][][]slot, len(in.systems))
	for s, sys := range in.systems {
		lay.centers[s] = make([][]slot, sys.Size())
	}

	lay.blocks = make([]blockLayout, keys.Count())
	for b, key := range keys.Iter() {
		bl := blockLayout{key: slices.Clone(key), components: impl.components(key)}
		if bl.samples, err = selectSamples(impl, in, key, opts.SelectedSamples); err != nil {
			return nil, err
		}
		if bl.properties, err = selectProperties(impl, key, opts.SelectedProperties); err != nil {
			return nil, err
		}
		bl.rowSize = bl.properties.Count()
		for _, c := range bl.components {
			bl.rowSize *= c.Count()
		}
		if lay.positions {
			bl.positions = impl.positionsSamples(key, bl.samples, in)
		}
		if lay.cell {
			rows := labels.NewBuilder(cellSampleNames...)
			for r := 0; r < bl.samples.Count(); r++ {
				_ = rows.Add(int32(r))
			}
			bl.cell = rows.Finish()
		}
		for r, sample := range bl.samples.Iter() {
			s, center := sample[0], sample[1]
			lay.centers[s][center] = append(lay.centers[s][center], slot{block: b, row: r})
		}
		lay.blocks[b] = bl
	}

	return lay, nil
}

// resolveKeys picks the output keys: SelectedKeys, else the keys of the
// predefined selections, else the defaults.
func resolveKeys(impl implementation, in *input, opts Options, log *zap.Logger) (*labels.Labels, error) {
	defaults := impl.keys(in)

	var predefined []*tensor.Map
	for _, sel := range []Selection{opts.SelectedSamples, opts.SelectedProperties} {
		if sel.mode == selectPredefined {
			if sel.predefined == nil {
				return nil, errors.Wrap(ErrInvalidSelection, "predefined selection without a tensor")
			}
			predefined = append(predefined, sel.predefined)
		}
	}

	keys := defaults
	switch {
	case opts.SelectedKeys != nil:
		keys = opts.SelectedKeys
	case len(predefined) > 0:
		keys = predefined[0].Keys()
		for _, m := range predefined[1:] {
			if !m.Keys().Equal(keys) {
				return nil, errors.Wrap(ErrInvalidSelection, "predefined samples and properties have different keys")
			}
		}
	}
	if !slices.Equal(keys.Names(), impl.keyNames()) {
		return nil, errors.Wrapf(ErrInvalidSelection, "keys are named %v, expected %v", keys.Names(), impl.keyNames())
	}
	for _, key := range keys.Iter() {
		if err := impl.checkKey(key); err != nil {
			return nil, err
		}
		for _, m := range predefined {
			if _, ok := m.BlockByKey(key...); !ok {
				return nil, errors.Wrapf(ErrInvalidSelection, "predefined selection has no block for key %v", key)
			}
		}
		if !defaults.Contains(key...) {
			log.Warn("selected key is not part of the default keys", zap.Int32s("key", key))
		}
	}

	return keys, nil
}

func selectSamples(impl implementation, in *input, key []int32, sel Selection) (*labels.Labels, error) {
	switch sel.mode {
	case selectSubset:
		all := impl.samples(key, in)
		indices, err := all.Select(sel.subset)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "selected samples"), ErrInvalidSelection)
		}

		return all.Subset(indices), nil
	case selectPredefined:
		block, _ := sel.predefined.BlockByKey(key...)
		samples := block.Samples()
		if !slices.Equal(samples.Names(), sampleNames) {
			return nil, errors.Wrapf(ErrInvalidSelection, "predefined samples are named %v, expected %v", samples.Names(), sampleNames)
		}
		for _, row := range samples.Iter() {
			s, center := int(row[0]), int(row[1])
			if s < 0 || s >= len(in.systems) || center < 0 || center >= in.systems[s].Size() {
				return nil, errors.Wrapf(ErrInvalidSelection, "predefined sample %v does not exist in the systems", row)
			}
		}

		return samples, nil
	default:
		return impl.samples(key, in), nil
	}
}

func selectProperties(impl implementation, key []int32, sel Selection) (*labels.Labels, error) {
	all := impl.properties(key)
	switch sel.mode {
	case selectSubset:
		indices, err := all.Select(sel.subset)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "selected properties"), ErrInvalidSelection)
		}

		return all.Subset(indices), nil
	case selectPredefined:
		block, _ := sel.predefined.BlockByKey(key...)
		properties := block.Properties()
		if !slices.Equal(properties.Names(), impl.propertyNames()) {
			return nil, errors.Wrapf(ErrInvalidSelection, "predefined properties are named %v, expected %v",
				properties.Names(), impl.propertyNames())
		}
		for _, row := range properties.Iter() {
			if !all.Contains(row...) {
				return nil, errors.Wrapf(ErrInvalidSelection, "property %v cannot be computed for key %v", row, key)
			}
		}

		return properties, nil
	default:
		return all, nil
	}
}

// centerSamples lists the (structure, center) of every center of species
// centerSpecies accepted by keep.
func centerSamples(in *input, centerSpecies int32, keep func(s, center int) bool) *labels.Labels {
	b := labels.NewBuilder(sampleNames...)
	for s, sys := range in.systems {
		for center, sp := range sys.Species() {
			if sp == centerSpecies && (keep == nil || keep(s, center)) {
				_ = b.Add(int32(s), int32(center))
			}
		}
	}

	return b.Finish()
}

// atomSamples builds positions gradient samples: for every sample, the center
// itself and each neighbor whose species is accepted, sorted by atom.
func atomSamples(samples *labels.Labels, in *input, accept func(species int32) bool) *labels.Labels {
	b := labels.NewBuilder(positionsSampleNames...)
	var atoms []int
	for r, sample := range samples.Iter() {
		s, center := int(sample[0]), int(sample[1])
		species := in.systems[s].Species()
		atoms = append(atoms[:0], center)
		pairs := in.neighbors[s].Pairs()
		for _, p := range in.neighbors[s].PairsContaining(center) {
			atom, _ := other(pairs[p], center)
			if accept == nil || accept(species[atom]) {
				atoms = append(atoms, atom)
			}
		}
		slices.Sort(atoms)
		atoms = slices.Compact(atoms)
		for _, atom := range atoms {
			_ = b.Add(int32(r), int32(s), int32(atom))
		}
	}

	return b.Finish()
}

// hasNeighbor reports whether center of system s has a neighbor
// of the given species.
func hasNeighbor(in *input, s, center int, species int32) bool {
	all := in.systems[s].Species()
	pairs := in.neighbors[s].Pairs()
	for _, p := range in.neighbors[s].PairsContaining(center) {
		atom, _ := other(pairs[p], center)
		if all[atom] == species {
			return true
		}
	}

	return false
}
