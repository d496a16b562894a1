// SPDX-License-Identifier: MIT

package tensor

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/labels"
)

// GradientSampleDimension is the first dimension of every gradient sample set.
const GradientSampleDimension = "sample"

// Gradient is the derivative of a block's values with respect to one kind of
// input variable (atomic positions, cell strain).
type Gradient struct {
	samples    *labels.Labels
	components []*labels.Labels
	values     *Array
}

// Samples are the gradient samples; the first dimension is the parent row.
func (g *Gradient) Samples() *labels.Labels { return g.samples }

// Components are the gradient components followed by the block components.
func (g *Gradient) Components() []*labels.Labels {
	return append([]*labels.Labels(nil), g.components...)
}

// Values is shaped (samples, components..., properties).
func (g *Gradient) Values() *Array { return g.values }

// Block is the data owned by one key.
type Block struct {
	values     *Array
	samples    *labels.Labels
	components []*labels.Labels
	properties *labels.Labels

	gradients     map[string]*Gradient
	gradientNames []string
}

// NewBlock wraps values with their labels.
// MAIN DESCRIPTION:
//   - Attach sample, component and property label sets to an Array.
//
// Implementation:
//   - Stage 1: reject nil labels.
//   - Stage 2: allocate zeros when values is nil; otherwise check every axis
//     against its label set (ValidateArrayLabels).
//
// Errors:
//   - ErrBadShape, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(rank) for existing values, O(size) when allocating.
func NewBlock(values *Array, samples *labels.Labels, components []*labels.Labels, properties *labels.Labels) (*Block, error) {
	axes, err := blockAxes(samples, components, properties)
	if err != nil {
		return nil, err
	}
	if values == nil {
		if values, err = NewArray(extents(axes)...); err != nil {
			return nil, err
		}
	} else if err = ValidateArrayLabels(values, axes); err != nil {
		return nil, errors.Wrap(err, "NewBlock")
	}

	return &Block{
		values:     values,
		samples:    samples,
		components: append([]*labels.Labels(nil), components...),
		properties: properties,
		gradients:  make(map[string]*Gradient),
	}, nil
}

// Values is shaped (samples, components..., properties).
func (b *Block) Values() *Array { return b.values }

// Samples labels the rows of the block.
func (b *Block) Samples() *labels.Labels { return b.samples }

// Components labels the intermediate axes.
func (b *Block) Components() []*labels.Labels {
	return append([]*labels.Labels(nil), b.components...)
}

// Properties labels the last axis.
func (b *Block) Properties() *labels.Labels { return b.properties }

// Gradient returns the named gradient, if present.
func (b *Block) Gradient(name string) (*Gradient, bool) {
	g, ok := b.gradients[name]

	return g, ok
}

// GradientNames lists the attached gradients in insertion order.
func (b *Block) GradientNames() []string {
	return append([]string(nil), b.gradientNames...)
}

// AddGradient attaches a gradient. components are the gradient-specific
// components only; the block components are appended automatically. When
// values is nil a zero-filled array is allocated.
//
// Errors:
//   - ErrDuplicateGradient when name is already attached.
//   - ErrGradientSample when samples do not reference rows of the block.
//   - ErrDimensionMismatch when values do not follow the labels.
func (b *Block) AddGradient(name string, samples *labels.Labels, components []*labels.Labels, values *Array) (*Gradient, error) {
	if _, dup := b.gradients[name]; dup {
		return nil, errors.Wrapf(ErrDuplicateGradient, "%q", name)
	}
	if samples == nil {
		return nil, errors.Wrapf(ErrGradientSample, "gradient %q has no samples", name)
	}
	if err := ValidateGradientSamples(samples, b.samples.Count()); err != nil {
		return nil, errors.Wrapf(err, "gradient %q", name)
	}
	all := make([]*labels.Labels, 0, len(components)+len(b.components))
	all = append(append(all, components...), b.components...)
	axes, err := blockAxes(samples, all, b.properties)
	if err != nil {
		return nil, err
	}
	if values == nil {
		if values, err = NewArray(extents(axes)...); err != nil {
			return nil, err
		}
	} else if err = ValidateArrayLabels(values, axes); err != nil {
		return nil, errors.Wrapf(err, "gradient %q", name)
	}

	g := &Gradient{samples: samples, components: all, values: values}
	b.gradients[name] = g
	b.gradientNames = append(b.gradientNames, name)

	return g, nil
}

func blockAxes(samples *labels.Labels, components []*labels.Labels, properties *labels.Labels) ([]*labels.Labels, error) {
	if samples == nil || properties == nil {
		return nil, errors.Wrap(ErrDimensionMismatch, "samples and properties are required")
	}
	axes := make([]*labels.Labels, 0, len(components)+2)
	axes = append(axes, samples)
	for i, c := range components {
		if c == nil {
			return nil, errors.Wrapf(ErrDimensionMismatch, "component %d is nil", i)
		}
		axes = append(axes, c)
	}

	return append(axes, properties), nil
}

func extents(axes []*labels.Labels) []int {
	shape := make([]int, len(axes))
	for k, l := range axes {
		shape[k] = l.Count()
	}

	return shape
}
