// SPDX-License-Identifier: MIT

package calculator

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/systems"
)

// implementation is the capability set shared by every calculator kind.
// Keys, samples and properties returned here are the defaults; the engine
// narrows them according to the selection before calling prepare.
type implementation interface {
	name() string
	cutoff() float64

	keyNames() []string
	// keys lists the default keys for these systems.
	keys(in *input) *labels.Labels
	// checkKey rejects keys the calculator cannot produce.
	checkKey(key []int32) error

	// samples lists every (structure, center) described by key.
	samples(key []int32, in *input) *labels.Labels
	supportsGradient(name string) bool
	// positionsSamples lists the (sample, structure, atom) gradient rows of
	// the given samples.
	positionsSamples(key []int32, samples *labels.Labels, in *input) *labels.Labels

	components(key []int32) []*labels.Labels
	propertyNames() []string
	properties(key []int32) *labels.Labels

	// prepare returns the function computing one work unit.
	prepare(in *input, lay *layout, cfg config) (unitFunc, error)
}

// factory decodes hyperparameters into an implementation.
type factory func(parameters string) (implementation, error)

var registry = map[string]factory{
	"dummy_calculator":         newDummy,
	"sorted_distances":         newSortedDistances,
	"spherical_expansion":      newSphericalExpansion,
	"lode_spherical_expansion": newLodeSphericalExpansion,
	"soap_power_spectrum":      newPowerSpectrum,
}

// Kinds lists the registered calculator kinds in lexical order.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	return kinds
}

// Calculator computes one representation with fixed hyperparameters. It is
// safe for concurrent use.
type Calculator struct {
	kind       string
	parameters string
	impl       implementation
	cfg        config
}

// New creates a calculator of the given kind.
//
// Errors:
//   - ErrUnknownCalculator when kind is not registered.
//   - ErrInvalidParameter when parameters do not decode or validate; the
//     message names the offending JSON field.
func New(kind, parameters string, opts ...Option) (*Calculator, error) {
	build, ok := registry[kind]
	if !ok {
		return nil, errors.WithHintf(errors.Wrapf(ErrUnknownCalculator, "%q", kind),
			"known calculators: %v", Kinds())
	}
	impl, err := build(parameters)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", kind)
	}

	return &Calculator{
		kind:       kind,
		parameters: parameters,
		impl:       impl,
		cfg:        gatherOptions(opts...),
	}, nil
}

// Kind is the registry name used to create the calculator.
func (c *Calculator) Kind() string { return c.kind }

// Name is a human readable description of the calculator.
func (c *Calculator) Name() string { return c.impl.name() }

// Parameters returns the hyperparameter document given to New.
func (c *Calculator) Parameters() string { return c.parameters }

// input gathers the systems of one computation and their neighbor lists.
type input struct {
	systems   []systems.System
	neighbors []*systems.NeighborList
}

// species lists the distinct species of every system, sorted.
func (in *input) species() []int32 {
	var out []int32
	for _, sys := range in.systems {
		for _, s := range sys.Species() {
			if _, found := slices.BinarySearch(out, s); !found {
				out = append(out, s)
				slices.Sort(out)
			}
		}
	}

	return out
}

// other returns the atom at the other end of pair p seen from center, and the
// vector from center to it.
func other(p systems.Pair, center int) (int, systems.Vector3D) {
	if p.First == center {
		return p.Second, p.Vector
	}

	return p.First, p.Vector.Scale(-1)
}
