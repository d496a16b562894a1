// SPDX-License-Identifier: MIT

package calculator

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/labels"
)

// sortedDistances describes each center by the distances to its neighbors,
// sorted and padded with the cutoff up to max_neighbors. With
// separate_neighbor_species, every neighbor species gets its own block.
type sortedDistances struct {
	params SortedDistancesParameters
	props  *labels.Labels
}

func newSortedDistances(parameters string) (implementation, error) {
	sd := &sortedDistances{}
	if err := decodeParameters(parameters, &sd.params); err != nil {
		return nil, err
	}
	b := labels.NewBuilder("neighbor")
	for n := 0; n < sd.params.MaxNeighbors; n++ {
		_ = b.Add(int32(n))
	}
	sd.props = b.Finish()

	return sd, nil
}

func (sd *sortedDistances) name() string { return "sorted distances vector" }

func (sd *sortedDistances) cutoff() float64 { return sd.params.Cutoff }

func (sd *sortedDistances) keyNames() []string {
	if sd.params.SeparateNeighborSpecies {
		return []string{"species_center", "species_neighbor"}
	}

	return []string{"species_center"}
}

func (sd *sortedDistances) keys(in *input) *labels.Labels {
	if !sd.params.SeparateNeighborSpecies {
		b := labels.NewBuilder(sd.keyNames()...)
		for _, s := range in.species() {
			_ = b.Add(s)
		}

		return b.Finish()
	}

	return pairSpeciesKeys(in, sd.keyNames(), false)
}

func (sd *sortedDistances) checkKey(key []int32) error {
	if slices.Min(key) < 0 {
		return errors.Wrapf(ErrInvalidSelection, "negative species in key %v", key)
	}

	return nil
}

func (sd *sortedDistances) samples(key []int32, in *input) *labels.Labels {
	if !sd.params.SeparateNeighborSpecies {
		return centerSamples(in, key[0], nil)
	}

	return centerSamples(in, key[0], func(s, center int) bool {
		return hasNeighbor(in, s, center, key[1])
	})
}

func (sd *sortedDistances) supportsGradient(string) bool { return false }

func (sd *sortedDistances) positionsSamples([]int32, *labels.Labels, *input) *labels.Labels {
	return nil
}

func (sd *sortedDistances) components([]int32) []*labels.Labels { return nil }

func (sd *sortedDistances) propertyNames() []string { return []string{"neighbor"} }

func (sd *sortedDistances) properties([]int32) *labels.Labels { return sd.props }

func (sd *sortedDistances) prepare(in *input, lay *layout, _ config) (unitFunc, error) {
	return func(u unit, out *buffer) {
		species := in.systems[u.system].Species()
		nl := in.neighbors[u.system]
		pairs := nl.Pairs()

		var distances []float64
		for center := u.start; center < u.end; center++ {
			for _, sl := range lay.centers[u.system][center] {
				bl := &lay.blocks[sl.block]
				distances = distances[:0]
				for _, p := range nl.PairsContaining(center) {
					pair := pairs[p]
					atom, _ := other(pair, center)
					if sd.params.SeparateNeighborSpecies && species[atom] != bl.key[1] {
						continue
					}
					distances = append(distances, pair.Distance)
					if pair.First == pair.Second {
						// a periodic image of the center is seen in both directions
						distances = append(distances, pair.Distance)
					}
				}
				slices.Sort(distances)

				values := out.row(sl.block, valuesEntry, sl.row, bl.properties.Count())
				for p, prop := range bl.properties.Iter() {
					n := int(prop[0])
					if n < len(distances) {
						values[p] = distances[n]
					} else {
						values[p] = sd.params.Cutoff
					}
				}
			}
		}
	}, nil
}

// pairSpeciesKeys lists (center species, neighbor species) for every observed
// pair, in both directions, sorted. With self, (s, s) is added for every
// species present.
func pairSpeciesKeys(in *input, names []string, self bool) *labels.Labels {
	seen := make(map[[2]int32]struct{})
	add := func(a, b int32) { seen[[2]int32{a, b}] = struct{}{} }
	if self {
		for _, s := range in.species() {
			add(s, s)
		}
	}
	for s, sys := range in.systems {
		species := sys.Species()
		for _, p := range in.neighbors[s].Pairs() {
			add(species[p.First], species[p.Second])
			add(species[p.Second], species[p.First])
		}
	}
	found := make([][2]int32, 0, len(seen))
	for k := range seen {
		found = append(found, k)
	}
	slices.SortFunc(found, func(x, y [2]int32) int { return slices.Compare(x[:], y[:]) })

	b := labels.NewBuilder(names...)
	for _, k := range found {
		_ = b.Add(k[0], k[1])
	}

	return b.Finish()
}
