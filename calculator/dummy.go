// SPDX-License-Identifier: MIT

package calculator

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/systems"
)

// dummy produces two trivial features per center:
//   - index_delta: center index + delta.
//   - x_y_z: sum of the coordinates of the center and of every neighbor,
//     counted once per pair.
//
// Its gradients are known in closed form, which makes it a probe for the
// selection and gradient bookkeeping.
type dummy struct {
	params DummyParameters
}

var dummyProperties = labels.New([]string{"index_delta", "x_y_z"}, [][]int32{{1, 0}, {0, 1}})

func newDummy(parameters string) (implementation, error) {
	d := &dummy{}
	if err := decodeParameters(parameters, &d.params); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *dummy) name() string {
	return fmt.Sprintf("dummy test calculator with cutoff: %v - delta: %d - name: %s",
		d.params.Cutoff, d.params.Delta, d.params.Name)
}

func (d *dummy) cutoff() float64 { return d.params.Cutoff }

func (d *dummy) keyNames() []string { return []string{"species_center"} }

func (d *dummy) keys(in *input) *labels.Labels {
	b := labels.NewBuilder(d.keyNames()...)
	for _, s := range in.species() {
		_ = b.Add(s)
	}

	return b.Finish()
}

func (d *dummy) checkKey(key []int32) error {
	if key[0] < 0 {
		return errors.Wrapf(ErrInvalidSelection, "negative species in key %v", key)
	}

	return nil
}

func (d *dummy) samples(key []int32, in *input) *labels.Labels {
	return centerSamples(in, key[0], nil)
}

func (d *dummy) supportsGradient(name string) bool { return name == GradientPositions }

func (d *dummy) positionsSamples(_ []int32, samples *labels.Labels, in *input) *labels.Labels {
	return atomSamples(samples, in, nil)
}

func (d *dummy) components([]int32) []*labels.Labels { return nil }

func (d *dummy) propertyNames() []string { return dummyProperties.Names() }

func (d *dummy) properties([]int32) *labels.Labels { return dummyProperties }

func (d *dummy) prepare(in *input, lay *layout, _ config) (unitFunc, error) {
	delta := float64(d.params.Delta)

	return func(u unit, out *buffer) {
		positions := in.systems[u.system].Positions()
		nl := in.neighbors[u.system]
		pairs := nl.Pairs()

		var (
			atoms  []int
			counts = make(map[int]float64)
		)
		for center := u.start; center < u.end; center++ {
			slots := lay.centers[u.system][center]
			if len(slots) == 0 {
				continue
			}

			xyz := coordinateSum(positions[center])
			atoms = append(atoms[:0], center)
			clear(counts)
			counts[center] = 1
			for _, p := range nl.PairsContaining(center) {
				atom, _ := other(pairs[p], center)
				xyz += coordinateSum(positions[atom])
				if counts[atom] == 0 {
					atoms = append(atoms, atom)
				}
				counts[atom]++
			}
			slices.Sort(atoms)

			for _, sl := range slots {
				bl := &lay.blocks[sl.block]
				props := bl.properties.Count()
				values := out.row(sl.block, valuesEntry, sl.row, props)
				for p, prop := range bl.properties.Iter() {
					values[p] = float64(prop[0])*(float64(center)+delta) + float64(prop[1])*xyz
				}
				if bl.positions == nil {
					continue
				}
				for _, atom := range atoms {
					g, ok := bl.positions.Position(int32(sl.row), int32(u.system), int32(atom))
					if !ok {
						continue
					}
					grad := out.row(sl.block, positionsEntry, g, 3*props)
					for p, prop := range bl.properties.Iter() {
						for dir := 0; dir < 3; dir++ {
							grad[dir*props+p] = float64(prop[1]) * counts[atom]
						}
					}
				}
			}
		}
	}, nil
}

func coordinateSum(v systems.Vector3D) float64 { return v[0] + v[1] + v[2] }
