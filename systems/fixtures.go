// SPDX-License-Identifier: MIT

package systems

import "github.com/cockroachdb/errors"

// Fixture returns a fresh copy of a small reference structure:
//   - "water": one oxygen (species 8) and two hydrogens in a cubic cell of 10.
//   - "methane": a slightly distorted CH4 in a cubic cell of 10.
//   - "CH": two atoms 1.2 apart, no periodicity.
//   - "chain": a carbon followed by three hydrogens on the (1,1,1) diagonal,
//     no periodicity.
func Fixture(name string) (*SimpleSystem, error) {
	var (
		cell      UnitCell
		species   []int32
		positions []Vector3D
	)
	switch name {
	case "water":
		cell = Cubic(10)
		species = []int32{8, 1, 1}
		positions = []Vector3D{{0, 0, 0}, {0, 0.75545, -0.58895}, {0, -0.75545, -0.58895}}
	case "methane":
		cell = Cubic(10)
		species = []int32{6, 1, 1, 1, 1}
		positions = []Vector3D{
			{5.0000, 5.0000, 5.0000},
			{5.5288, 5.1610, 5.9359},
			{5.2051, 5.8240, 4.3214},
			{5.3345, 4.0686, 4.5504},
			{3.9315, 4.9463, 5.1921},
		}
	case "CH":
		cell = Infinite()
		species = []int32{1, 6}
		positions = []Vector3D{{0, 0, 0}, {0, 1.2, 0}}
	case "chain":
		cell = Infinite()
		species = []int32{6, 1, 1, 1}
		positions = []Vector3D{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3}}
	default:
		return nil, errors.Wrapf(ErrUnknownFixture, "%q", name)
	}

	return NewSimpleSystem(cell, species, positions)
}
