// SPDX-License-Identifier: MIT

package systems

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
)

// System is the read-only view of one atomic structure consumed by the
// calculators. Implementations must be safe for concurrent readers.
type System interface {
	// Size is the number of atoms.
	Size() int
	// Species returns one non-negative species per atom.
	Species() []int32
	// Positions returns Cartesian positions, one per atom.
	Positions() []Vector3D
	// Cell is the periodic cell, Infinite() for isolated structures.
	Cell() UnitCell
	// Neighbors returns the pairs within cutoff.
	Neighbors(cutoff float64) (*NeighborList, error)
}

// SimpleSystem is an in-memory System that caches its last neighbor list.
type SimpleSystem struct {
	cell      UnitCell
	species   []int32
	positions []Vector3D

	mu        sync.Mutex
	neighbors *NeighborList
}

var _ System = (*SimpleSystem)(nil)

// NewSimpleSystem builds a system from parallel species and position slices.
// The slices are copied.
//
// Errors:
//   - ErrInvalidSystem when lengths differ, a species is negative or a
//     coordinate is not finite.
func NewSimpleSystem(cell UnitCell, species []int32, positions []Vector3D) (*SimpleSystem, error) {
	if len(species) != len(positions) {
		return nil, errors.Wrapf(ErrInvalidSystem, "%d species for %d positions", len(species), len(positions))
	}
	s := &SimpleSystem{cell: cell}
	for i := range species {
		if err := s.AddAtom(species[i], positions[i]); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// AddAtom appends one atom and drops the cached neighbor list.
func (s *SimpleSystem) AddAtom(species int32, position Vector3D) error {
	if species < 0 {
		return errors.Wrapf(ErrInvalidSystem, "species %d is negative", species)
	}
	for _, x := range position {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.Wrapf(ErrInvalidSystem, "position %v is not finite", position)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.species = append(s.species, species)
	s.positions = append(s.positions, position)
	s.neighbors = nil

	return nil
}

// Size is the number of atoms.
func (s *SimpleSystem) Size() int { return len(s.species) }

// Species returns the species of every atom. Do not modify.
func (s *SimpleSystem) Species() []int32 { return s.species }

// Positions returns the positions of every atom. Do not modify.
func (s *SimpleSystem) Positions() []Vector3D { return s.positions }

// Cell is the periodic cell.
func (s *SimpleSystem) Cell() UnitCell { return s.cell }

// Neighbors returns the neighbor list for cutoff, reusing the cached list when
// it was built with the same cutoff.
func (s *SimpleSystem) Neighbors(cutoff float64) (*NeighborList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.neighbors != nil && s.neighbors.cutoff == cutoff {
		return s.neighbors, nil
	}
	nl, err := ComputeNeighbors(s.positions, s.cell, cutoff)
	if err != nil {
		return nil, err
	}
	s.neighbors = nl

	return nl, nil
}

// Clone copies a System into a new SimpleSystem.
func Clone(sys System) *SimpleSystem {
	return &SimpleSystem{
		cell:      sys.Cell(),
		species:   append([]int32(nil), sys.Species()...),
		positions: append([]Vector3D(nil), sys.Positions()...),
	}
}

// Translate returns a copy of sys with every position moved by t.
func Translate(sys System, t Vector3D) *SimpleSystem {
	out := Clone(sys)
	for i := range out.positions {
		out.positions[i] = out.positions[i].Add(t)
	}

	return out
}

// Rotate returns a copy of sys with positions and lattice vectors rotated by r
// (applied as r·v).
func Rotate(sys System, r Matrix3) (*SimpleSystem, error) {
	out := Clone(sys)
	for i := range out.positions {
		out.positions[i] = r.Apply(out.positions[i])
	}
	if !out.cell.IsInfinite() {
		var m Matrix3
		for k, row := range out.cell.matrix {
			m[k] = r.Apply(row)
		}
		cell, err := NewUnitCell(m)
		if err != nil {
			return nil, err
		}
		out.cell = cell
	}

	return out, nil
}

// Displace returns a copy of sys where one coordinate of one atom moved by h.
func Displace(sys System, atom, direction int, h float64) *SimpleSystem {
	out := Clone(sys)
	out.positions[atom][direction] += h

	return out
}

// Strain returns a copy of sys deformed by r → r·(1 + ε) where ε is zero
// except for ε[a][b] = h. Positions and lattice vectors follow the same map.
func Strain(sys System, a, b int, h float64) (*SimpleSystem, error) {
	out := Clone(sys)
	for i := range out.positions {
		out.positions[i][b] += h * out.positions[i][a]
	}
	if !out.cell.IsInfinite() {
		m := out.cell.matrix
		for k := range m {
			m[k][b] += h * m[k][a]
		}
		cell, err := NewUnitCell(m)
		if err != nil {
			return nil, err
		}
		out.cell = cell
	}

	return out, nil
}
