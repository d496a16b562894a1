// SPDX-License-Identifier: MIT

package systems

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
)

// Pair is one unordered pair of atoms within the cutoff.
//   - First <= Second; Vector goes from First to the image of Second.
//   - CellShift is the integer image of Second, in units of the lattice vectors.
type Pair struct {
	First     int
	Second    int
	Distance  float64
	Vector    Vector3D
	CellShift [3]int32
}

// NeighborList is the immutable result of a neighbor search.
type NeighborList struct {
	cutoff   float64
	pairs    []Pair
	byCenter [][]int
}

// Cutoff is the radius the list was built with.
func (nl *NeighborList) Cutoff() float64 { return nl.cutoff }

// Pairs returns every pair, sorted by (first, second, shift). The slice is
// shared and must not be modified.
func (nl *NeighborList) Pairs() []Pair { return nl.pairs }

// PairsContaining returns the indices in Pairs of the pairs where center is
// either the first or the second atom, in increasing order.
func (nl *NeighborList) PairsContaining(center int) []int { return nl.byCenter[center] }

// ComputeNeighbors builds the neighbor list of a set of positions.
// MAIN DESCRIPTION:
//   - Report every pair (i, j, shift) with |x_j + shift·H − x_i| ≤ cutoff, once.
//
// Implementation:
//   - Stage 1: validate the cutoff and positions.
//   - Stage 2: bin the atoms. Periodic cells are binned in wrapped fractional
//     coordinates; infinite cells over the bounding box of the positions.
//   - Stage 3: for every atom, scan the bins within reach and keep pairs with
//     i < j, or i == j with a lexicographically positive shift.
//   - Stage 4: sort by (first, second, shift) and index pairs by atom.
//
// Errors:
//   - ErrInvalidCutoff, ErrInvalidSystem.
//
// Complexity:
//   - Time O(N + P) for evenly spread atoms plus O(P log P) for the sort, where
//     P is the number of pairs. Space O(N + P).
func ComputeNeighbors(positions []Vector3D, cell UnitCell, cutoff float64) (*NeighborList, error) {
	if !(cutoff > 0) || math.IsInf(cutoff, 0) {
		return nil, errors.Wrapf(ErrInvalidCutoff, "got %v", cutoff)
	}
	for i, p := range positions {
		for _, x := range p {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, errors.Wrapf(ErrInvalidSystem, "position of atom %d is %v", i, p)
			}
		}
	}

	var g *binGrid
	if cell.IsInfinite() {
		g = newBoxGrid(positions, cutoff)
	} else {
		g = newPeriodicGrid(positions, cell, cutoff)
	}

	cutoff2 := cutoff * cutoff
	pairs := make([]Pair, 0, 4*len(positions))
	for i := range positions {
		bi := g.bin[i]
		for dx := -g.reach[0]; dx <= g.reach[0]; dx++ {
			for dy := -g.reach[1]; dy <= g.reach[1]; dy++ {
				for dz := -g.reach[2]; dz <= g.reach[2]; dz++ {
					target, image, ok := g.neighborBin(bi, [3]int{dx, dy, dz})
					if !ok {
						continue
					}
					for _, j := range g.members[g.flat(target)] {
						if j < i {
							continue
						}
						shift := [3]int32{
							int32(image[0] + g.wrap[i][0] - g.wrap[j][0]),
							int32(image[1] + g.wrap[i][1] - g.wrap[j][1]),
							int32(image[2] + g.wrap[i][2] - g.wrap[j][2]),
						}
						if i == j && !positiveShift(shift) {
							continue
						}
						v := positions[j].Sub(positions[i]).Add(cell.Shift(shift))
						d2 := v.Norm2()
						if d2 > cutoff2 {
							continue
						}
						pairs = append(pairs, Pair{First: i, Second: j, Distance: math.Sqrt(d2), Vector: v, CellShift: shift})
					}
				}
			}
		}
	}

	slices.SortFunc(pairs, comparePairs)

	byCenter := make([][]int, len(positions))
	for k, p := range pairs {
		byCenter[p.First] = append(byCenter[p.First], k)
		if p.Second != p.First {
			byCenter[p.Second] = append(byCenter[p.Second], k)
		}
	}

	return &NeighborList{cutoff: cutoff, pairs: pairs, byCenter: byCenter}, nil
}

// positiveShift reports whether the first non-zero component is positive.
func positiveShift(s [3]int32) bool {
	for _, v := range s {
		if v != 0 {
			return v > 0
		}
	}

	return false
}

func comparePairs(a, b Pair) int {
	if a.First != b.First {
		return a.First - b.First
	}
	if a.Second != b.Second {
		return a.Second - b.Second
	}
	for k := 0; k < 3; k++ {
		if a.CellShift[k] != b.CellShift[k] {
			return int(a.CellShift[k] - b.CellShift[k])
		}
	}

	return 0
}

// binGrid assigns atoms to bins at least cutoff wide (or reached through
// enough neighboring bins).
//   - n: bins per axis; reach: how many neighboring bins to scan per axis.
//   - periodic: neighbor bins wrap around and produce image shifts.
//   - wrap: per atom, the integer lattice translation removed when binning.
type binGrid struct {
	n        [3]int
	reach    [3]int
	periodic bool
	bin      [][3]int
	wrap     [][3]int
	members  [][]int
}

// maxBins bounds the number of bins per axis so sparse systems with a tiny
// cutoff do not allocate huge grids.
func maxBins(atoms int) int {
	return max(1, int(math.Ceil(math.Cbrt(float64(atoms)))))
}

func newPeriodicGrid(positions []Vector3D, cell UnitCell, cutoff float64) *binGrid {
	g := &binGrid{periodic: true}
	faces := cell.FaceDistances()
	for a := 0; a < 3; a++ {
		g.n[a] = min(max(1, int(math.Floor(faces[a]/cutoff))), maxBins(len(positions)))
		g.reach[a] = max(1, int(math.Ceil(cutoff*float64(g.n[a])/faces[a])))
	}
	g.bin = make([][3]int, len(positions))
	g.wrap = make([][3]int, len(positions))
	for i, p := range positions {
		f := cell.Fractional(p)
		for a := 0; a < 3; a++ {
			w := math.Floor(f[a])
			g.wrap[i][a] = int(w)
			g.bin[i][a] = min(int((f[a]-w)*float64(g.n[a])), g.n[a]-1)
		}
	}
	g.fill()

	return g
}

func newBoxGrid(positions []Vector3D, cutoff float64) *binGrid {
	g := &binGrid{reach: [3]int{1, 1, 1}}
	var lo, hi Vector3D
	if len(positions) > 0 {
		lo, hi = positions[0], positions[0]
	}
	for _, p := range positions {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], p[a])
			hi[a] = max(hi[a], p[a])
		}
	}
	var width Vector3D
	for a := 0; a < 3; a++ {
		g.n[a] = min(max(1, int(math.Floor((hi[a]-lo[a])/cutoff))), maxBins(len(positions)))
		width[a] = (hi[a] - lo[a]) / float64(g.n[a])
	}
	g.bin = make([][3]int, len(positions))
	g.wrap = make([][3]int, len(positions))
	for i, p := range positions {
		for a := 0; a < 3; a++ {
			if width[a] > 0 {
				g.bin[i][a] = min(int((p[a]-lo[a])/width[a]), g.n[a]-1)
			}
		}
	}
	g.fill()

	return g
}

func (g *binGrid) flat(b [3]int) int { return (b[0]*g.n[1]+b[1])*g.n[2] + b[2] }

func (g *binGrid) fill() {
	g.members = make([][]int, g.n[0]*g.n[1]*g.n[2])
	for i, b := range g.bin {
		k := g.flat(b)
		g.members[k] = append(g.members[k], i)
	}
}

// neighborBin resolves bin + delta. For periodic grids it wraps the bin and
// returns the image shift; for box grids it reports false outside the grid.
func (g *binGrid) neighborBin(bin, delta [3]int) (target, image [3]int, ok bool) {
	for a := 0; a < 3; a++ {
		t := bin[a] + delta[a]
		if !g.periodic {
			if t < 0 || t >= g.n[a] {
				return target, image, false
			}
			target[a] = t
			continue
		}
		image[a] = floorDiv(t, g.n[a])
		target[a] = t - image[a]*g.n[a]
	}

	return target, image, true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
