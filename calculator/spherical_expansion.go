// SPDX-License-Identifier: MIT

package calculator

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/basis"
	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/systems"
)

// sphericalExpansion projects the neighbor density of every center on
// R_n(r) Y_lm(r̂). One block holds one (l, center species, neighbor species);
// its components are m = -l..l and its properties n.
//
// Each neighbor at vector v contributes f_c(r) s(r) I_nl(r) Y_lm(v); the center
// adds center_atom_weight · I_n0(0) · Y_00 to the block of its own species.
type sphericalExpansion struct {
	params   SphericalExpansionParameters
	kernel   density
	radial   basis.RadialIntegral
	cutoffFn basis.CutoffFunction
	scaling  basis.RadialScaling

	self       []float64 // center contribution to (l=0, n)
	mLabels    []*labels.Labels
	nLabels    *labels.Labels
	maxRadial  int
	maxAngular int
}

var sphericalExpansionKeyNames = []string{"spherical_harmonics_l", "species_center", "species_neighbor"}

func newSphericalExpansion(parameters string) (implementation, error) {
	var p SphericalExpansionParameters
	if err := decodeParameters(parameters, &p); err != nil {
		return nil, err
	}

	return buildSphericalExpansion(p, gaussianDensity)
}

func newLodeSphericalExpansion(parameters string) (implementation, error) {
	var p LodeParameters
	if err := decodeParameters(parameters, &p); err != nil {
		return nil, err
	}

	return buildSphericalExpansion(p.expansion(), coulombPotential)
}

func buildSphericalExpansion(p SphericalExpansionParameters, kernel density) (*sphericalExpansion, error) {
	radial, err := p.radialIntegral(kernel)
	if err != nil {
		return nil, err
	}
	se := &sphericalExpansion{
		params:     p,
		kernel:     kernel,
		radial:     radial,
		cutoffFn:   p.CutoffFunction.build(),
		scaling:    p.RadialScaling.build(),
		self:       make([]float64, p.MaxRadial),
		mLabels:    make([]*labels.Labels, p.MaxAngular+1),
		maxRadial:  p.MaxRadial,
		maxAngular: p.MaxAngular,
	}

	at0 := make([]float64, (p.MaxAngular+1)*p.MaxRadial)
	radial.Compute(0, at0, nil)
	y00 := 1 / math.Sqrt(4*math.Pi)
	for n := range se.self {
		se.self[n] = p.CenterAtomWeight * at0[n] * y00
	}

	for l := range se.mLabels {
		b := labels.NewBuilder("spherical_harmonics_m")
		for m := -l; m <= l; m++ {
			_ = b.Add(int32(m))
		}
		se.mLabels[l] = b.Finish()
	}
	b := labels.NewBuilder("n")
	for n := 0; n < p.MaxRadial; n++ {
		_ = b.Add(int32(n))
	}
	se.nLabels = b.Finish()

	return se, nil
}

func (se *sphericalExpansion) name() string {
	if se.kernel == coulombPotential {
		return "LODE spherical expansion"
	}

	return "spherical expansion"
}

func (se *sphericalExpansion) cutoff() float64 { return se.params.Cutoff }

func (se *sphericalExpansion) keyNames() []string { return sphericalExpansionKeyNames }

// keys are l-major: every (center, neighbor) species pair for l = 0, then for
// l = 1, and so on.
func (se *sphericalExpansion) keys(in *input) *labels.Labels {
	pairs := pairSpeciesKeys(in, sphericalExpansionKeyNames[1:], true)
	b := labels.NewBuilder(sphericalExpansionKeyNames...)
	for l := 0; l <= se.maxAngular; l++ {
		for _, k := range pairs.Iter() {
			_ = b.Add(int32(l), k[0], k[1])
		}
	}

	return b.Finish()
}

func (se *sphericalExpansion) checkKey(key []int32) error {
	if l := int(key[0]); l < 0 || l > se.maxAngular {
		return errors.Wrapf(ErrInvalidSelection, "key %v: spherical_harmonics_l must be in [0, %d]", key, se.maxAngular)
	}
	if key[1] < 0 || key[2] < 0 {
		return errors.Wrapf(ErrInvalidSelection, "negative species in key %v", key)
	}

	return nil
}

func (se *sphericalExpansion) samples(key []int32, in *input) *labels.Labels {
	center, neighbor := key[1], key[2]

	return centerSamples(in, center, func(s, c int) bool {
		return neighbor == center || hasNeighbor(in, s, c, neighbor)
	})
}

func (se *sphericalExpansion) supportsGradient(name string) bool {
	return name == GradientPositions || name == GradientCell
}

func (se *sphericalExpansion) positionsSamples(key []int32, samples *labels.Labels, in *input) *labels.Labels {
	neighbor := key[2]

	return atomSamples(samples, in, func(s int32) bool { return s == neighbor })
}

func (se *sphericalExpansion) components(key []int32) []*labels.Labels {
	return []*labels.Labels{se.mLabels[key[0]]}
}

func (se *sphericalExpansion) propertyNames() []string { return []string{"n"} }

func (se *sphericalExpansion) properties([]int32) *labels.Labels { return se.nLabels }

// neighborDensity accumulates the expansion of one neighbor species around
// one center. Entry (l, m, n) of a table is at LM(l, m)*maxRadial + n.
//   - grads[k] is the gradient table of atoms[k] for the 3 directions; the
//     center is always atoms[0].
//   - cell holds the 3×3 strain derivatives.
type neighborDensity struct {
	values []float64
	atoms  []int
	index  map[int]int
	grads  [][]float64
	cell   []float64
}

// expander holds the scratch space of one work unit.
type expander struct {
	se         *sphericalExpansion
	harmonics  *basis.SphericalHarmonics
	y          []float64
	dy         [3][]float64
	ri, dri    []float64
	size       int
	positions  bool
	cell       bool
	byNeighbor map[int32]*neighborDensity
}

func (se *sphericalExpansion) newExpander(positions, cell bool) *expander {
	sh, err := basis.NewSphericalHarmonics(se.maxAngular)
	if err != nil {
		// max_angular was validated with the hyperparameters
		panic(err)
	}
	lm := sh.Size()
	e := &expander{
		se:         se,
		harmonics:  sh,
		y:          make([]float64, lm),
		ri:         make([]float64, (se.maxAngular+1)*se.maxRadial),
		dri:        make([]float64, (se.maxAngular+1)*se.maxRadial),
		size:       lm * se.maxRadial,
		positions:  positions,
		cell:       cell,
		byNeighbor: make(map[int32]*neighborDensity),
	}
	if positions || cell {
		for d := range e.dy {
			e.dy[d] = make([]float64, lm)
		}
	}

	return e
}

// reset prepares empty densities for the neighbor species used by slots.
func (e *expander) reset(lay *layout, slots []slot, center int) {
	clear(e.byNeighbor)
	for _, sl := range slots {
		sp := lay.blocks[sl.block].key[2]
		if _, ok := e.byNeighbor[sp]; ok {
			continue
		}
		d := &neighborDensity{
			values: make([]float64, e.size),
			atoms:  []int{center},
			index:  map[int]int{center: 0},
		}
		if e.positions {
			d.grads = [][]float64{make([]float64, 3*e.size)}
		}
		if e.cell {
			d.cell = make([]float64, 9*e.size)
		}
		e.byNeighbor[sp] = d
	}
}

// expand computes the densities of center in system s.
func (e *expander) expand(in *input, s, center int) {
	species := in.systems[s].Species()
	nl := in.neighbors[s]
	pairs := nl.Pairs()
	for _, p := range nl.PairsContaining(center) {
		pair := pairs[p]
		atom, v := other(pair, center)
		d, ok := e.byNeighbor[species[atom]]
		if !ok {
			continue
		}
		e.add(d, v, center, atom)
		if pair.First == pair.Second {
			e.add(d, v.Scale(-1), center, atom)
		}
	}
	if d, ok := e.byNeighbor[species[center]]; ok {
		for n, v := range e.se.self {
			d.values[n] += v
		}
	}
}

// add accumulates the contribution of a neighbor at vector v from the center.
// The positions gradient goes to the neighbor and, with opposite sign, to the
// center; both cancel for a periodic image of the center.
func (e *expander) add(d *neighborDensity, v systems.Vector3D, center, atom int) {
	se := e.se
	r := v.Norm()
	fc := se.cutoffFn.Value(r, se.params.Cutoff)
	if fc == 0 {
		return
	}
	sc := se.scaling.Value(r)
	f := fc * sc

	gradients := e.positions || e.cell
	var (
		df           float64
		ngrad, cgrad []float64
	)
	if gradients {
		df = se.cutoffFn.Derivative(r, se.params.Cutoff)*sc + fc*se.scaling.Derivative(r)
		se.radial.Compute(r, e.ri, e.dri)
		e.harmonics.Compute(v, e.y, e.dy)
	} else {
		se.radial.Compute(r, e.ri, nil)
		e.harmonics.Compute(v, e.y, [3][]float64{})
	}
	if e.positions && atom != center {
		k, ok := d.index[atom]
		if !ok {
			k = len(d.atoms)
			d.index[atom] = k
			d.atoms = append(d.atoms, atom)
			d.grads = append(d.grads, make([]float64, 3*e.size))
		}
		ngrad, cgrad = d.grads[k], d.grads[0]
	}

	nmax := se.maxRadial
	for l := 0; l <= se.maxAngular; l++ {
		for m := -l; m <= l; m++ {
			lm := basis.LM(l, m)
			for n := 0; n < nmax; n++ {
				i := e.ri[l*nmax+n]
				idx := lm*nmax + n
				d.values[idx] += f * i * e.y[lm]
				if !gradients {
					continue
				}
				radialPart := (df*i + f*e.dri[l*nmax+n]) * e.y[lm] / r
				for dir := 0; dir < 3; dir++ {
					g := radialPart*v[dir] + f*i*e.dy[dir][lm]
					if ngrad != nil {
						ngrad[dir*e.size+idx] += g
						cgrad[dir*e.size+idx] -= g
					}
					if e.cell {
						for a := 0; a < 3; a++ {
							d.cell[(3*a+dir)*e.size+idx] += v[a] * g
						}
					}
				}
			}
		}
	}
}

// write copies the densities into the output rows of slots.
func (e *expander) write(lay *layout, slots []slot, s int, out *buffer) {
	nmax := e.se.maxRadial
	for _, sl := range slots {
		bl := &lay.blocks[sl.block]
		l := int(bl.key[0])
		d := e.byNeighbor[bl.key[2]]
		np := bl.properties.Count()
		width := (2*l + 1) * np

		values := out.row(sl.block, valuesEntry, sl.row, width)
		copyRow(values, d.values, l, np, nmax, bl.properties, 0)

		if bl.positions != nil {
			for k, atom := range d.atoms {
				g, ok := bl.positions.Position(int32(sl.row), int32(s), int32(atom))
				if !ok {
					continue
				}
				grad := out.row(sl.block, positionsEntry, g, 3*width)
				for dir := 0; dir < 3; dir++ {
					copyRow(grad[dir*width:], d.grads[k], l, np, nmax, bl.properties, dir*e.size)
				}
			}
		}
		if bl.cell != nil {
			grad := out.row(sl.block, cellEntry, sl.row, 9*width)
			for ab := 0; ab < 9; ab++ {
				copyRow(grad[ab*width:], d.cell, l, np, nmax, bl.properties, ab*e.size)
			}
		}
	}
}

// copyRow writes the (m, selected n) entries of angular order l from a
// density table starting at offset into dst, laid out m-major.
func copyRow(dst, table []float64, l, np, nmax int, properties *labels.Labels, offset int) {
	for m := -l; m <= l; m++ {
		base := offset + basis.LM(l, m)*nmax
		for p, prop := range properties.Iter() {
			dst[(m+l)*np+p] = table[base+int(prop[0])]
		}
	}
}

func (se *sphericalExpansion) prepare(in *input, lay *layout, _ config) (unitFunc, error) {
	return func(u unit, out *buffer) {
		e := se.newExpander(lay.positions, lay.cell)
		for center := u.start; center < u.end; center++ {
			slots := lay.centers[u.system][center]
			if len(slots) == 0 {
				continue
			}
			e.reset(lay, slots, center)
			e.expand(in, u.system, center)
			e.write(lay, slots, u.system, out)
		}
	}, nil
}
