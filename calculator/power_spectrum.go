// SPDX-License-Identifier: MIT

package calculator

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/labels"
	"github.com/katalvlaran/lvatoms/tensor"
)

// powerSpectrum contracts two spherical expansions around the same center:
//
//	p(l, n1, n2) = f / √(2l+1) · Σ_m c(l, m, n1; sn1) · c(l, m, n2; sn2)
//
// with f = √2 when sn1 != sn2 (the (sn2, sn1) block is not stored) and 1
// otherwise. Gradients follow from the product rule.
type powerSpectrum struct {
	expansion *sphericalExpansion
	props     *labels.Labels
}

var powerSpectrumKeyNames = []string{"species_center", "species_neighbor_1", "species_neighbor_2"}

func newPowerSpectrum(parameters string) (implementation, error) {
	var p PowerSpectrumParameters
	if err := decodeParameters(parameters, &p); err != nil {
		return nil, err
	}
	se, err := buildSphericalExpansion(SphericalExpansionParameters(p), gaussianDensity)
	if err != nil {
		return nil, err
	}

	b := labels.NewBuilder("l", "n1", "n2")
	for l := 0; l <= p.MaxAngular; l++ {
		for n1 := 0; n1 < p.MaxRadial; n1++ {
			for n2 := 0; n2 < p.MaxRadial; n2++ {
				_ = b.Add(int32(l), int32(n1), int32(n2))
			}
		}
	}

	return &powerSpectrum{expansion: se, props: b.Finish()}, nil
}

func (ps *powerSpectrum) name() string { return "SOAP power spectrum" }

func (ps *powerSpectrum) cutoff() float64 { return ps.expansion.cutoff() }

func (ps *powerSpectrum) keyNames() []string { return powerSpectrumKeyNames }

// keys pair every two neighbor species (sn1 <= sn2) seen around a center
// species, the center species included.
func (ps *powerSpectrum) keys(in *input) *labels.Labels {
	pairs := pairSpeciesKeys(in, sphericalExpansionKeyNames[1:], true)
	b := labels.NewBuilder(powerSpectrumKeyNames...)
	var neighbors []int32
	flush := func(center int32) {
		for i, sn1 := range neighbors {
			for _, sn2 := range neighbors[i:] {
				_ = b.Add(center, sn1, sn2)
			}
		}
	}
	for r, k := range pairs.Iter() {
		if r > 0 && k[0] != pairs.Row(r-1)[0] {
			flush(pairs.Row(r-1)[0])
			neighbors = neighbors[:0]
		}
		neighbors = append(neighbors, k[1])
	}
	if n := pairs.Count(); n > 0 {
		flush(pairs.Row(n-1)[0])
	}

	return b.Finish()
}

func (ps *powerSpectrum) checkKey(key []int32) error {
	if slices.Min(key) < 0 {
		return errors.Wrapf(ErrInvalidSelection, "negative species in key %v", key)
	}

	return nil
}

func (ps *powerSpectrum) samples(key []int32, in *input) *labels.Labels {
	center, sn1, sn2 := key[0], key[1], key[2]

	return centerSamples(in, center, func(s, c int) bool {
		return (sn1 == center || hasNeighbor(in, s, c, sn1)) &&
			(sn2 == center || hasNeighbor(in, s, c, sn2))
	})
}

func (ps *powerSpectrum) supportsGradient(name string) bool {
	return ps.expansion.supportsGradient(name)
}

func (ps *powerSpectrum) positionsSamples(key []int32, samples *labels.Labels, in *input) *labels.Labels {
	sn1, sn2 := key[1], key[2]

	return atomSamples(samples, in, func(s int32) bool { return s == sn1 || s == sn2 })
}

func (ps *powerSpectrum) components([]int32) []*labels.Labels { return nil }

func (ps *powerSpectrum) propertyNames() []string { return ps.props.Names() }

func (ps *powerSpectrum) properties([]int32) *labels.Labels { return ps.props }

// psTerm locates the two expansion coefficients of one property.
type psTerm struct {
	l             int
	first, second *tensor.Block
	n1, n2        int // positions in the property labels of first and second
}

// expansionRequest collects what one spherical expansion block must contain.
type expansionRequest struct {
	samples map[[2]int32]struct{}
	ns      map[int32]struct{}
}

// prepare computes the spherical expansion restricted to the entries used by
// lay, then returns the contraction.
// MAIN DESCRIPTION:
//   - The expansion runs with Predefined samples and properties derived from
//     the power spectrum layout, so a restricted power spectrum only expands
//     what it contracts.
//
// Implementation:
//   - Stage 1: for every property (l, n1, n2) of a block (sc, sn1, sn2),
//     request n1 in (l, sc, sn1) and n2 in (l, sc, sn2) for all block samples.
//   - Stage 2: compute the expansion with the same gradients.
//   - Stage 3: resolve every property to a psTerm.
func (ps *powerSpectrum) prepare(in *input, lay *layout, cfg config) (unitFunc, error) {
	requests := make(map[[3]int32]*expansionRequest)
	request := func(key [3]int32, n int32, samples *labels.Labels) {
		req, ok := requests[key]
		if !ok {
			req = &expansionRequest{samples: make(map[[2]int32]struct{}), ns: make(map[int32]struct{})}
			requests[key] = req
		}
		req.ns[n] = struct{}{}
		for _, row := range samples.Iter() {
			req.samples[[2]int32{row[0], row[1]}] = struct{}{}
		}
	}
	for _, bl := range lay.blocks {
		sc, sn1, sn2 := bl.key[0], bl.key[1], bl.key[2]
		for _, prop := range bl.properties.Iter() {
			request([3]int32{prop[0], sc, sn1}, prop[1], bl.samples)
			request([3]int32{prop[0], sc, sn2}, prop[2], bl.samples)
		}
	}

	selected, err := expansionSelection(requests, ps.expansion)
	if err != nil {
		return nil, err
	}
	var gradients []string
	if lay.positions {
		gradients = append(gradients, GradientPositions)
	}
	if lay.cell {
		gradients = append(gradients, GradientCell)
	}
	spx, err := compute(ps.expansion, in, Options{
		Gradients:          gradients,
		SelectedSamples:    Predefined(selected),
		SelectedProperties: Predefined(selected),
		SelectedKeys:       selected.Keys(),
	}, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "spherical expansion")
	}

	terms := make([][]psTerm, len(lay.blocks))
	for b, bl := range lay.blocks {
		sc, sn1, sn2 := bl.key[0], bl.key[1], bl.key[2]
		terms[b] = make([]psTerm, bl.properties.Count())
		for p, prop := range bl.properties.Iter() {
			t := psTerm{l: int(prop[0])}
			t.first, _ = spx.BlockByKey(prop[0], sc, sn1)
			t.second, _ = spx.BlockByKey(prop[0], sc, sn2)
			t.n1, _ = t.first.Properties().Position(prop[1])
			t.n2, _ = t.second.Properties().Position(prop[2])
			terms[b][p] = t
		}
	}

	children := make([][][]int, len(lay.blocks))
	for b, bl := range lay.blocks {
		if bl.positions == nil {
			continue
		}
		children[b] = make([][]int, bl.samples.Count())
		for g, row := range bl.positions.Iter() {
			children[b][row[0]] = append(children[b][row[0]], g)
		}
	}

	return func(u unit, out *buffer) {
		for center := u.start; center < u.end; center++ {
			for _, sl := range lay.centers[u.system][center] {
				bl := &lay.blocks[sl.block]
				factor := 1.0
				if bl.key[1] != bl.key[2] {
					factor = math.Sqrt2
				}
				sample := [2]int32{int32(u.system), int32(center)}
				contract(sl, terms[sl.block], sample, factor, out)
				if bl.positions != nil {
					contractPositions(bl, sl, terms[sl.block], children[sl.block][sl.row], sample, factor, out)
				}
				if bl.cell != nil {
					contractCell(sl, terms[sl.block], sample, factor, out)
				}
			}
		}
	}, nil
}

// expansionSelection turns requests into a predefined spherical expansion
// layout with sorted keys, samples and properties.
func expansionSelection(requests map[[3]int32]*expansionRequest, se *sphericalExpansion) (*tensor.Map, error) {
	keys := make([][3]int32, 0, len(requests))
	for k := range requests {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b [3]int32) int { return slices.Compare(a[:], b[:]) })

	kb := labels.NewBuilder(sphericalExpansionKeyNames...)
	blocks := make([]*tensor.Block, 0, len(keys))
	for _, k := range keys {
		req := requests[k]
		_ = kb.Add(k[0], k[1], k[2])

		samples := make([][2]int32, 0, len(req.samples))
		for s := range req.samples {
			samples = append(samples, s)
		}
		slices.SortFunc(samples, func(a, b [2]int32) int { return slices.Compare(a[:], b[:]) })
		sb := labels.NewBuilder(sampleNames...)
		for _, s := range samples {
			_ = sb.Add(s[0], s[1])
		}

		ns := make([]int32, 0, len(req.ns))
		for n := range req.ns {
			ns = append(ns, n)
		}
		slices.Sort(ns)
		nb := labels.NewBuilder("n")
		for _, n := range ns {
			_ = nb.Add(n)
		}

		block, err := tensor.NewBlock(nil, sb.Finish(), se.components(k[:]), nb.Finish())
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return tensor.NewMap(kb.Finish(), blocks)
}

func contract(sl slot, terms []psTerm, sample [2]int32, factor float64, out *buffer) {
	values := out.row(sl.block, valuesEntry, sl.row, len(terms))
	for p, t := range terms {
		r1, _ := t.first.Samples().Position(sample[0], sample[1])
		r2, _ := t.second.Samples().Position(sample[0], sample[1])
		v1, v2 := t.first.Values().Row(r1), t.second.Values().Row(r2)
		w1, w2 := t.first.Properties().Count(), t.second.Properties().Count()

		sum := 0.0
		for m := 0; m < 2*t.l+1; m++ {
			sum += v1[m*w1+t.n1] * v2[m*w2+t.n2]
		}
		values[p] = factor * sum / math.Sqrt(float64(2*t.l+1))
	}
}

func contractPositions(bl *blockLayout, sl slot, terms []psTerm, rows []int, sample [2]int32, factor float64, out *buffer) {
	np := len(terms)
	for _, g := range rows {
		atom := bl.positions.Row(g)[2]
		grad := out.row(sl.block, positionsEntry, g, 3*np)
		for p, t := range terms {
			r1, _ := t.first.Samples().Position(sample[0], sample[1])
			r2, _ := t.second.Samples().Position(sample[0], sample[1])
			v1, v2 := t.first.Values().Row(r1), t.second.Values().Row(r2)
			w1, w2 := t.first.Properties().Count(), t.second.Properties().Count()
			k1, k2 := (2*t.l+1)*w1, (2*t.l+1)*w2

			gradient1, _ := t.first.Gradient(GradientPositions)
			gradient2, _ := t.second.Gradient(GradientPositions)
			g1, ok1 := gradient1.Samples().Position(int32(r1), sample[0], atom)
			g2, ok2 := gradient2.Samples().Position(int32(r2), sample[0], atom)

			scale := factor / math.Sqrt(float64(2*t.l+1))
			for dir := 0; dir < 3; dir++ {
				sum := 0.0
				if ok1 {
					d1 := gradient1.Values().Row(g1)[dir*k1:]
					for m := 0; m < 2*t.l+1; m++ {
						sum += d1[m*w1+t.n1] * v2[m*w2+t.n2]
					}
				}
				if ok2 {
					d2 := gradient2.Values().Row(g2)[dir*k2:]
					for m := 0; m < 2*t.l+1; m++ {
						sum += v1[m*w1+t.n1] * d2[m*w2+t.n2]
					}
				}
				grad[dir*np+p] = scale * sum
			}
		}
	}
}

func contractCell(sl slot, terms []psTerm, sample [2]int32, factor float64, out *buffer) {
	np := len(terms)
	grad := out.row(sl.block, cellEntry, sl.row, 9*np)
	for p, t := range terms {
		r1, _ := t.first.Samples().Position(sample[0], sample[1])
		r2, _ := t.second.Samples().Position(sample[0], sample[1])
		v1, v2 := t.first.Values().Row(r1), t.second.Values().Row(r2)
		w1, w2 := t.first.Properties().Count(), t.second.Properties().Count()
		k1, k2 := (2*t.l+1)*w1, (2*t.l+1)*w2

		gradient1, _ := t.first.Gradient(GradientCell)
		gradient2, _ := t.second.Gradient(GradientCell)
		c1, c2 := gradient1.Values().Row(r1), gradient2.Values().Row(r2)

		scale := factor / math.Sqrt(float64(2*t.l+1))
		for ab := 0; ab < 9; ab++ {
			sum := 0.0
			for m := 0; m < 2*t.l+1; m++ {
				sum += c1[ab*k1+m*w1+t.n1]*v2[m*w2+t.n2] + v1[m*w1+t.n1]*c2[ab*k2+m*w2+t.n2]
			}
			grad[ab*np+p] = scale * sum
		}
	}
}
