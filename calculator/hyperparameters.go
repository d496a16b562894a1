// SPDX-License-Identifier: MIT

package calculator

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/lvatoms/basis"
)

// DummyParameters configure the dummy calculator.
type DummyParameters struct {
	Cutoff float64 `json:"cutoff" validate:"gt=0"`
	Delta  int     `json:"delta"`
	Name   string  `json:"name"`
	// Gradients is accepted for compatibility and ignored; gradients are
	// requested through Options.
	Gradients bool `json:"gradients,omitempty"`
}

// SortedDistancesParameters configure the sorted distances calculator.
type SortedDistancesParameters struct {
	Cutoff                  float64 `json:"cutoff" validate:"gt=0"`
	MaxNeighbors            int     `json:"max_neighbors" validate:"gte=1"`
	SeparateNeighborSpecies bool    `json:"separate_neighbor_species,omitempty"`
}

// GtoParameters configure the GTO radial basis.
type GtoParameters struct {
	// SplinedRadialIntegral defaults to true.
	SplinedRadialIntegral *bool `json:"splined_radial_integral,omitempty"`
	// SplineAccuracy defaults to basis.DefaultSplineAccuracy.
	SplineAccuracy float64 `json:"spline_accuracy,omitempty" validate:"omitempty,gt=0"`
}

// RadialBasis is a tagged choice; exactly one field is set.
type RadialBasis struct {
	Gto *GtoParameters `json:"Gto,omitempty"`
}

func (r RadialBasis) variants() int { return countSet(r.Gto != nil) }

// StepParameters select the step cutoff function. It has no fields.
type StepParameters struct{}

// ShiftedCosineParameters select a cosine decay over the last Width of the
// cutoff sphere.
type ShiftedCosineParameters struct {
	Width float64 `json:"width" validate:"gt=0"`
}

// CutoffFunction is a tagged choice; exactly one field is set.
type CutoffFunction struct {
	Step          *StepParameters          `json:"Step,omitempty"`
	ShiftedCosine *ShiftedCosineParameters `json:"ShiftedCosine,omitempty"`
}

func (c CutoffFunction) variants() int { return countSet(c.Step != nil, c.ShiftedCosine != nil) }

func (c CutoffFunction) build() basis.CutoffFunction {
	if c.ShiftedCosine != nil {
		return basis.ShiftedCosine{Width: c.ShiftedCosine.Width}
	}

	return basis.Step{}
}

// NoScalingParameters select a constant weight of 1.
type NoScalingParameters struct{}

// Willatt2018Parameters weight neighbors by rate / (rate + (r/scale)^exponent).
type Willatt2018Parameters struct {
	Scale    float64 `json:"scale" validate:"gt=0"`
	Rate     float64 `json:"rate" validate:"gte=0"`
	Exponent float64 `json:"exponent" validate:"gte=0"`
}

// RadialScaling is a tagged choice; exactly one field is set.
type RadialScaling struct {
	None        *NoScalingParameters   `json:"None,omitempty"`
	Willatt2018 *Willatt2018Parameters `json:"Willatt2018,omitempty"`
}

func (r RadialScaling) variants() int { return countSet(r.None != nil, r.Willatt2018 != nil) }

func (r *RadialScaling) build() basis.RadialScaling {
	if r == nil || r.Willatt2018 == nil {
		return basis.NoScaling{}
	}
	w := r.Willatt2018

	return basis.Willatt2018{Scale: w.Scale, Rate: w.Rate, Exponent: w.Exponent}
}

// SphericalExpansionParameters configure the SOAP spherical expansion.
type SphericalExpansionParameters struct {
	Cutoff              float64        `json:"cutoff" validate:"gt=0"`
	MaxRadial           int            `json:"max_radial" validate:"gte=1"`
	MaxAngular          int            `json:"max_angular" validate:"gte=0"`
	AtomicGaussianWidth float64        `json:"atomic_gaussian_width" validate:"gt=0"`
	CenterAtomWeight    float64        `json:"center_atom_weight"`
	RadialBasis         RadialBasis    `json:"radial_basis"`
	CutoffFunction      CutoffFunction `json:"cutoff_function"`
	RadialScaling       *RadialScaling `json:"radial_scaling,omitempty"`
}

// PowerSpectrumParameters configure the SOAP power spectrum. They are the
// parameters of the underlying spherical expansion.
type PowerSpectrumParameters SphericalExpansionParameters

// LodeParameters configure the LODE spherical expansion.
type LodeParameters struct {
	Cutoff              float64        `json:"cutoff" validate:"gt=0"`
	MaxRadial           int            `json:"max_radial" validate:"gte=1"`
	MaxAngular          int            `json:"max_angular" validate:"gte=0"`
	AtomicGaussianWidth float64        `json:"atomic_gaussian_width" validate:"gt=0"`
	CenterAtomWeight    float64        `json:"center_atom_weight"`
	PotentialExponent   int            `json:"potential_exponent" validate:"eq=1"`
	RadialBasis         RadialBasis    `json:"radial_basis"`
	CutoffFunction      CutoffFunction `json:"cutoff_function"`
	RadialScaling       *RadialScaling `json:"radial_scaling,omitempty"`
}

func (p LodeParameters) expansion() SphericalExpansionParameters {
	return SphericalExpansionParameters{
		Cutoff:              p.Cutoff,
		MaxRadial:           p.MaxRadial,
		MaxAngular:          p.MaxAngular,
		AtomicGaussianWidth: p.AtomicGaussianWidth,
		CenterAtomWeight:    p.CenterAtomWeight,
		RadialBasis:         p.RadialBasis,
		CutoffFunction:      p.CutoffFunction,
		RadialScaling:       p.RadialScaling,
	}
}

// density selects the radial kernel of an expansion.
type density uint8

const (
	gaussianDensity density = iota
	coulombPotential
)

// radialIntegral builds the radial integral described by p.
// MAIN DESCRIPTION:
//   - GTO basis, then the Gaussian or LODE kernel, then the optional spline.
//
// Errors:
//   - ErrInvalidParameter (marked on the basis error) when the basis cannot be
//     built or the spline does not reach the requested accuracy.
func (p SphericalExpansionParameters) radialIntegral(kernel density) (basis.RadialIntegral, error) {
	gto, err := basis.NewGtoRadialBasis(p.MaxRadial, p.Cutoff)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "radial_basis"), ErrInvalidParameter)
	}

	var exact basis.RadialIntegral
	switch kernel {
	case coulombPotential:
		exact, err = basis.NewLodeIntegral(gto, p.MaxAngular, p.AtomicGaussianWidth)
	default:
		exact, err = basis.NewGaussianIntegral(gto, p.MaxAngular, p.AtomicGaussianWidth)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "radial_basis"), ErrInvalidParameter)
	}

	g := p.RadialBasis.Gto
	if g.SplinedRadialIntegral != nil && !*g.SplinedRadialIntegral {
		return exact, nil
	}
	accuracy := g.SplineAccuracy
	if accuracy == 0 {
		accuracy = basis.DefaultSplineAccuracy
	}
	splined, err := basis.NewSplined(exact, p.Cutoff, accuracy)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "radial_basis.Gto.spline_accuracy"), ErrInvalidParameter)
	}

	return splined, nil
}

func countSet(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}

	return n
}
