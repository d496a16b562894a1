// SPDX-License-Identifier: MIT

// Package basis evaluates the functions a density is expanded on.
//
// Every evaluation is a pure function of a distance or a direction and of
// parameters fixed at construction, so a single value can be shared by every
// worker of a calculation.
//
//   - CutoffFunction: Step or ShiftedCosine smoothing of the cutoff sphere.
//   - RadialScaling: optional distance-dependent weight of each neighbor.
//   - SphericalHarmonics: real, orthonormal Y_l^m and Cartesian gradients.
//   - ModifiedSphericalBessel: i_l(x)·exp(-x) and its derivative.
//   - GtoRadialBasis: orthonormalised Gaussian-type orbitals.
//   - RadialIntegral: the radial part I_nl(r) of the projection of one
//     neighbor's density on the basis, for a Gaussian density (GaussianIntegral)
//     or the potential of a smeared charge (LodeIntegral); Splined wraps either
//     in cubic Hermite tables.
//
// Tables are laid out l-major: entry (l, n) of a RadialIntegral output is at
// l*maxRadial + n, and harmonic (l, m) is at l*l + l + m (see LM).
package basis
