// SPDX-License-Identifier: MIT

// Package calculator turns atomic systems into sparse descriptor tensors.
//
// A Calculator is created from a kind and a JSON hyperparameter document:
//
//	calc, err := calculator.New("soap_power_spectrum", `{
//	    "cutoff": 3.5, "max_radial": 6, "max_angular": 6,
//	    "atomic_gaussian_width": 0.3, "center_atom_weight": 1.0,
//	    "radial_basis": {"Gto": {}},
//	    "cutoff_function": {"ShiftedCosine": {"width": 0.5}}
//	}`)
//
// Kinds:
//   - "dummy_calculator": trivial features used to exercise the selection
//     and gradient machinery.
//   - "sorted_distances": sorted neighbor distances of every center.
//   - "spherical_expansion": SOAP density coefficients, keyed by
//     (spherical_harmonics_l, species_center, species_neighbor).
//   - "lode_spherical_expansion": the same expansion of the smeared
//     Coulomb potential.
//   - "soap_power_spectrum": rotation-invariant contraction of the expansion,
//     keyed by (species_center, species_neighbor_1, species_neighbor_2).
//
// Compute accepts a list of systems and Options. Options select the
// gradients ("positions", "cell") and restrict samples and properties with a
// Selection: All, Subset or Predefined. Restricting a computation never
// changes the values of the entries it keeps.
//
// Work is split in units of (system, range of centers). Each unit fills a
// private buffer; buffers are folded into the output in unit order, so the
// result does not depend on the number of threads.
package calculator
