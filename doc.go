// Package lvatoms turns atomic structures into numerical descriptors for
// machine learning: fixed-size, symmetry-aware features of every atomic
// environment, with their derivatives.
//
// 🚀 What is lvatoms?
//
//	A pure Go toolkit that brings together:
//		• Systems: atoms, species, periodic cells and cell-list neighbor search
//		• Basis functions: GTO radial basis, spherical harmonics, splines
//		• Representations: SOAP spherical expansion, SOAP power spectrum,
//		  LODE spherical expansion, sorted distances
//		• Gradients: with respect to atomic positions and to cell strain
//		• Selection: compute only chosen keys, samples or properties
//		• Sparse labeled tensors: blocks indexed by integer label sets
//
// ✨ Why choose lvatoms?
//
//   - Deterministic: identical results for any number of worker threads
//   - Validated input: hyperparameters are checked field by field, from
//     JSON, YAML or TOML
//   - Observable: zap logging and Prometheus metrics, both opt-in
//   - Tested: every gradient is checked against finite differences
//
// Under the hood, everything is organized in small subpackages:
//
//	labels/     ordered sets of unique integer tuples with named dimensions
//	tensor/     dense arrays, labeled blocks with gradients, block maps
//	systems/    atomic systems, unit cells, neighbor lists, test fixtures
//	basis/      radial integrals, cutoff functions, harmonics, splines
//	dispatch/   ordered parallel map with deterministic merge
//	calculator/ the calculator registry, selection engine and kinds
//
// Quick example:
//
//	calc, _ := calculator.New("soap_power_spectrum", parameters)
//	out, _ := calc.Compute([]systems.System{water}, calculator.Options{
//		Gradients: []string{calculator.GradientPositions},
//	})
//
// See examples/ for a complete program.
//
//	go get github.com/katalvlaran/lvatoms
package lvatoms
