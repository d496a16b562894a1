// SPDX-License-Identifier: MIT

// Package systems describes the atomic structures descriptors are computed on.
//
// A System is a read-only view of one structure: species, Cartesian positions
// and an optional periodic UnitCell. Its only capability beyond data access is
// the neighbor query, Neighbors(cutoff), returning an immutable NeighborList.
//
// The neighbor list is built with a cell-list (binning) algorithm. Every
// unordered pair within the cutoff is reported once, with the displacement
// vector from the first to the second atom, including the periodic image
// shift. An atom can be paired with its own periodic images, never with
// itself at zero shift. Pairs are sorted by (first, second, shift), so the
// list is identical from run to run.
//
// SimpleSystem is the in-memory implementation. It caches the neighbor list
// for the last cutoff it was asked for. Fixture returns a few small structures
// used throughout the tests and examples.
package systems
