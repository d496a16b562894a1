// SPDX-License-Identifier: MIT

// Package tensor is the sparse, keyed container in which descriptors are
// returned.
//
// A Map holds a set of keys and one Block per key. Blocks are kept in an arena
// slice addressed by integer id; the key set indexes into it, and blocks never
// reference each other.
//
// A Block stores a dense Array of values shaped
//
//	(samples, components..., properties)
//
// together with the label sets describing every axis, and zero or more named
// gradients. A Gradient array is shaped
//
//	(gradient samples, gradient components..., block components..., properties)
//
// and its first sample dimension is always "sample": the row of the parent
// block it differentiates.
//
// Arrays use flat row-major storage, so the values of one sample are a
// contiguous slice (see Array.Row). Calculators fill them in place.
//
// Every invariant is checked when a Block or Map is created; afterwards the
// label sets are immutable and only the numeric buffers may be written.
package tensor
