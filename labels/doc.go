// SPDX-License-Identifier: MIT

// Package labels implements the metadata carried next to every descriptor array:
// ordered, duplicate-free sets of integer tuples with named dimensions.
//
// A Labels value describes one axis of a block (its samples, one of its
// components, its properties) or the keys of a whole tensor. Entries keep the
// insertion order given to the Builder: that order defines the row/column order
// of the array it describes and is therefore part of the output contract.
//
// Labels are immutable once built. Every transformation (Select, Project)
// returns indices or a new set, never mutating the receiver, so a set published
// in a tensor can be shared freely between goroutines.
//
// Lookups by value (Position, Contains) are O(1) through a hash index built once
// in Builder.Finish.
package labels
