// SPDX-License-Identifier: MIT

// Package systems - RNG utilities for perturbed structures.
//
// Goals:
//   - Determinism: same seed ⇒ identical structures across platforms.
//   - Encapsulation: a single RNG factory; no time-based sources hidden anywhere.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.

package systems

import (
	"math"
	"math/rand"
)

// defaultRNGSeed is used when callers pass seed == 0.
const defaultRNGSeed int64 = 1

// NewRNG returns a deterministic *rand.Rand.
// Policy: seed == 0 ⇒ defaultRNGSeed; otherwise the seed is used verbatim.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(seed))
}

// Rattle returns a copy of sys with every coordinate moved by a uniform
// random amount in [-amplitude, amplitude).
func Rattle(sys System, amplitude float64, rng *rand.Rand) *SimpleSystem {
	if rng == nil {
		rng = NewRNG(0)
	}
	out := Clone(sys)
	for i := range out.positions {
		for a := 0; a < 3; a++ {
			out.positions[i][a] += amplitude * (2*rng.Float64() - 1)
		}
	}

	return out
}

// RandomRotation draws a uniformly distributed rotation matrix from a random
// unit quaternion (Shoemake's method).
func RandomRotation(rng *rand.Rand) Matrix3 {
	if rng == nil {
		rng = NewRNG(0)
	}
	u1, u2, u3 := rng.Float64(), 2*math.Pi*rng.Float64(), 2*math.Pi*rng.Float64()
	a, b := math.Sqrt(1-u1), math.Sqrt(u1)
	w, x, y, z := a*math.Sin(u2), a*math.Cos(u2), b*math.Sin(u3), b*math.Cos(u3)

	return Matrix3{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}
