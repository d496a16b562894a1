// SPDX-License-Identifier: MIT

package systems

import "math"

// Vector3D is a Cartesian vector.
type Vector3D [3]float64

// Add returns v + o.
func (v Vector3D) Add(o Vector3D) Vector3D { return Vector3D{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v - o.
func (v Vector3D) Sub(o Vector3D) Vector3D { return Vector3D{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns s·v.
func (v Vector3D) Scale(s float64) Vector3D { return Vector3D{s * v[0], s * v[1], s * v[2]} }

// Dot is the scalar product.
func (v Vector3D) Dot(o Vector3D) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// Cross is the vector product.
func (v Vector3D) Cross(o Vector3D) Vector3D {
	return Vector3D{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm2 is the squared length.
func (v Vector3D) Norm2() float64 { return v.Dot(v) }

// Norm is the length.
func (v Vector3D) Norm() float64 { return math.Sqrt(v.Norm2()) }

// Matrix3 is a 3×3 matrix; for cells the rows are the lattice vectors.
type Matrix3 [3][3]float64

// MulVec returns v·M (v as a row vector), the convention for cells:
// fractional coordinates times the cell give Cartesian ones.
func (m Matrix3) MulVec(v Vector3D) Vector3D {
	var out Vector3D
	for j := 0; j < 3; j++ {
		out[j] = v[0]*m[0][j] + v[1]*m[1][j] + v[2]*m[2][j]
	}

	return out
}

// Apply returns M·v (v as a column vector), the convention for rotations.
func (m Matrix3) Apply(v Vector3D) Vector3D {
	return Vector3D{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}
