// SPDX-License-Identifier: MIT

package systems

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// singularTol is the smallest |det| accepted for a periodic cell.
const singularTol = 1e-9

// UnitCell is the periodic cell of a system. The zero matrix describes an
// infinite (non-periodic) cell.
type UnitCell struct {
	matrix  Matrix3
	inverse Matrix3
	volume  float64
}

// NewUnitCell builds a cell from its lattice vectors (rows of m).
// MAIN DESCRIPTION:
//   - Validate and invert the cell matrix once, so fractional coordinates are
//     cheap during neighbor searches.
//
// Implementation:
//   - Stage 1: reject non-finite entries.
//   - Stage 2: the all-zero matrix is the infinite cell.
//   - Stage 3: determinant and inverse through gonum mat.
//
// Errors:
//   - ErrInvalidCell for NaN/Inf entries or |det| < 1e-9.
func NewUnitCell(m Matrix3) (UnitCell, error) {
	zero := true
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := m[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return UnitCell{}, errors.Wrapf(ErrInvalidCell, "entry (%d,%d) is %v", i, j, v)
			}
			if v != 0 {
				zero = false
			}
		}
	}
	if zero {
		return UnitCell{}, nil
	}

	dense := mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
	det := mat.Det(dense)
	if math.Abs(det) < singularTol {
		return UnitCell{}, errors.Wrapf(ErrInvalidCell, "determinant %g is too small", det)
	}
	var inv mat.Dense
	if err := inv.Inverse(dense); err != nil {
		return UnitCell{}, errors.Wrap(ErrInvalidCell, err.Error())
	}

	cell := UnitCell{matrix: m, volume: math.Abs(det)}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cell.inverse[i][j] = inv.At(i, j)
		}
	}

	return cell, nil
}

// Infinite returns the non-periodic cell.
func Infinite() UnitCell { return UnitCell{} }

// Cubic returns a cubic cell of side a. It panics for a non-positive side.
func Cubic(a float64) UnitCell { return Orthorhombic(a, a, a) }

// Orthorhombic returns a rectangular cell. It panics for non-positive sides.
func Orthorhombic(a, b, c float64) UnitCell {
	cell, err := NewUnitCell(Matrix3{{a, 0, 0}, {0, b, 0}, {0, 0, c}})
	if err != nil || cell.IsInfinite() || a <= 0 || b <= 0 || c <= 0 {
		panic(errors.Wrapf(ErrInvalidCell, "orthorhombic cell %v %v %v", a, b, c))
	}

	return cell
}

// IsInfinite reports whether the cell is non-periodic.
func (c UnitCell) IsInfinite() bool { return c.volume == 0 }

// Matrix returns the lattice vectors as rows.
func (c UnitCell) Matrix() Matrix3 { return c.matrix }

// Volume is |det(matrix)|, 0 for the infinite cell.
func (c UnitCell) Volume() float64 { return c.volume }

// Fractional converts Cartesian coordinates to fractional ones.
func (c UnitCell) Fractional(v Vector3D) Vector3D { return c.inverse.MulVec(v) }

// Cartesian converts fractional coordinates to Cartesian ones.
func (c UnitCell) Cartesian(f Vector3D) Vector3D { return c.matrix.MulVec(f) }

// Shift is the Cartesian translation of an integer image shift.
func (c UnitCell) Shift(s [3]int32) Vector3D {
	return c.matrix.MulVec(Vector3D{float64(s[0]), float64(s[1]), float64(s[2])})
}

// FaceDistances returns the distances between opposite faces, i.e. the
// thickness of the cell along each fractional axis.
func (c UnitCell) FaceDistances() Vector3D {
	a, b, cc := Vector3D(c.matrix[0]), Vector3D(c.matrix[1]), Vector3D(c.matrix[2])

	return Vector3D{
		c.volume / b.Cross(cc).Norm(),
		c.volume / cc.Cross(a).Norm(),
		c.volume / a.Cross(b).Norm(),
	}
}
