// seehuhn.de/go/maprender - top-down map images from place files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package orient extracts rotation angles from 3×3 orientation matrices.
//
// Place files store orientations as rotation matrices.  A top-down map only
// needs the rotation about the vertical (Y) axis, which is obtained by
// converting the matrix to a quaternion and then to a scaled axis-angle
// vector.
package orient

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrix3 is a 3×3 rotation matrix, stored in row-major order.
//
// If M = [r00 r01 r02 r10 r11 r12 r20 r21 r22] is a [Matrix3], the columns
// (r00, r10, r20), (r01, r11, r21) and (r02, r12, r22) are the images of the
// X, Y and Z axes.  For a valid rotation the columns are unit length,
// mutually orthogonal and right-handed.
type Matrix3 [9]float64

// Identity is the matrix which does not rotate.
var Identity = Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}

// RotationY returns the matrix which rotates by theta radians about the
// vertical axis.
func RotationY(theta float64) Matrix3 {
	s, c := math.Sincos(theta)
	return Matrix3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// At returns the element in row i and column j.
func (m Matrix3) At(i, j int) float64 {
	return m[3*i+j]
}

// Col returns column j of the matrix.
func (m Matrix3) Col(j int) r3.Vec {
	return r3.Vec{X: m[j], Y: m[3+j], Z: m[6+j]}
}

// Mul returns the matrix product m·b.
func (m Matrix3) Mul(b Matrix3) Matrix3 {
	var res Matrix3
	for i := range 3 {
		for j := range 3 {
			var sum float64
			for k := range 3 {
				sum += m[3*i+k] * b[3*k+j]
			}
			res[3*i+j] = sum
		}
	}
	return res
}

// IsOrthonormal reports whether the columns of m are unit vectors which are
// mutually orthogonal and form a right-handed system, up to the tolerance
// tol.
func (m Matrix3) IsOrthonormal(tol float64) bool {
	x, y, z := m.Col(0), m.Col(1), m.Col(2)
	for _, v := range []r3.Vec{x, y, z} {
		if math.Abs(r3.Norm(v)-1) > tol {
			return false
		}
	}
	if math.Abs(r3.Dot(x, y)) > tol || math.Abs(r3.Dot(y, z)) > tol || math.Abs(r3.Dot(x, z)) > tol {
		return false
	}
	return r3.Dot(r3.Cross(x, y), z) > 0
}

// Branch identifies which diagonal combination was used to extract a
// quaternion from a rotation matrix.
type Branch int

// These are the four extraction branches.  The branch with the largest
// trace-derived quantity is chosen, so that the divisor 2·sqrt(t) stays
// away from zero.
const (
	BranchTrace Branch = iota // 1+r00+r11+r22 is largest
	BranchX                   // 1+r00-r11-r22 is largest
	BranchY                   // 1-r00+r11-r22 is largest
	BranchZ                   // 1-r00-r11+r22 is largest
)

func (b Branch) String() string {
	switch b {
	case BranchTrace:
		return "trace"
	case BranchX:
		return "x"
	case BranchY:
		return "y"
	case BranchZ:
		return "z"
	default:
		return fmt.Sprintf("Branch(%d)", int(b))
	}
}

// Quaternion converts the rotation matrix m to a unit quaternion.  The
// returned branch tells which of the four extraction formulas was used.
func Quaternion(m Matrix3) (quat.Number, Branch) {
	r00, r01, r02 := m[0], m[1], m[2]
	r10, r11, r12 := m[3], m[4], m[5]
	r20, r21, r22 := m[6], m[7], m[8]

	tr := 1 + r00 + r11 + r22
	ti := 1 + r00 - r11 - r22
	tj := 1 - r00 + r11 - r22
	tk := 1 - r00 - r11 + r22

	switch {
	case ti < tr && tj < tr && tk < tr:
		s := 2 * math.Sqrt(tr)
		return quat.Number{
			Real: s / 4,
			Imag: (r21 - r12) / s,
			Jmag: (r02 - r20) / s,
			Kmag: (r10 - r01) / s,
		}, BranchTrace
	case tj < ti && tk < ti:
		s := 2 * math.Sqrt(ti)
		return quat.Number{
			Real: (r21 - r12) / s,
			Imag: s / 4,
			Jmag: (r10 + r01) / s,
			Kmag: (r02 + r20) / s,
		}, BranchX
	case tk < tj:
		s := 2 * math.Sqrt(tj)
		return quat.Number{
			Real: (r02 - r20) / s,
			Imag: (r10 + r01) / s,
			Jmag: s / 4,
			Kmag: (r21 + r12) / s,
		}, BranchY
	default:
		s := 2 * math.Sqrt(tk)
		return quat.Number{
			Real: (r10 - r01) / s,
			Imag: (r02 + r20) / s,
			Jmag: (r21 + r12) / s,
			Kmag: s / 4,
		}, BranchZ
	}
}

// AxisAngle converts the rotation matrix m to a scaled axis-angle vector:
// the direction of the result is the rotation axis and its length is the
// rotation angle in radians.
//
// If m does not rotate, the axis is undefined and the zero vector is
// returned.
func AxisAngle(m Matrix3) r3.Vec {
	q, _ := Quaternion(m)
	return quatToAxisAngle(q)
}

func quatToAxisAngle(q quat.Number) r3.Vec {
	v := r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	n := r3.Norm(v)
	if n < zeroRotationThreshold {
		return r3.Vec{}
	}

	var a float64
	if q.Real < 0 {
		a = -2 * math.Atan2(n, -q.Real) / n
	} else {
		a = 2 * math.Atan2(n, q.Real) / n
	}
	return r3.Scale(a, v)
}

// Yaw returns the rotation angle about the vertical axis, in radians.
// This is the Y component of [AxisAngle]; rotations about the horizontal
// axes are ignored.
func Yaw(m Matrix3) float64 {
	return AxisAngle(m).Y
}

// zeroRotationThreshold is the length of the quaternion's vector part below
// which a rotation is treated as the identity.
const zeroRotationThreshold = 1e-12
