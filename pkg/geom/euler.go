package geom

import "math"

// Euler is an orientation as intrinsic X, then Y, then Z rotations in
// radians (R = Rx·Ry·Rz). Each component is interpolated independently by
// the motion package, which is an approximation of true rotation blending.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Matrix returns the rotation matrix Rx(X)·Ry(Y)·Rz(Z).
func (e Euler) Matrix() Mat3 {
	return Mul(Mul(RotX(e.X), RotY(e.Y)), RotZ(e.Z))
}

// Lerp interpolates each angle independently; t is not clamped.
func (e Euler) Lerp(to Euler, t float64) Euler {
	return Euler{
		Lerp(e.X, to.X, t),
		Lerp(e.Y, to.Y, t),
		Lerp(e.Z, to.Z, t),
	}
}

// EulerFromMatrix decomposes a pure rotation matrix into XYZ Euler angles.
// Near gimbal lock (|Y| = 90°) the Z angle is folded into X.
func EulerFromMatrix(m Mat3) Euler {
	m11, m12, m13 := m[0], m[1], m[2]
	m22, m23 := m[4], m[5]
	m32, m33 := m[7], m[8]

	var e Euler
	e.Y = math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		e.X = math.Atan2(m32, m22)
		e.Z = 0
	}
	return e
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
