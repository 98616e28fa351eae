package geom

import "math"

// Forward is the tile's facing axis in its local frame.
var Forward = Vec3{0, 0, 1}

// LookAt returns the orientation that turns Forward from 'from' towards 'to'
// with no roll. Yaw is taken around +Y from the horizontal part of the
// direction, pitch from its vertical part, so straight up or down is well
// defined. Coincident points yield the identity orientation.
func LookAt(from, to Vec3) Euler {
	d := to.Sub(from)
	if d.Len() < 1e-12 {
		return Euler{}
	}
	yaw := math.Atan2(d.X, d.Z)
	pitch := math.Atan2(-d.Y, math.Hypot(d.X, d.Z))
	return EulerFromMatrix(Mul(RotY(yaw), RotX(pitch)))
}

// FaceAway orients a tile at p so it faces away from the point c, keeping
// its own radial direction.
func FaceAway(p, c Vec3) Euler {
	return LookAt(p, p.Add(p.Sub(c)))
}
