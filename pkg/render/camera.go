package render

import (
	"math"

	"github.com/matzehuels/tilewall/pkg/geom"
)

// Camera defaults.
const (
	DefaultFOV      = 40.0
	DefaultDistance = 3000.0
	DefaultNear     = 1.0
	DefaultFar      = 10000.0
)

// Camera is a perspective camera orbiting the origin. With zero yaw and
// pitch it sits on +Z and looks down -Z, with +Y up.
type Camera struct {
	FOV      float64 // vertical, degrees
	Distance float64
	Near     float64
	Far      float64
	Yaw      float64 // radians, around Y
	Pitch    float64 // radians, around X

	Width, Height float64
}

// NewCamera returns the default camera for a viewport of w×h.
func NewCamera(w, h float64) Camera {
	return Camera{
		FOV:      DefaultFOV,
		Distance: DefaultDistance,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Width:    w,
		Height:   h,
	}
}

// Orbit returns a copy rotated by the given yaw and pitch deltas. Pitch is
// clamped short of the poles.
func (c Camera) Orbit(dYaw, dPitch float64) Camera {
	const limit = math.Pi/2 - 0.01
	c.Yaw += dYaw
	c.Pitch = math.Max(-limit, math.Min(limit, c.Pitch+dPitch))
	return c
}

// Zoom returns a copy moved closer by factor (less than 1 zooms in).
func (c Camera) Zoom(factor float64) Camera {
	if factor > 0 {
		c.Distance = math.Max(c.Near*2, c.Distance*factor)
	}
	return c
}

func (c Camera) rotation() geom.Mat3 {
	return geom.Mul(geom.RotY(c.Yaw), geom.RotX(c.Pitch))
}

// Position returns the camera position in world space.
func (c Camera) Position() geom.Vec3 {
	return c.rotation().MulVec3(geom.V(0, 0, c.Distance))
}

// View converts a world point to camera space, where the camera looks down
// -Z.
func (c Camera) View(p geom.Vec3) geom.Vec3 {
	return c.rotation().Transpose().MulVec3(p.Sub(c.Position()))
}

// focal returns the focal length in pixels.
func (c Camera) focal() float64 {
	return (c.Height / 2) / math.Tan(c.FOV*math.Pi/360)
}

// Project maps a world point to screen coordinates (origin top-left, y
// down) and its distance in front of the camera. ok is false when the point
// lies outside the near and far planes.
func (c Camera) Project(p geom.Vec3) (x, y, depth float64, ok bool) {
	v := c.View(p)
	depth = -v.Z
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	f := c.focal() / depth
	return c.Width/2 + v.X*f, c.Height/2 - v.Y*f, depth, true
}
