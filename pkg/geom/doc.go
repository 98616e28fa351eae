// Package geom provides the small amount of 3D math the layout and motion
// packages need: a value-type vector, a row-major 3×3 rotation matrix, XYZ
// Euler angles, and a look-at orientation derived from a direction vector.
//
// All types are plain values; nothing here allocates.
package geom
