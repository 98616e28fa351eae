// Package arrange computes target poses for the four tile arrangements.
//
// Every generator is a pure function of the item count n: it has no state,
// does not look at where tiles currently are, and always returns exactly n
// poses in item order, so TargetSet[i] is item i's destination.
//
// # Arrangements
//
//   - [Table]: a 20-column plane centred on the origin, facing the camera
//   - [Sphere]: a quasi-uniform spiral over a sphere of radius 1000, tiles facing outward
//   - [Helix]: two interleaved strands descending around the Y axis, tiles facing outward
//   - [Grid]: a 5×4×10 lattice that wraps once it is full
//
// Capacity overflow is never an error. Table grows extra rows; Grid wraps so
// that several items share a cell; Sphere and Helix scale with n directly.
//
// # Usage
//
//	targets := arrange.Build(len(records))
//	engine.Transform(targets.Get(arrange.Sphere), 1500*time.Millisecond)
package arrange
