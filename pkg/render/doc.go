// Package render draws pose snapshots.
//
// Every renderer takes a [scene.Snapshot] and views it through a perspective
// [Camera] placed like the original wall: 40° vertical field of view, 3000
// units in front of the origin, clipping at 1 and 10000.
//
// Sinks:
//
//   - [RenderJSON]: the snapshot with projected screen positions
//   - [RenderSVG]: depth-sorted tile quads as SVG polygons
//   - [RenderImage]: anti-aliased raster, supersampled then downsampled
//   - [EncodeWebP]: encodes a raster frame as lossless WebP
//   - [RenderASCII]: a character grid for terminals
//
// Tiles are coloured by the net-worth band of the matching dataset record
// when records are supplied with [WithRecords]; otherwise a neutral colour
// is used.
package render
