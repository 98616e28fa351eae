// Package pkg provides the core libraries for tilewall.
//
// # Overview
//
// Tilewall gives every dataset row a tile and animates the tiles between
// four target arrangements. The pkg directory is organized into three areas:
//
//  1. Geometry and layout: [geom] holds vectors, rotations and look-at;
//     [arrange] builds the table, sphere, helix and grid target sets.
//  2. Animation: [motion] tweens per-tile poses, [frame] drives the engine
//     from a clock and [scene] ties them to one dataset.
//  3. Infrastructure: [dataset] loads rows, [render] draws snapshots,
//     [cache] stores fetched data and target sets, [httputil] fetches with
//     retries, [observability] exposes hooks and [errors] classifies
//     failures.
//
// # Architecture
//
// The typical data flow:
//
//	CSV file, URL or sample rows
//	         ↓
//	    [dataset] package (records)
//	         ↓
//	    [arrange] package (target poses per arrangement)
//	         ↓
//	    [motion] + [frame] packages (tweened poses per frame)
//	         ↓
//	    [render] package (JSON, SVG, WebP or terminal cells)
//
// # Quick Start
//
//	sc := scene.New(scene.WithDuration(2 * time.Second))
//	sc.Load(len(records))
//	sc.Arrange(arrange.Sphere)
//
//	for now := range ticker.C() {
//	    if !sc.Tick(now) {
//	        break
//	    }
//	}
//	svg := render.RenderSVG(sc.Snapshot(), render.WithRecords(records))
//
// Only [scene.Snapshot] values leave the frame loop goroutine; other
// goroutines send work to it with [frame.Driver.Do] or [frame.Driver.Post].
package pkg
