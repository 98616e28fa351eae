// Package motion owns the live tile poses and animates them towards target
// poses.
//
// A [Store] holds one mutable [arrange.Pose] per item. An [Engine] keeps an
// explicit collection of in-flight [Transition] records: one for each item's
// position, one for each item's rotation, and one render tick per transform.
// [Engine.Transform] clears the collection before scheduling, so only one
// arrangement change is ever in flight; tiles that were mid-way simply start
// the new transition from wherever they are.
//
// Nothing in this package reads a clock. Time only moves when the caller
// invokes [Engine.Advance], which is what the frame package does once per
// frame. All methods must be called from a single goroutine.
package motion
