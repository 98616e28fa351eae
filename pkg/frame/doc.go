// Package frame runs the per-frame loop that advances a [motion.Engine].
//
// A [Driver] owns the engine for the lifetime of the loop. Each call to
// [Driver.Tick] computes the time since the previous tick, advances every
// in-flight transition by that amount, and then invokes the render callback
// once. The first tick advances by zero.
//
// Hosts decide where ticks come from. A terminal UI calls Tick from its own
// update loop; headless hosts hand a [Source] to [Driver.Run], which blocks
// until the context is cancelled:
//
//	src := frame.NewTicker(60)
//	defer src.Stop()
//	err := driver.Run(ctx, src)
//
// Other goroutines never touch the engine directly. They submit work with
// [Driver.Post] (fire and forget) or [Driver.Do] (wait for completion), and
// the loop executes it between ticks.
package frame
