package frame

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewall/pkg/motion"
	"github.com/matzehuels/tilewall/pkg/observability"
)

// DefaultQueue is the command buffer size used when none is configured.
const DefaultQueue = 64

// Option configures a [Driver].
type Option func(*Driver)

// WithRender sets the callback invoked once after every tick.
func WithRender(fn func()) Option {
	return func(d *Driver) { d.render = fn }
}

// WithSettled sets a callback invoked on the tick where the engine goes
// from busy to idle.
func WithSettled(fn func()) Option {
	return func(d *Driver) { d.settled = fn }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithQueue sets the command buffer size.
func WithQueue(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.cmds = make(chan func(), n)
		}
	}
}

// Driver ticks a [motion.Engine] and renders once per tick.
type Driver struct {
	engine  *motion.Engine
	render  func()
	settled func()
	cmds    chan func()
	logger  *log.Logger

	last   time.Time
	frames uint64
	busy   bool
}

// New creates a driver for engine.
func New(engine *motion.Engine, opts ...Option) *Driver {
	d := &Driver{
		engine: engine,
		cmds:   make(chan func(), DefaultQueue),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Engine returns the driven engine.
func (d *Driver) Engine() *motion.Engine { return d.engine }

// Frames returns the number of ticks processed so far.
func (d *Driver) Frames() uint64 { return d.frames }

// Tick runs any queued commands, advances the engine by the time elapsed
// since the previous tick and then renders. It reports whether transitions
// are still in flight.
func (d *Driver) Tick(now time.Time) bool {
	d.Drain()

	var dt time.Duration
	if !d.last.IsZero() {
		dt = max(now.Sub(d.last), 0)
	}
	d.last = now
	d.frames++

	start := time.Now()
	busy := d.engine.Advance(dt)
	if d.render != nil {
		d.render()
	}
	observability.Frame().OnFrame(dt, time.Since(start), d.engine.Active())

	if d.busy && !busy {
		d.logger.Debug("frame loop idle", "frame", d.frames)
		if d.settled != nil {
			d.settled()
		}
	}
	d.busy = busy
	return busy
}

// Post queues fn to run on the loop goroutine before the next tick. It
// blocks while the queue is full, so it must not be called from the loop
// goroutine itself.
func (d *Driver) Post(fn func()) {
	d.cmds <- fn
}

// Do queues fn and waits until the loop has run it or ctx is done.
func (d *Driver) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case d.cmds <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain runs every queued command without blocking and returns how many
// ran. Hosts that call [Driver.Tick] themselves get this for free.
func (d *Driver) Drain() int {
	n := 0
	for {
		select {
		case fn := <-d.cmds:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run ticks the driver from src until ctx is cancelled or src is closed.
// Posted commands run as soon as they arrive, also between ticks.
func (d *Driver) Run(ctx context.Context, src Source) error {
	d.logger.Debug("frame loop started")
	defer d.logger.Debug("frame loop stopped", "frames", d.frames)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-d.cmds:
			fn()
		case now, ok := <-src.C():
			if !ok {
				return nil
			}
			d.Tick(now)
		}
	}
}
