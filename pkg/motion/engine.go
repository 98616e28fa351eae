package motion

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/geom"
)

// Component selects which part of a pose a transition drives.
type Component uint8

const (
	// ComponentPosition interpolates Pose.Position.
	ComponentPosition Component = iota
	// ComponentRotation interpolates Pose.Rotation.
	ComponentRotation
	// ComponentTick changes nothing and calls the render callback on every
	// update while it runs.
	ComponentTick
)

func (c Component) String() string {
	switch c {
	case ComponentPosition:
		return "position"
	case ComponentRotation:
		return "rotation"
	case ComponentTick:
		return "tick"
	}
	return "unknown"
}

// Transition is one in-flight interpolation. For position and rotation
// transitions Item is the store index; tick transitions use -1.
type Transition struct {
	Item      int
	Component Component
	Elapsed   time.Duration
	Duration  time.Duration
	Ease      Easing

	fromPos, toPos geom.Vec3
	fromRot, toRot geom.Euler
}

// Progress returns linear progress in [0, 1]. A zero duration is complete
// immediately.
func (t *Transition) Progress() float64 {
	if t.Duration <= 0 || t.Elapsed >= t.Duration {
		return 1
	}
	return float64(t.Elapsed) / float64(t.Duration)
}

// Done reports whether the transition has reached its target.
func (t *Transition) Done() bool { return t.Progress() >= 1 }

// apply writes the transition's current value into the store. On
// completion the target value is written verbatim.
func (t *Transition) apply(s *Store) {
	if t.Component == ComponentTick {
		return
	}
	p := s.Pose(t.Item)
	k := t.Progress()
	switch t.Component {
	case ComponentPosition:
		if k >= 1 {
			p.Position = t.toPos
		} else {
			p.Position = t.fromPos.Lerp(t.toPos, t.Ease(k))
		}
	case ComponentRotation:
		if k >= 1 {
			p.Rotation = t.toRot
		} else {
			p.Rotation = t.fromRot.Lerp(t.toRot, t.Ease(k))
		}
	}
	s.Set(t.Item, p)
}

// Option configures an [Engine].
type Option func(*Engine)

// WithEasing sets the easing used by subsequent transforms.
// The default is [ExponentialInOut].
func WithEasing(e Easing) Option {
	return func(eng *Engine) {
		if e != nil {
			eng.ease = e
		}
	}
}

// WithRender sets the callback invoked by tick transitions.
func WithRender(fn func()) Option {
	return func(eng *Engine) { eng.render = fn }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(eng *Engine) {
		if l != nil {
			eng.logger = l
		}
	}
}

// Engine drives a [Store] towards target poses.
type Engine struct {
	store  *Store
	active []Transition
	ease   Easing
	render func()
	logger *log.Logger
}

// NewEngine creates an engine that animates store.
func NewEngine(store *Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		ease:   ExponentialInOut,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the engine mutates.
func (e *Engine) Store() *Store { return e.store }

// Reset swaps in a new store and drops all in-flight transitions.
func (e *Engine) Reset(store *Store) {
	e.store = store
	e.Cancel()
}

// SetRender replaces the tick render callback.
func (e *Engine) SetRender(fn func()) { e.render = fn }

// Active returns the number of in-flight transitions, tick included.
func (e *Engine) Active() int { return len(e.active) }

// Busy reports whether any transition is in flight.
func (e *Engine) Busy() bool { return len(e.active) > 0 }

// Transitions returns a copy of the in-flight transitions.
func (e *Engine) Transitions() []Transition {
	return append([]Transition(nil), e.active...)
}

// Cancel drops every in-flight transition. Poses stay where they are.
func (e *Engine) Cancel() {
	clear(e.active)
	e.active = e.active[:0]
}

// Transform cancels everything in flight and animates every item from its
// current pose to its paired target over d. Items past the end of targets
// are paired with the last target. An empty target set is a no-op and a
// negative d is treated as zero.
func (e *Engine) Transform(targets arrange.TargetSet, d time.Duration) {
	if len(targets) == 0 {
		return
	}
	d = max(d, 0)
	e.Cancel()

	n := e.store.Len()
	if cap(e.active) < 2*n+1 {
		e.active = make([]Transition, 0, 2*n+1)
	}
	for i := range n {
		cur := e.store.Pose(i)
		to := targets.At(i)
		e.active = append(e.active,
			Transition{
				Item: i, Component: ComponentPosition, Duration: d, Ease: e.ease,
				fromPos: cur.Position, toPos: to.Position,
			},
			Transition{
				Item: i, Component: ComponentRotation, Duration: d, Ease: e.ease,
				fromRot: cur.Rotation, toRot: to.Rotation,
			},
		)
	}
	e.active = append(e.active, Transition{Item: -1, Component: ComponentTick, Duration: d, Ease: Linear})

	e.logger.Debug("transform scheduled", "items", n, "targets", len(targets), "duration", d)
}

// Advance moves every in-flight transition forward by dt, writes the new
// values into the store, drops completed transitions, and then invokes the
// render callback once for each tick transition that ran. It reports
// whether anything is still in flight.
func (e *Engine) Advance(dt time.Duration) bool {
	if len(e.active) == 0 {
		return false
	}
	dt = max(dt, 0)

	ticks := 0
	kept := e.active[:0]
	for _, t := range e.active {
		t.Elapsed += dt
		t.apply(e.store)
		if t.Component == ComponentTick {
			ticks++
		}
		if !t.Done() {
			kept = append(kept, t)
		}
	}
	clear(e.active[len(kept):])
	e.active = kept

	if e.render != nil {
		for range ticks {
			e.render()
		}
	}
	if len(e.active) == 0 {
		e.logger.Debug("transform settled")
	}
	return len(e.active) > 0
}
