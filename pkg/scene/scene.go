// Package scene ties the layout generators, the pose store, the transition
// engine and the frame driver into one object a host can drive.
//
// A [Scene] is created empty. [Scene.Load] sizes it for a dataset: it
// rebuilds the four target sets, scatters a fresh store and starts the
// transition to the table arrangement. [Scene.Arrange] is the command
// surface for switching arrangements.
//
// Like the packages it wraps, a Scene is not safe for concurrent use. Hosts
// with several goroutines route calls through [frame.Driver.Post] or
// [frame.Driver.Do] and hand out [Snapshot] copies.
package scene

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/errors"
	"github.com/matzehuels/tilewall/pkg/frame"
	"github.com/matzehuels/tilewall/pkg/motion"
	"github.com/matzehuels/tilewall/pkg/observability"
)

// DefaultDuration is how long an arrangement change takes.
const DefaultDuration = 1500 * time.Millisecond

// DefaultSeed seeds the initial scatter.
const DefaultSeed = 42

// Snapshot is a copy of the scene state at one frame.
type Snapshot struct {
	Frame       uint64              `json:"frame"`
	Arrangement arrange.Arrangement `json:"arrangement"`
	Busy        bool                `json:"busy"`
	Poses       []arrange.Pose      `json:"poses"`
}

// Option configures a [Scene].
type Option func(*Scene)

// WithDuration sets the arrangement change duration.
func WithDuration(d time.Duration) Option {
	return func(s *Scene) { s.duration = max(d, 0) }
}

// WithSeed sets the scatter seed used by Load.
func WithSeed(seed uint64) Option {
	return func(s *Scene) { s.seed = seed }
}

// WithEasing sets the easing for every transition.
func WithEasing(e motion.Easing) Option {
	return func(s *Scene) { s.easing = e }
}

// WithRender sets the callback invoked on every render, both from the
// driver after each tick and from the tick transition while animating.
func WithRender(fn func(*Scene)) Option {
	return func(s *Scene) { s.render = fn }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDriverOptions passes extra options to the frame driver.
func WithDriverOptions(opts ...frame.Option) Option {
	return func(s *Scene) { s.driverOpts = append(s.driverOpts, opts...) }
}

// Scene owns every piece of animation state for one dataset.
type Scene struct {
	targets  arrange.Targets
	engine   *motion.Engine
	driver   *frame.Driver
	current  arrange.Arrangement
	duration time.Duration
	seed     uint64
	easing   motion.Easing
	render   func(*Scene)
	logger   *log.Logger

	driverOpts []frame.Option
}

// New creates an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		duration: DefaultDuration,
		seed:     DefaultSeed,
		easing:   motion.ExponentialInOut,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = motion.NewEngine(motion.NewStore(0, s.seed),
		motion.WithEasing(s.easing),
		motion.WithRender(s.emit),
		motion.WithLogger(s.logger),
	)
	dopts := append([]frame.Option{
		frame.WithRender(s.emit),
		frame.WithSettled(s.onSettled),
		frame.WithLogger(s.logger),
	}, s.driverOpts...)
	s.driver = frame.New(s.engine, dopts...)
	return s
}

// SetRender replaces the render callback. Call it before the frame loop
// starts or from the loop goroutine.
func (s *Scene) SetRender(fn func(*Scene)) { s.render = fn }

func (s *Scene) emit() {
	if s.render != nil {
		s.render(s)
	}
}

func (s *Scene) onSettled() {
	s.logger.Debug("arrangement settled", "arrangement", s.current)
	observability.Transition().OnSettled(s.current.String())
}

// Load resizes the scene for n items. Targets are regenerated, the store is
// re-scattered and the table arrangement is scheduled.
func (s *Scene) Load(n int) {
	n = max(n, 0)
	s.targets = arrange.Build(n)
	s.engine.Reset(motion.NewStore(n, s.seed))
	s.logger.Debug("scene loaded", "items", n, "seed", s.seed)
	s.Arrange(arrange.Table)
}

// Arrange starts the transition to a. Unknown arrangements and empty scenes
// are ignored.
func (s *Scene) Arrange(a arrange.Arrangement) {
	targets := s.targets.Get(a)
	if len(targets) == 0 {
		return
	}
	s.current = a
	s.engine.Transform(targets, s.duration)
	observability.Transition().OnTransform(a.String(), s.engine.Store().Len(), s.duration)
	s.logger.Debug("arrange", "arrangement", a, "items", s.engine.Store().Len(), "duration", s.duration)
}

// ArrangeName parses name and starts the transition.
func (s *Scene) ArrangeName(name string) error {
	a, err := arrange.Parse(name)
	if err != nil {
		return err
	}
	if s.targets.Len() == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scene has no items loaded")
	}
	s.Arrange(a)
	return nil
}

// Tick advances the scene to now. See [frame.Driver.Tick].
func (s *Scene) Tick(now time.Time) bool { return s.driver.Tick(now) }

// Snapshot copies the current state.
func (s *Scene) Snapshot() Snapshot {
	return Snapshot{
		Frame:       s.driver.Frames(),
		Arrangement: s.current,
		Busy:        s.engine.Busy(),
		Poses:       s.engine.Store().Poses(),
	}
}

// Len returns the number of items.
func (s *Scene) Len() int { return s.engine.Store().Len() }

// Current returns the most recently requested arrangement.
func (s *Scene) Current() arrange.Arrangement { return s.current }

// Duration returns the arrangement change duration.
func (s *Scene) Duration() time.Duration { return s.duration }

// Targets returns the target sets for the loaded size.
func (s *Scene) Targets() arrange.Targets { return s.targets }

// Store exposes the live store for renderers running on the loop goroutine.
func (s *Scene) Store() *motion.Store { return s.engine.Store() }

// Engine returns the transition engine.
func (s *Scene) Engine() *motion.Engine { return s.engine }

// Driver returns the frame driver.
func (s *Scene) Driver() *frame.Driver { return s.driver }
