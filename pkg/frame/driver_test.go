package frame

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/motion"
	"github.com/matzehuels/tilewall/pkg/observability"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newEngine(n int) *motion.Engine {
	return motion.NewEngine(motion.NewStore(n, 42))
}

func TestTickFirstFrameIsZero(t *testing.T) {
	s := motion.NewStore(3, 1)
	e := motion.NewEngine(s, motion.WithEasing(motion.Linear))
	d := New(e)

	start := s.Poses()
	e.Transform(arrange.BuildTable(3), time.Second)
	d.Tick(epoch.Add(time.Hour))
	for i := range start {
		if s.Pose(i) != start[i] {
			t.Fatalf("first tick moved item %d", i)
		}
	}

	d.Tick(epoch.Add(time.Hour + 500*time.Millisecond))
	mid := s.Pose(0).Position
	want := start[0].Position.Lerp(arrange.BuildTable(3)[0].Position, 0.5)
	if mid.Sub(want).Len() > 1e-9 {
		t.Errorf("pose after 500ms = %v, want %v", mid, want)
	}
}

func TestTickRendersOncePerTick(t *testing.T) {
	renders := 0
	d := New(newEngine(2), WithRender(func() { renders++ }))
	for i := range 5 {
		d.Tick(epoch.Add(time.Duration(i) * 16 * time.Millisecond))
	}
	if renders != 5 {
		t.Errorf("renders = %d, want 5", renders)
	}
	if d.Frames() != 5 {
		t.Errorf("Frames() = %d, want 5", d.Frames())
	}
}

func TestTickZeroDurationSnaps(t *testing.T) {
	e := newEngine(10)
	d := New(e)
	targets := arrange.BuildSphere(10)

	e.Transform(targets, 0)
	if d.Tick(epoch) {
		t.Fatal("zero-duration transform should settle in one tick")
	}
	for i := range 10 {
		if e.Store().Pose(i) != targets[i] {
			t.Fatalf("item %d not at target", i)
		}
	}
}

func TestTickBackwardsClockIsZero(t *testing.T) {
	e := newEngine(1)
	d := New(e)
	e.Transform(arrange.BuildGrid(1), time.Second)
	d.Tick(epoch.Add(time.Second))
	d.Tick(epoch)
	if got := e.Transitions()[0].Elapsed; got != 0 {
		t.Errorf("elapsed after backwards tick = %v, want 0", got)
	}
}

func TestSettledCallback(t *testing.T) {
	settled := 0
	e := newEngine(4)
	d := New(e, WithSettled(func() { settled++ }))

	e.Transform(arrange.BuildHelix(4), 100*time.Millisecond)
	now := epoch
	for range 20 {
		d.Tick(now)
		now = now.Add(16 * time.Millisecond)
	}
	if settled != 1 {
		t.Errorf("settled = %d, want 1", settled)
	}
}

func TestTickRunsPostedCommands(t *testing.T) {
	e := newEngine(5)
	d := New(e)
	targets := arrange.BuildGrid(5)

	d.Post(func() { e.Transform(targets, 0) })
	d.Tick(epoch)
	for i := range 5 {
		if e.Store().Pose(i) != targets[i] {
			t.Fatalf("posted transform did not run before advancing, item %d", i)
		}
	}
}

func TestDrain(t *testing.T) {
	d := New(newEngine(0))
	var order []int
	for i := range 3 {
		d.Post(func() { order = append(order, i) })
	}
	if n := d.Drain(); n != 3 {
		t.Fatalf("Drain() = %d, want 3", n)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("commands ran out of order: %v", order)
		}
	}
	if n := d.Drain(); n != 0 {
		t.Errorf("second Drain() = %d, want 0", n)
	}
}

func TestRunManual(t *testing.T) {
	e := newEngine(8)
	renders := 0
	d := New(e, WithRender(func() { renders++ }))
	src := NewManual(epoch)

	ctx := context.Background()
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx, src) }()

	targets := arrange.BuildSphere(8)
	if err := d.Do(ctx, func() { e.Transform(targets, 100*time.Millisecond) }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	for range 10 {
		src.Step(16 * time.Millisecond)
	}
	src.Stop()
	if err := <-errc; err != nil {
		t.Fatalf("Run() = %v, want nil after Stop", err)
	}

	if renders != 10 {
		t.Errorf("renders = %d, want 10", renders)
	}
	if e.Busy() {
		t.Error("engine still busy after 160ms of a 100ms transform")
	}
	for i := range 8 {
		if e.Store().Pose(i) != targets[i] {
			t.Fatalf("item %d not at target after run", i)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	d := New(newEngine(1))
	src := NewManual(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx, src); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestDoCancelled(t *testing.T) {
	d := New(newEngine(1), WithQueue(1))
	d.Post(func() {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Do(ctx, func() {}); !errors.Is(err, context.Canceled) {
		t.Errorf("Do() on full queue = %v, want context.Canceled", err)
	}
}

func TestTickerInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}
	for _, tt := range tests {
		if got := Interval(tt.fps); got != tt.want {
			t.Errorf("Interval(%d) = %v, want %v", tt.fps, got, tt.want)
		}
	}

	tk := NewTicker(1000)
	defer tk.Stop()
	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("ticker did not fire")
	}
}

type countingFrames struct {
	observability.NoopFrameHooks
	mu     sync.Mutex
	frames int
	active int
}

func (c *countingFrames) OnFrame(_, _ time.Duration, active int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames++
	c.active = active
}

func TestTickEmitsFrameHook(t *testing.T) {
	hooks := &countingFrames{}
	observability.SetFrameHooks(hooks)
	defer observability.Reset()

	e := newEngine(3)
	d := New(e)
	e.Transform(arrange.BuildTable(3), time.Second)
	d.Tick(epoch)
	d.Tick(epoch.Add(16 * time.Millisecond))

	if hooks.frames != 2 {
		t.Errorf("frame hook calls = %d, want 2", hooks.frames)
	}
	if hooks.active != 2*3+1 {
		t.Errorf("active = %d, want %d", hooks.active, 2*3+1)
	}
}
