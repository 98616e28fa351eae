package frame

import (
	"sync"
	"time"
)

// Source delivers tick timestamps to [Driver.Run]. Closing the channel ends
// the run.
type Source interface {
	C() <-chan time.Time
	Stop()
}

// Ticker is a wall-clock [Source] firing at a fixed rate.
type Ticker struct {
	t *time.Ticker
}

// NewTicker returns a ticker firing fps times per second. Non-positive fps
// falls back to 60.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{t: time.NewTicker(Interval(fps))}
}

// C returns the tick channel.
func (t *Ticker) C() <-chan time.Time { return t.t.C }

// Stop stops the underlying ticker.
func (t *Ticker) Stop() { t.t.Stop() }

// Interval returns the frame period for fps.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(fps)
}

// Manual is a [Source] whose clock only moves when Step is called. It makes
// runs reproducible for tests and offline recording.
type Manual struct {
	ch   chan time.Time
	now  time.Time
	once sync.Once
}

// NewManual returns a manual source whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{ch: make(chan time.Time), now: start}
}

// C returns the tick channel.
func (m *Manual) C() <-chan time.Time { return m.ch }

// Now returns the time of the last tick sent.
func (m *Manual) Now() time.Time { return m.now }

// Step moves the clock forward by dt and blocks until the driver has
// received the tick.
func (m *Manual) Step(dt time.Duration) {
	m.now = m.now.Add(dt)
	m.ch <- m.now
}

// Stop closes the tick channel, which makes [Driver.Run] return.
func (m *Manual) Stop() {
	m.once.Do(func() { close(m.ch) })
}
