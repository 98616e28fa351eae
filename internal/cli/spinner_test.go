package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Recording frame 1/10")
	s.enabled = true
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Update("Recording frame 10/10 with a longer message")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	for _, want := range []string{"frame 1/10", "frame 10/10", " 0s"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
	if s.width < len("Recording frame 10/10 with a longer message") {
		t.Errorf("width = %d, should track the widest line", s.width)
	}
}

func TestSpinnerSilentWhenNotTerminal(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Loading...")
	if s.enabled {
		t.Fatal("buffer should not count as a terminal")
	}
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()
	if out.String() != "" {
		t.Errorf("wrote %q to a non-terminal", out.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 10*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinnerWithContext(ctx, "Testing...")
			s.Start()
			cancel()
			<-s.stopped
			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	s.Stop()
	s.Stop()
	if s.Cancelled() {
		t.Error("explicit Stop is not a cancellation")
	}

	// Stop before Start must not block.
	newSpinner("never started").Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	s := newSpinner("Testing...")
	s.Start()
	s.StopWithSuccess("Done!")

	s = newSpinner("Testing...")
	s.Start()
	s.StopWithError("Failed!")
}
