package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Frame hooks
	NoopFrameHooks{}.OnFrame(16*time.Millisecond, time.Millisecond, 401)

	// Transition hooks
	tr := NoopTransitionHooks{}
	tr.OnTransform("sphere", 200, 1500*time.Millisecond)
	tr.OnSettled("sphere")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "dataset")
	c.OnCacheMiss(ctx, "targets")
	c.OnCacheSet(ctx, "targets", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Frame().(NoopFrameHooks); !ok {
		t.Error("Frame() should return NoopFrameHooks by default")
	}
	if _, ok := Transition().(NoopTransitionHooks); !ok {
		t.Error("Transition() should return NoopTransitionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customFrame := &testFrameHooks{}
	SetFrameHooks(customFrame)
	if Frame() != customFrame {
		t.Error("SetFrameHooks should set custom hooks")
	}

	customTransition := &testTransitionHooks{}
	SetTransitionHooks(customTransition)
	if Transition() != customTransition {
		t.Error("SetTransitionHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Frame().OnFrame(time.Millisecond, 0, 3)
	if customFrame.frames != 1 {
		t.Errorf("custom frame hook called %d times, want 1", customFrame.frames)
	}

	// Reset and verify
	Reset()
	if _, ok := Frame().(NoopFrameHooks); !ok {
		t.Error("Reset() should restore NoopFrameHooks")
	}
	if _, ok := Transition().(NoopTransitionHooks); !ok {
		t.Error("Reset() should restore NoopTransitionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testFrameHooks{}
	SetFrameHooks(custom)

	// Setting nil should be ignored
	SetFrameHooks(nil)
	SetTransitionHooks(nil)
	SetCacheHooks(nil)

	if Frame() != custom {
		t.Error("SetFrameHooks(nil) should be ignored")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testFrameHooks struct {
	NoopFrameHooks
	frames int
}

func (h *testFrameHooks) OnFrame(time.Duration, time.Duration, int) { h.frames++ }

type testTransitionHooks struct{ NoopTransitionHooks }
type testCacheHooks struct{ NoopCacheHooks }
