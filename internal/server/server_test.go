package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/cache"
	"github.com/matzehuels/tilewall/pkg/dataset"
	"github.com/matzehuels/tilewall/pkg/frame"
	"github.com/matzehuels/tilewall/pkg/scene"
)

// newTestServer loads n items and runs the frame loop on a manual clock so
// commands are processed but nothing animates unless the test steps it.
func newTestServer(t *testing.T, n int, opts ...Option) (*Server, *frame.Manual) {
	t.Helper()
	sc := scene.New(scene.WithDuration(100 * time.Millisecond))
	sc.Load(n)
	s := New(sc, append([]Option{WithRecords(dataset.Sample(n, 1))}, opts...)...)

	ctx, cancel := context.WithCancel(context.Background())
	clock := frame.NewManual(time.Unix(0, 0))
	done := make(chan struct{})
	go func() {
		sc.Driver().Run(ctx, clock)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, clock
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, 3)
	rec := do(t, s, "GET", "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	h := decode[healthResponse](t, rec)
	if h.Status != "ok" || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}
}

func TestArrangements(t *testing.T) {
	s, _ := newTestServer(t, 7)
	rec := do(t, s, "GET", "/api/arrangements")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[arrangementsResponse](t, rec)
	if len(got.Arrangements) != 4 || got.Current != arrange.Table || got.Items != 7 {
		t.Errorf("arrangements = %+v", got)
	}
}

func TestArrange(t *testing.T) {
	s, _ := newTestServer(t, 5)

	rec := do(t, s, "POST", "/api/arrange/Sphere")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	got := decode[arrangeResponse](t, rec)
	if got.Arrangement != arrange.Sphere || got.DurationMS != 100 {
		t.Errorf("arrange = %+v", got)
	}

	cur := decode[arrangementsResponse](t, do(t, s, "GET", "/api/arrangements"))
	if cur.Current != arrange.Sphere {
		t.Errorf("current = %q, want sphere", cur.Current)
	}
}

func TestArrangeErrors(t *testing.T) {
	s, _ := newTestServer(t, 5)
	rec := do(t, s, "POST", "/api/arrange/cube")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if e := decode[ErrorPayload](t, rec); e.Code != "INVALID_ARRANGEMENT" {
		t.Errorf("code = %q", e.Code)
	}

	empty, _ := newTestServer(t, 0)
	if rec := do(t, empty, "POST", "/api/arrange/grid"); rec.Code != http.StatusBadRequest {
		t.Errorf("empty scene status = %d, want 400", rec.Code)
	}

	if rec := do(t, s, "GET", "/api/arrange/grid"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}

func TestPoses(t *testing.T) {
	s, _ := newTestServer(t, 4)

	rec := do(t, s, "GET", "/api/poses")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var doc struct {
		Arrangement string            `json:"arrangement"`
		Tiles       []json.RawMessage `json:"tiles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Arrangement != "table" || len(doc.Tiles) != 4 {
		t.Errorf("doc = %s/%d tiles", doc.Arrangement, len(doc.Tiles))
	}

	rec = do(t, s, "GET", "/api/poses?format=svg")
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("svg content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("svg body missing <svg")
	}

	if rec := do(t, s, "GET", "/api/poses?format=gif"); rec.Code != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", rec.Code)
	}
}

func TestTargetsCached(t *testing.T) {
	mem, err := cache.NewMemoryCache(8)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := newTestServer(t, 3, WithCache(mem, nil))

	first := do(t, s, "GET", "/api/targets/helix?n=5")
	if first.Code != http.StatusOK || first.Header().Get("X-Cache") != "miss" {
		t.Fatalf("first = %d %q", first.Code, first.Header().Get("X-Cache"))
	}
	set := decode[arrange.TargetSet](t, first)
	if len(set) != 5 {
		t.Errorf("len = %d, want 5", len(set))
	}

	second := do(t, s, "GET", "/api/targets/helix?n=5")
	if second.Header().Get("X-Cache") != "hit" || second.Body.String() != first.Body.String() {
		t.Errorf("second = %q, body equal %v", second.Header().Get("X-Cache"), second.Body.String() == first.Body.String())
	}

	loaded := decode[arrange.TargetSet](t, do(t, s, "GET", "/api/targets/grid"))
	if len(loaded) != 3 {
		t.Errorf("default size = %d, want loaded count 3", len(loaded))
	}
}

func TestTargetsErrors(t *testing.T) {
	s, _ := newTestServer(t, 3)
	tests := []struct {
		path string
		want int
	}{
		{"/api/targets/cube", http.StatusBadRequest},
		{"/api/targets/table?n=abc", http.StatusBadRequest},
		{"/api/targets/table?n=-1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(t, s, "GET", tt.path); rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestMetricsMounted(t *testing.T) {
	s, _ := newTestServer(t, 1)
	if rec := do(t, s, "GET", "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("without metrics status = %d, want 404", rec.Code)
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })
	s, _ = newTestServer(t, 1, WithMetrics(h))
	if rec := do(t, s, "GET", "/metrics"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("metrics = %d %q", rec.Code, rec.Body)
	}
}

func TestPublishOncePerFrame(t *testing.T) {
	sc := scene.New(scene.WithDuration(100 * time.Millisecond))
	sc.Load(3)
	s := New(sc)

	c := &client{id: "test", send: make(chan []byte, 16)}
	s.hub.clients[c.id] = c

	t0 := time.Unix(0, 0)
	sc.Tick(t0)
	sc.Tick(t0.Add(200 * time.Millisecond))
	sc.Tick(t0.Add(300 * time.Millisecond))

	if got := len(c.send); got != 2 {
		t.Fatalf("messages = %d, want 2 (one animating, one settling)", got)
	}
	var last WSMessage
	for range 2 {
		if err := json.Unmarshal(<-c.send, &last); err != nil {
			t.Fatal(err)
		}
	}
	var snap scene.Snapshot
	if err := json.Unmarshal(last.Payload, &snap); err != nil {
		t.Fatal(err)
	}
	if last.Type != MsgTypeFrame || snap.Busy || snap.Frame != 2 {
		t.Errorf("last = %s frame=%d busy=%v", last.Type, snap.Frame, snap.Busy)
	}
}

func TestWebSocket(t *testing.T) {
	s, _ := newTestServer(t, 4)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() WSMessage {
		t.Helper()
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	if msg := read(); msg.Type != MsgTypeConnected || msg.ID == "" {
		t.Fatalf("welcome = %+v", msg)
	}
	if msg := read(); msg.Type != MsgTypeFrame {
		t.Fatalf("initial = %+v, want frame", msg)
	}

	conn.WriteJSON(WSMessage{Type: MsgTypePing, ID: "p1"})
	if msg := read(); msg.Type != MsgTypePong || msg.ID != "p1" {
		t.Errorf("pong = %+v", msg)
	}

	conn.WriteJSON(WSMessage{Type: MsgTypeArrange, ID: "a1", Payload: json.RawMessage(`{"name":"grid"}`)})
	msg := read()
	if msg.Type != MsgTypeAck || msg.ID != "a1" {
		t.Fatalf("ack = %+v", msg)
	}
	var ack arrangeResponse
	json.Unmarshal(msg.Payload, &ack)
	if ack.Arrangement != arrange.Grid {
		t.Errorf("ack arrangement = %q", ack.Arrangement)
	}

	conn.WriteJSON(WSMessage{Type: MsgTypeArrange, Payload: json.RawMessage(`{"name":"cube"}`)})
	if msg := read(); msg.Type != MsgTypeError {
		t.Errorf("bad arrange = %+v, want error", msg)
	}

	conn.WriteJSON(WSMessage{Type: "dance"})
	msg = read()
	var e ErrorPayload
	json.Unmarshal(msg.Payload, &e)
	if msg.Type != MsgTypeError || e.Code != "UNSUPPORTED" {
		t.Errorf("unknown type = %+v", msg)
	}

	if s.Hub().Len() != 1 {
		t.Errorf("hub clients = %d, want 1", s.Hub().Len())
	}
}
