package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/buildinfo"
	"github.com/matzehuels/tilewall/pkg/cache"
	"github.com/matzehuels/tilewall/pkg/errors"
	"github.com/matzehuels/tilewall/pkg/render"
)

// Pose formats served by /api/poses.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatWebP = "webp"
)

type healthResponse struct {
	Status  string         `json:"status"`
	Build   buildinfo.Info `json:"build"`
	Clients int            `json:"clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Build:   buildinfo.Get(),
		Clients: s.hub.Len(),
	})
}

type arrangementsResponse struct {
	Arrangements []arrange.Arrangement `json:"arrangements"`
	Current      arrange.Arrangement   `json:"current,omitempty"`
	Busy         bool                  `json:"busy"`
	Items        int                   `json:"items"`
}

func (s *Server) handleArrangements(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeTimeout, err, "frame loop did not respond"))
		return
	}
	writeJSON(w, http.StatusOK, arrangementsResponse{
		Arrangements: arrange.All(),
		Current:      snap.Arrangement,
		Busy:         snap.Busy,
		Items:        len(snap.Poses),
	})
}

type arrangeResponse struct {
	Arrangement arrange.Arrangement `json:"arrangement"`
	DurationMS  int64               `json:"duration_ms"`
}

func (s *Server) handleArrange(w http.ResponseWriter, r *http.Request) {
	a, err := s.arrange(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, arrangeResponse{
		Arrangement: a,
		DurationMS:  s.scene.Duration().Milliseconds(),
	})
}

func (s *Server) handlePoses(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatJSON
	}
	if err := errors.ValidateFormat(format, FormatJSON, FormatSVG, FormatWebP); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeTimeout, err, "frame loop did not respond"))
		return
	}

	opts := append([]render.Option{render.WithRecords(s.records)}, s.renderOpts...)
	switch format {
	case FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(render.RenderSVG(snap, opts...))
	case FormatWebP:
		var buf bytes.Buffer
		if err := render.EncodeWebP(&buf, render.RenderImage(snap, opts...)); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode webp"))
			return
		}
		w.Header().Set("Content-Type", "image/webp")
		w.Write(buf.Bytes())
	default:
		data, err := render.RenderJSON(snap, opts...)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode poses"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// handleTargets serves the target set of one arrangement. The size defaults
// to the loaded item count and can be overridden with ?n=.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	a, err := arrange.Parse(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var loaded int
	if err := s.scene.Driver().Do(r.Context(), func() { loaded = s.scene.Len() }); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeTimeout, err, "frame loop did not respond"))
		return
	}
	n, err := queryInt(r, "n", loaded)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateCount(n); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	key := s.keyer.TargetsKey(a.String(), n)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		w.Header().Set("X-Cache", "hit")
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	data, err := json.Marshal(a.Generator()(n))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode targets"))
		return
	}
	if err := s.cache.Set(ctx, key, data, cache.TTLTargets); err != nil {
		s.logger.Warn("cache targets", "key", key, "err", err)
	}
	w.Header().Set("X-Cache", "miss")
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// =============================================================================
// WebSocket
// =============================================================================

// handleWebSocket streams frames to the client and accepts arrange commands.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	c := s.hub.register(conn)
	defer s.hub.unregister(c)
	go c.writeLoop()

	welcome := newMessage(MsgTypeConnected, nil)
	welcome.ID = c.id
	s.hub.sendMessage(c, welcome)
	if snap, err := s.snapshot(r.Context()); err == nil {
		s.hub.sendMessage(c, newMessage(MsgTypeFrame, snap))
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read", "client", c.id, "err", err)
			}
			return
		}

		switch msg.Type {
		case MsgTypePing:
			s.hub.sendMessage(c, WSMessage{Type: MsgTypePong, ID: msg.ID, Timestamp: msg.Timestamp})
		case MsgTypeArrange:
			var p ArrangePayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				s.hub.sendError(c, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid arrange payload"))
				continue
			}
			a, err := s.arrange(r.Context(), p.Name)
			if err != nil {
				s.hub.sendError(c, err)
				continue
			}
			ack := newMessage(MsgTypeAck, arrangeResponse{Arrangement: a, DurationMS: s.scene.Duration().Milliseconds()})
			ack.ID = msg.ID
			s.hub.sendMessage(c, ack)
		default:
			s.hub.sendError(c, errors.New(errors.ErrCodeUnsupported, "unknown message type: %q", msg.Type))
		}
	}
}
