// Package server exposes a running scene over HTTP and websockets.
//
// The scene itself lives on the frame loop goroutine started by [Server.Run].
// Handlers never touch it directly: they queue work with
// [frame.Driver.Do] and read [scene.Snapshot] copies.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/cache"
	"github.com/matzehuels/tilewall/pkg/dataset"
	"github.com/matzehuels/tilewall/pkg/errors"
	"github.com/matzehuels/tilewall/pkg/frame"
	"github.com/matzehuels/tilewall/pkg/render"
	"github.com/matzehuels/tilewall/pkg/scene"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second

// Option configures a [Server].
type Option func(*Server)

// WithCache sets the cache used for target sets.
func WithCache(c cache.Cache, k cache.Keyer) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
		if k != nil {
			s.keyer = k
		}
	}
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFPS sets the frame loop rate used by [Server.Run].
func WithFPS(fps int) Option {
	return func(s *Server) { s.fps = fps }
}

// WithRecords attaches the dataset rows used to colour and label renders.
func WithRecords(r []dataset.Record) Option {
	return func(s *Server) { s.records = r }
}

// WithRenderOptions sets default options for image and SVG renders.
func WithRenderOptions(opts ...render.Option) Option {
	return func(s *Server) { s.renderOpts = append(s.renderOpts, opts...) }
}

// Server serves one scene.
type Server struct {
	scene      *scene.Scene
	hub        *Hub
	cache      cache.Cache
	keyer      cache.Keyer
	metrics    http.Handler
	logger     *log.Logger
	fps        int
	records    []dataset.Record
	renderOpts []render.Option
	upgrader   websocket.Upgrader
	router     chi.Router

	// touched only on the loop goroutine
	lastFrame uint64
	wasBusy   bool
}

// New creates a server for sc and installs its render callback, so it must
// be called before the frame loop starts.
func New(sc *scene.Scene, opts ...Option) *Server {
	s := &Server{
		scene:  sc,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		fps:    60,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.logger)
	s.router = s.routes()
	sc.SetRender(s.publish)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/arrangements", s.handleArrangements)
		r.Post("/arrange/{name}", s.handleArrange)
		r.Get("/poses", s.handlePoses)
		r.Get("/targets/{name}", s.handleTargets)
	})
	r.Get("/ws", s.handleWebSocket)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

// Run serves on addr and drives the frame loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := frame.NewTicker(s.fps)
		defer ticker.Stop()
		return s.scene.Driver().Run(ctx, ticker)
	})
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

// publish runs on the loop goroutine after every render. It sends at most
// one frame per tick, and nothing while the scene is idle apart from the
// frame that settles it.
func (s *Server) publish(sc *scene.Scene) {
	busy := sc.Engine().Busy()
	frameNo := sc.Driver().Frames()
	if frameNo == s.lastFrame || (!busy && !s.wasBusy) {
		s.wasBusy = busy
		return
	}
	s.lastFrame = frameNo
	s.wasBusy = busy
	if s.hub.Len() == 0 {
		return
	}
	s.hub.Broadcast(newMessage(MsgTypeFrame, sc.Snapshot()))
}

// =============================================================================
// Scene access
// =============================================================================

func (s *Server) snapshot(ctx context.Context) (scene.Snapshot, error) {
	var snap scene.Snapshot
	err := s.scene.Driver().Do(ctx, func() { snap = s.scene.Snapshot() })
	return snap, err
}

func (s *Server) arrange(ctx context.Context, name string) (arrange.Arrangement, error) {
	var (
		a   arrange.Arrangement
		err error
	)
	if doErr := s.scene.Driver().Do(ctx, func() {
		if err = s.scene.ArrangeName(name); err == nil {
			a = s.scene.Current()
		}
	}); doErr != nil {
		return "", errors.Wrap(errors.ErrCodeTimeout, doErr, "frame loop did not respond")
	}
	return a, err
}

// =============================================================================
// Response helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorPayload(err error) ErrorPayload {
	return ErrorPayload{Message: errors.UserMessage(err), Code: string(errors.GetCode(err))}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorPayload(err))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s: %q", key, v)
	}
	return n, nil
}
