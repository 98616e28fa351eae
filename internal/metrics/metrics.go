// Package metrics exports animation and cache events as Prometheus series.
//
// A [Metrics] value implements every hook interface in
// [github.com/matzehuels/tilewall/pkg/observability]. Register it once at
// startup with [Metrics.Install] and expose [Metrics.Handler] on /metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/tilewall/pkg/observability"
)

const namespace = "tilewall"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	active        prometheus.Gauge
	transforms    *prometheus.CounterVec
	settled       *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
}

// New creates the collectors. Go runtime and process collectors are added
// when runtime is true.
func New(runtime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames advanced by the driver.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time spent advancing and rendering one frame.",
			Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .016, .033, .1},
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_transitions",
			Help:      "Transitions still in flight after the last frame.",
		}),
		transforms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "Arrangement changes scheduled.",
		}, []string{"arrangement"}),
		settled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settled_total",
			Help:      "Arrangement changes that reached their targets.",
		}, []string{"arrangement"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits by key type.",
		}, []string{"type"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses by key type.",
		}, []string{"type"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.frames, m.frameDuration, m.active,
		m.transforms, m.settled,
		m.cacheHits, m.cacheMisses, m.cacheBytes,
	)
	if runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Install registers m as the frame, transition and cache hooks.
func (m *Metrics) Install() {
	observability.SetFrameHooks(m)
	observability.SetTransitionHooks(m)
	observability.SetCacheHooks(m)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OnFrame(dt, took time.Duration, active int) {
	m.frames.Inc()
	m.frameDuration.Observe(took.Seconds())
	m.active.Set(float64(active))
}

func (m *Metrics) OnTransform(arrangement string, items int, duration time.Duration) {
	m.transforms.WithLabelValues(arrangement).Inc()
}

func (m *Metrics) OnSettled(arrangement string) {
	m.settled.WithLabelValues(arrangement).Inc()
}

func (m *Metrics) OnCacheHit(ctx context.Context, keyType string) {
	m.cacheHits.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(ctx context.Context, keyType string) {
	m.cacheMisses.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(ctx context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ observability.FrameHooks      = (*Metrics)(nil)
	_ observability.TransitionHooks = (*Metrics)(nil)
	_ observability.CacheHooks      = (*Metrics)(nil)
)
