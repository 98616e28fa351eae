package render

import (
	"image/color"

	"github.com/matzehuels/tilewall/pkg/dataset"
)

// Default frame size and supersampling factor.
const (
	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultSupersample = 2
)

var (
	defaultBackground = color.NRGBA{R: 11, G: 14, B: 20, A: 255}
	defaultTile       = color.NRGBA{R: 0, G: 127, B: 127, A: 217}
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	width, height int
	supersample   int
	camera        *Camera
	records       []dataset.Record
	background    color.NRGBA
	labels        bool
	fog           float64
}

// WithSize sets the output size in pixels (or cells for ASCII).
func WithSize(w, h int) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.width, o.height = w, h
		}
	}
}

// WithSupersample renders at n times the output size before downsampling.
func WithSupersample(n int) Option {
	return func(o *options) { o.supersample = max(n, 1) }
}

// WithCamera overrides the default camera. Its viewport is resized to the
// output size.
func WithCamera(c Camera) Option {
	return func(o *options) { o.camera = &c }
}

// WithRecords supplies per-tile data used for colours and labels. Record i
// belongs to tile i.
func WithRecords(r []dataset.Record) Option {
	return func(o *options) { o.records = r }
}

// WithBackground sets the background colour.
func WithBackground(c color.NRGBA) Option {
	return func(o *options) { o.background = c }
}

// WithLabels draws record names on tiles facing the camera.
func WithLabels() Option {
	return func(o *options) { o.labels = true }
}

// WithFog blends distant tiles towards the background. 0 disables it, 1
// fades the farthest tile completely.
func WithFog(amount float64) Option {
	return func(o *options) { o.fog = min(max(amount, 0), 1) }
}

func newOptions(opts []Option) options {
	o := options{
		width:       DefaultWidth,
		height:      DefaultHeight,
		supersample: DefaultSupersample,
		background:  defaultBackground,
		fog:         0.35,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// cam returns the camera scaled to a w×h viewport.
func (o options) cam(w, h float64) Camera {
	c := NewCamera(w, h)
	if o.camera != nil {
		c = *o.camera
		c.Width, c.Height = w, h
	}
	return c
}

func (o options) record(i int) (dataset.Record, bool) {
	if i < len(o.records) {
		return o.records[i], true
	}
	return dataset.Record{}, false
}

// tileColor returns the fill for tile i.
func (o options) tileColor(i int) color.NRGBA {
	if r, ok := o.record(i); ok {
		return r.Band().Color()
	}
	return defaultTile
}

// label returns the text drawn on tile i, if any.
func (o options) label(i int) string {
	if !o.labels {
		return ""
	}
	if r, ok := o.record(i); ok {
		return r.Label()
	}
	return ""
}
