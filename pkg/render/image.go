package render

import (
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/matzehuels/tilewall/pkg/scene"
)

// RenderImage rasterises the snapshot. Tiles are filled at the supersample
// factor and the result is downsampled with a Catmull-Rom filter.
func RenderImage(snap scene.Snapshot, opts ...Option) *image.NRGBA {
	o := newOptions(opts)
	ss := max(o.supersample, 1)
	w, h := o.width*ss, o.height*ss
	cam := o.cam(float64(w), float64(h))
	quads := ProjectAll(cam, snap.Poses)
	near, far := depthRange(quads)

	dc := gg.NewContext(w, h)
	dc.SetColor(o.background)
	dc.Clear()
	dc.SetLineWidth(float64(ss))

	for _, q := range quads {
		dc.NewSubPath()
		for _, p := range q.Corner {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.SetColor(o.shade(q, near, far))
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 0.25)
		dc.Stroke()

		if label := o.label(q.Index); label != "" && q.Front && cam.focal()/q.Depth > 0.6 {
			dc.SetRGB(1, 1, 1)
			dc.DrawStringAnchored(label, q.Center.X, q.Center.Y, 0.5, 0.5)
		}
	}

	return downsample(dc.Image(), o.width, o.height)
}

// downsample scales src to w×h. Filtering happens in premultiplied space
// so transparent edges do not darken.
func downsample(src image.Image, w, h int) *image.NRGBA {
	b := src.Bounds()
	premul, ok := src.(*image.RGBA)
	if !ok {
		premul = image.NewRGBA(b)
		draw.Draw(premul, b, src, b.Min, draw.Src)
	}
	if b.Dx() != w || b.Dy() != h {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)
		premul = dst
	}
	out := image.NewNRGBA(premul.Bounds())
	draw.Draw(out, out.Bounds(), premul, premul.Bounds().Min, draw.Src)
	return out
}

// EncodeWebP writes img as a lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}
