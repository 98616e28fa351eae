package render

import (
	"bytes"
	"fmt"
	"html"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tilewall/pkg/scene"
)

// RenderSVG draws every visible tile as a polygon, painted far to near.
func RenderSVG(snap scene.Snapshot, opts ...Option) []byte {
	o := newOptions(opts)
	w, h := float64(o.width), float64(o.height)
	cam := o.cam(w, h)
	quads := ProjectAll(cam, snap.Poses)
	near, far := depthRange(quads)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", hexColor(o.background))
	if snap.Arrangement != "" {
		fmt.Fprintf(&buf, `  <title>%s</title>`+"\n", html.EscapeString(snap.Arrangement.String()))
	}

	for _, q := range quads {
		fill := o.shade(q, near, far)
		fmt.Fprintf(&buf, `  <polygon id="tile-%d" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-opacity="0.5"/>`+"\n",
			q.Index,
			q.Corner[0].X, q.Corner[0].Y, q.Corner[1].X, q.Corner[1].Y,
			q.Corner[2].X, q.Corner[2].Y, q.Corner[3].X, q.Corner[3].Y,
			hexColor(fill), float64(fill.A)/255, hexColor(o.background))
		if label := o.label(q.Index); label != "" && q.Front {
			size := 12 * cam.focal() / q.Depth
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" font-family="sans-serif" fill="#ffffff" text-anchor="middle">%s</text>`+"\n",
				q.Center.X, q.Center.Y, size, html.EscapeString(label))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// depthRange returns the nearest and farthest depth in quads.
func depthRange(quads []Quad) (near, far float64) {
	if len(quads) == 0 {
		return 0, 0
	}
	// ProjectAll sorts far to near.
	return quads[len(quads)-1].Depth, quads[0].Depth
}

// shade blends the tile colour towards the background by relative depth and
// darkens tiles seen from behind.
func (o options) shade(q Quad, near, far float64) color.NRGBA {
	base := o.tileColor(q.Index)
	t := 0.0
	if far > near {
		t = (q.Depth - near) / (far - near) * o.fog
	}
	if !q.Front {
		t = min(1, t+0.3)
	}
	if t <= 0 {
		return base
	}
	c, _ := colorful.MakeColor(opaque(base))
	bg, _ := colorful.MakeColor(opaque(o.background))
	r, g, b := c.BlendLab(bg, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: base.A}
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
