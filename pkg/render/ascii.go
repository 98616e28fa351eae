package render

import (
	"strings"

	"github.com/matzehuels/tilewall/pkg/dataset"
	"github.com/matzehuels/tilewall/pkg/scene"
)

// Cell is one character of an [ASCII] frame. Tile is -1 for empty cells.
type Cell struct {
	Rune rune
	Tile int
	Band dataset.Band
}

// ASCII is a character-cell frame.
type ASCII struct {
	Cols, Rows int
	Cells      [][]Cell
}

// String joins the rows with newlines.
func (a ASCII) String() string {
	var b strings.Builder
	for y, row := range a.Cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

// Glyphs by band; tiles seen from behind use the lower-case variant.
var glyphs = map[dataset.Band][2]rune{
	dataset.BandHigh: {'#', '%'},
	dataset.BandMid:  {'+', '='},
	dataset.BandLow:  {'o', '.'},
	"":               {'@', ':'},
}

// RenderASCII projects each tile centre into a cols×rows grid. The nearest
// tile wins each cell. Cells are about twice as tall as wide, so the
// vertical axis is squashed to keep proportions.
func RenderASCII(snap scene.Snapshot, cols, rows int, opts ...Option) ASCII {
	o := newOptions(opts)
	cols, rows = max(cols, 1), max(rows, 1)
	out := ASCII{Cols: cols, Rows: rows, Cells: make([][]Cell, rows)}
	depth := make([][]float64, rows)
	for y := range out.Cells {
		out.Cells[y] = make([]Cell, cols)
		depth[y] = make([]float64, cols)
		for x := range out.Cells[y] {
			out.Cells[y][x] = Cell{Rune: ' ', Tile: -1}
		}
	}

	// Project into a square-pixel viewport of cols × 2·rows, then halve y.
	cam := o.cam(float64(cols), float64(rows*2))
	for _, q := range ProjectAll(cam, snap.Poses) {
		x, y := int(q.Center.X), int(q.Center.Y/2)
		if x < 0 || x >= cols || y < 0 || y >= rows {
			continue
		}
		if cur := out.Cells[y][x]; cur.Tile >= 0 && depth[y][x] <= q.Depth {
			continue
		}
		band := dataset.Band("")
		if r, ok := o.record(q.Index); ok {
			band = r.Band()
		}
		g := glyphs[band]
		r := g[0]
		if !q.Front {
			r = g[1]
		}
		out.Cells[y][x] = Cell{Rune: r, Tile: q.Index, Band: band}
		depth[y][x] = q.Depth
	}
	return out
}
