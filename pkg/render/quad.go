package render

import (
	"cmp"
	"slices"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/geom"
)

// Tile size in world units. The table spacing leaves a 20 by 30 gap.
const (
	TileWidth  = 120.0
	TileHeight = 160.0
)

// Point is a screen-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad is one tile projected to screen space.
type Quad struct {
	Index  int
	Corner [4]Point // top-left, top-right, bottom-right, bottom-left
	Center Point
	Depth  float64
	// Front is true when the tile's +Z face points at the camera.
	Front bool
}

var tileCorners = [4]geom.Vec3{
	{X: -TileWidth / 2, Y: TileHeight / 2},
	{X: TileWidth / 2, Y: TileHeight / 2},
	{X: TileWidth / 2, Y: -TileHeight / 2},
	{X: -TileWidth / 2, Y: -TileHeight / 2},
}

// ProjectQuad projects the tile at pose p. ok is false when any corner is
// clipped.
func ProjectQuad(cam Camera, i int, p arrange.Pose) (Quad, bool) {
	rot := p.Rotation.Matrix()
	q := Quad{Index: i}
	for k, c := range tileCorners {
		x, y, _, ok := cam.Project(p.Position.Add(rot.MulVec3(c)))
		if !ok {
			return Quad{}, false
		}
		q.Corner[k] = Point{x, y}
	}
	cx, cy, depth, ok := cam.Project(p.Position)
	if !ok {
		return Quad{}, false
	}
	q.Center = Point{cx, cy}
	q.Depth = depth

	normal := rot.MulVec3(geom.Forward)
	q.Front = normal.Dot(cam.Position().Sub(p.Position)) > 0
	return q, true
}

// ProjectAll projects every pose and returns the visible quads ordered far
// to near, ready for painting.
func ProjectAll(cam Camera, poses []arrange.Pose) []Quad {
	quads := make([]Quad, 0, len(poses))
	for i, p := range poses {
		if q, ok := ProjectQuad(cam, i, p); ok {
			quads = append(quads, q)
		}
	}
	slices.SortStableFunc(quads, func(a, b Quad) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	return quads
}
