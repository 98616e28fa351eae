package arrange

import "github.com/matzehuels/tilewall/pkg/geom"

// Volumetric grid geometry.
const (
	GridX        = 5
	GridY        = 4
	GridZ        = 10
	GridSpacingX = 400.0
	GridSpacingY = 320.0
	GridSpacingZ = 450.0
)

// GridCapacity is the number of distinct cells in the lattice.
const GridCapacity = GridX * GridY * GridZ

// BuildGrid fills a 5×4×10 lattice x-first, then y, then z, centred on the
// origin. Indices past GridCapacity wrap around and share cells.
func BuildGrid(n int) TargetSet {
	if n <= 0 {
		return TargetSet{}
	}
	cx := float64(GridX)/2 - 0.5
	cy := float64(GridY)/2 - 0.5
	cz := float64(GridZ)/2 - 0.5

	set := make(TargetSet, n)
	for i := range n {
		x := i % GridX
		y := (i / GridX) % GridY
		z := (i / (GridX * GridY)) % GridZ
		set[i] = Pose{Position: geom.V(
			(float64(x)-cx)*GridSpacingX,
			(-float64(y)+cy)*GridSpacingY,
			(float64(z)-cz)*GridSpacingZ,
		)}
	}
	return set
}
