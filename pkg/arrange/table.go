package arrange

import "github.com/matzehuels/tilewall/pkg/geom"

// Table geometry. TableRows is the nominal row count used for vertical
// centring; datasets larger than TableCols*TableRows add rows below.
const (
	TableCols     = 20
	TableRows     = 10
	TableSpacingX = 140.0
	TableSpacingY = 190.0
)

// BuildTable lays items out row by row on a plane at z=0, all facing +Z.
func BuildTable(n int) TargetSet {
	if n <= 0 {
		return TargetSet{}
	}
	rows := max(TableRows, (n+TableCols-1)/TableCols)
	cx := float64(TableCols)/2 - 0.5
	cy := float64(rows)/2 - 0.5

	set := make(TargetSet, n)
	for i := range n {
		col := i % TableCols
		row := i / TableCols
		set[i] = Pose{Position: geom.V(
			(float64(col)-cx)*TableSpacingX,
			(-float64(row)+cy)*TableSpacingY,
			0,
		)}
	}
	return set
}
