package arrange

import "github.com/matzehuels/tilewall/pkg/geom"

// Pose is a tile's position and orientation.
type Pose struct {
	Position geom.Vec3  `json:"position"`
	Rotation geom.Euler `json:"rotation"`
}

// TargetSet is the ordered list of destination poses for one arrangement.
type TargetSet []Pose

// At returns the pose paired with item i. Items beyond the end of the set
// share its last entry. The set must not be empty.
func (s TargetSet) At(i int) Pose {
	if i >= len(s) {
		return s[len(s)-1]
	}
	return s[i]
}

// Targets holds the four target sets built for one dataset size.
type Targets struct {
	N      int       `json:"n"`
	Table  TargetSet `json:"table"`
	Sphere TargetSet `json:"sphere"`
	Helix  TargetSet `json:"helix"`
	Grid   TargetSet `json:"grid"`
}

// Build generates all four target sets for n items.
func Build(n int) Targets {
	n = max(n, 0)
	return Targets{
		N:      n,
		Table:  BuildTable(n),
		Sphere: BuildSphere(n),
		Helix:  BuildHelix(n),
		Grid:   BuildGrid(n),
	}
}

// Get returns the target set for a, or nil for an unknown arrangement.
func (t Targets) Get(a Arrangement) TargetSet {
	switch a {
	case Table:
		return t.Table
	case Sphere:
		return t.Sphere
	case Helix:
		return t.Helix
	case Grid:
		return t.Grid
	}
	return nil
}

// Len returns the item count the sets were built for.
func (t Targets) Len() int { return t.N }
