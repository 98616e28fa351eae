package arrange

import (
	"math"

	"github.com/matzehuels/tilewall/pkg/geom"
)

// Double helix geometry.
const (
	HelixRadius     = 900.0
	HelixAngleStep  = 0.35
	HelixStepY      = 18.0
	HelixSeparation = 180.0
	HelixTop        = 450.0
)

// BuildHelix winds even items onto one strand and odd items onto a second
// strand half a turn out of phase and shifted along X. Each index steps
// down by HelixStepY. Tiles face away from the vertical axis at their own
// height.
func BuildHelix(n int) TargetSet {
	if n <= 0 {
		return TargetSet{}
	}
	set := make(TargetSet, n)
	for i := range n {
		angle := float64(i) * HelixAngleStep
		phase, offset := 0.0, -HelixSeparation
		if i%2 == 1 {
			phase, offset = math.Pi, HelixSeparation
		}
		y := -(float64(i) * HelixStepY) + HelixTop
		p := geom.V(
			HelixRadius*math.Sin(angle+phase)+offset,
			y,
			HelixRadius*math.Cos(angle+phase),
		)
		set[i] = Pose{
			Position: p,
			Rotation: geom.FaceAway(p, geom.V(0, y, 0)),
		}
	}
	return set
}
