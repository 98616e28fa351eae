package arrange

import (
	"math"

	"github.com/matzehuels/tilewall/pkg/geom"
)

// SphereRadius is the radius of the sphere arrangement.
const SphereRadius = 1000.0

// BuildSphere spreads items over a sphere with the spiral
// phi = acos(-1 + 2i/n), theta = sqrt(n*pi)*phi. Item 0 sits on the south
// pole. Every tile faces away from the centre.
func BuildSphere(n int) TargetSet {
	if n <= 0 {
		return TargetSet{}
	}
	spin := math.Sqrt(float64(n) * math.Pi)

	set := make(TargetSet, n)
	for i := range n {
		phi := math.Acos(-1 + 2*float64(i)/float64(n))
		p := geom.Spherical(SphereRadius, phi, spin*phi)
		set[i] = Pose{
			Position: p,
			Rotation: geom.FaceAway(p, geom.Vec3{}),
		}
	}
	return set
}
