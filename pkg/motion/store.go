package motion

import (
	"math/rand/v2"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/geom"
)

// ScatterExtent is the half-width of the cube new tiles are scattered in.
const ScatterExtent = 2000.0

// Store holds the current pose of every item. Item i is always index i.
type Store struct {
	poses []arrange.Pose
}

// NewStore creates n poses scattered uniformly in
// [-ScatterExtent, ScatterExtent) on each axis with identity rotation. The
// same seed always yields the same scatter.
func NewStore(n int, seed uint64) *Store {
	n = max(n, 0)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	poses := make([]arrange.Pose, n)
	for i := range poses {
		poses[i].Position = geom.V(
			rng.Float64()*2*ScatterExtent-ScatterExtent,
			rng.Float64()*2*ScatterExtent-ScatterExtent,
			rng.Float64()*2*ScatterExtent-ScatterExtent,
		)
	}
	return &Store{poses: poses}
}

// NewStoreFrom creates a store holding a copy of poses.
func NewStoreFrom(poses []arrange.Pose) *Store {
	return &Store{poses: append([]arrange.Pose(nil), poses...)}
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.poses) }

// Pose returns item i's current pose.
func (s *Store) Pose(i int) arrange.Pose { return s.poses[i] }

// Set replaces item i's pose.
func (s *Store) Set(i int, p arrange.Pose) { s.poses[i] = p }

// Poses returns a copy of all current poses.
func (s *Store) Poses() []arrange.Pose {
	return append([]arrange.Pose(nil), s.poses...)
}

// CopyInto copies the current poses into dst, growing it as needed, and
// returns the result. Used by renderers that publish a frame per tick.
func (s *Store) CopyInto(dst []arrange.Pose) []arrange.Pose {
	return append(dst[:0], s.poses...)
}
