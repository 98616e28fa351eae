package motion

import (
	"testing"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/geom"
)

func TestNewStoreScatter(t *testing.T) {
	s := NewStore(500, 42)
	if s.Len() != 500 {
		t.Fatalf("Len() = %d, want 500", s.Len())
	}
	for i := range s.Len() {
		p := s.Pose(i)
		for _, c := range []float64{p.Position.X, p.Position.Y, p.Position.Z} {
			if c < -ScatterExtent || c >= ScatterExtent {
				t.Fatalf("pose %d component %v outside scatter cube", i, c)
			}
		}
		if p.Rotation != (geom.Euler{}) {
			t.Fatalf("pose %d rotation = %v, want identity", i, p.Rotation)
		}
	}
}

func TestNewStoreSeeded(t *testing.T) {
	a := NewStore(10, 7)
	b := NewStore(10, 7)
	c := NewStore(10, 8)
	for i := range 10 {
		if a.Pose(i) != b.Pose(i) {
			t.Fatalf("same seed differs at %d", i)
		}
	}
	if a.Pose(0) == c.Pose(0) {
		t.Error("different seeds should scatter differently")
	}
}

func TestNewStoreEmpty(t *testing.T) {
	if NewStore(0, 1).Len() != 0 || NewStore(-3, 1).Len() != 0 {
		t.Error("non-positive n should give an empty store")
	}
}

func TestStorePosesIsCopy(t *testing.T) {
	s := NewStoreFrom([]arrange.Pose{{Position: geom.V(1, 2, 3)}})
	snap := s.Poses()
	snap[0].Position = geom.V(9, 9, 9)
	if s.Pose(0).Position != geom.V(1, 2, 3) {
		t.Error("Poses() must not alias the store")
	}

	buf := s.CopyInto(make([]arrange.Pose, 0, 4))
	if len(buf) != 1 || buf[0] != s.Pose(0) {
		t.Errorf("CopyInto = %v", buf)
	}
}
