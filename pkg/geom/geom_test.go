package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearVec(a, b Vec3) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

func TestVecOps(t *testing.T) {
	a := V(1, 2, 3)
	b := V(4, 5, 6)

	if got := a.Add(b); got != V(5, 7, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != V(3, 3, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := V(1, 0, 0).Cross(V(0, 1, 0)); got != V(0, 0, 1) {
		t.Errorf("Cross = %v, want +Z", got)
	}
	if got := V(3, 4, 0).Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
	if got := a.Lerp(b, 0.5); got != V(2.5, 3.5, 4.5) {
		t.Errorf("Lerp = %v", got)
	}
}

func TestSpherical(t *testing.T) {
	tests := []struct {
		name       string
		phi, theta float64
		want       Vec3
	}{
		{"north pole", 0, 0, V(0, 10, 0)},
		{"south pole", math.Pi, 0, V(0, -10, 0)},
		{"equator +z", math.Pi / 2, 0, V(0, 0, 10)},
		{"equator +x", math.Pi / 2, math.Pi / 2, V(10, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Spherical(10, tt.phi, tt.theta); !nearVec(got, tt.want) {
				t.Errorf("Spherical = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEulerRoundTrip(t *testing.T) {
	for _, e := range []Euler{
		{},
		{X: 0.3, Y: -0.2, Z: 1.1},
		{X: -1.2, Y: 0.7, Z: -0.4},
	} {
		got := EulerFromMatrix(e.Matrix())
		if !near(got.X, e.X) || !near(got.Y, e.Y) || !near(got.Z, e.Z) {
			t.Errorf("EulerFromMatrix(%v.Matrix()) = %v", e, got)
		}
	}
}

func TestLookAtFacesDirection(t *testing.T) {
	dirs := []Vec3{
		V(1, 0, 0),
		V(0, 0, -1),
		V(1, 2, 3),
		V(-4, -1, 0.5),
		V(0, 1, 0),
		V(0, -1, 0),
	}
	from := V(10, -20, 30)
	for _, d := range dirs {
		e := LookAt(from, from.Add(d.Scale(7)))
		got := e.Matrix().MulVec3(Forward)
		if want := d.Normalize(); !nearVec(got, want) {
			t.Errorf("LookAt towards %v: forward = %v, want %v", d, got, want)
		}
	}
}

func TestLookAtSamePoint(t *testing.T) {
	if got := LookAt(V(1, 1, 1), V(1, 1, 1)); got != (Euler{}) {
		t.Errorf("LookAt(p, p) = %v, want identity", got)
	}
}

func TestFaceAway(t *testing.T) {
	p := V(300, 50, -400)
	got := FaceAway(p, V(0, 50, 0)).Matrix().MulVec3(Forward)
	want := V(300, 0, -400).Normalize()
	if !nearVec(got, want) {
		t.Errorf("FaceAway forward = %v, want %v", got, want)
	}
}
