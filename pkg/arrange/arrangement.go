package arrange

import (
	"strings"

	"github.com/matzehuels/tilewall/pkg/errors"
)

// Arrangement names one of the four spatial layouts.
type Arrangement string

const (
	Table  Arrangement = "table"
	Sphere Arrangement = "sphere"
	Helix  Arrangement = "helix"
	Grid   Arrangement = "grid"
)

// All returns the arrangements in their canonical order.
func All() []Arrangement {
	return []Arrangement{Table, Sphere, Helix, Grid}
}

// Parse resolves a case-insensitive arrangement name.
func Parse(name string) (Arrangement, error) {
	a := Arrangement(strings.ToLower(strings.TrimSpace(name)))
	if !a.Valid() {
		return "", errors.New(errors.ErrCodeInvalidArrangement,
			"invalid arrangement: %q (must be one of: table, sphere, helix, grid)", name)
	}
	return a, nil
}

// Valid reports whether a is one of the four known arrangements.
func (a Arrangement) Valid() bool {
	switch a {
	case Table, Sphere, Helix, Grid:
		return true
	}
	return false
}

func (a Arrangement) String() string { return string(a) }

// Generator returns the pose generator for a, or nil for an unknown name.
func (a Arrangement) Generator() func(n int) TargetSet {
	switch a {
	case Table:
		return BuildTable
	case Sphere:
		return BuildSphere
	case Helix:
		return BuildHelix
	case Grid:
		return BuildGrid
	}
	return nil
}
