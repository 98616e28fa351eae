package render

import (
	"encoding/json"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/dataset"
	"github.com/matzehuels/tilewall/pkg/scene"
)

type jsonOutput struct {
	Frame       uint64     `json:"frame"`
	Arrangement string     `json:"arrangement,omitempty"`
	Busy        bool       `json:"busy"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Tiles       []jsonTile `json:"tiles"`
}

type jsonTile struct {
	Index   int          `json:"index"`
	Pose    arrange.Pose `json:"pose"`
	Screen  *Point       `json:"screen,omitempty"`
	Depth   float64      `json:"depth,omitempty"`
	Name    string       `json:"name,omitempty"`
	Band    dataset.Band `json:"band,omitempty"`
	Visible bool         `json:"visible"`
}

// RenderJSON encodes the snapshot with each tile's projected centre.
func RenderJSON(snap scene.Snapshot, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	cam := o.cam(float64(o.width), float64(o.height))

	out := jsonOutput{
		Frame:       snap.Frame,
		Arrangement: snap.Arrangement.String(),
		Busy:        snap.Busy,
		Width:       o.width,
		Height:      o.height,
		Tiles:       make([]jsonTile, len(snap.Poses)),
	}
	for i, p := range snap.Poses {
		t := jsonTile{Index: i, Pose: p}
		if x, y, d, ok := cam.Project(p.Position); ok {
			t.Screen = &Point{X: x, Y: y}
			t.Depth = d
			t.Visible = true
		}
		if r, ok := o.record(i); ok {
			t.Name = r.Name
			t.Band = r.Band()
		}
		out.Tiles[i] = t
	}
	return json.MarshalIndent(out, "", "  ")
}
