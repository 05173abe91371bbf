// Package scene decodes the room geometry and lamp placements that a
// simulation run is performed against.
package scene

import (
	"encoding/json"
	"fmt"

	"github.com/quanta-uv/uvsim/pkg/core"
)

// Light is a UV lamp placed in the scene: a position, an aim direction, the
// lamp profile it uses for its angular intensity distribution, and its
// radiant power.
type Light struct {
	ID        string    `json:"id"`
	Position  core.Vec3 `json:"position"`
	Direction core.Vec3 `json:"direction"`
	LampType  string    `json:"lamp_type"`
	PowerW    float64   `json:"power_w"`
}

type triangleJSON struct {
	V0           [3]float64 `json:"v0"`
	V1           [3]float64 `json:"v1"`
	V2           [3]float64 `json:"v2"`
	Reflectivity *float64   `json:"reflectivity,omitempty"`
}

type sceneJSON struct {
	Triangles []triangleJSON `json:"triangles"`
	Lights    []Light        `json:"lights"`
}

// Scene is a fully decoded room: its bounding triangle mesh and its lamps.
type Scene struct {
	Triangles []*core.Triangle
	Lights    []Light
}

// Load parses a scene from JSON of the shape {"triangles": [...], "lights":
// [...]}. A triangle without an explicit reflectivity gets
// core.DefaultAlbedo. Light directions are normalized on load.
func Load(data []byte) (*Scene, error) {
	var raw sceneJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scene: decoding scene: %w", err)
	}

	if len(raw.Triangles) == 0 {
		return nil, fmt.Errorf("scene: scene has no triangles")
	}

	triangles := make([]*core.Triangle, len(raw.Triangles))
	for i, t := range raw.Triangles {
		albedo := core.DefaultAlbedo
		if t.Reflectivity != nil {
			albedo = *t.Reflectivity
		}
		triangles[i] = core.NewTriangle(
			core.NewVec3(t.V0[0], t.V0[1], t.V0[2]),
			core.NewVec3(t.V1[0], t.V1[1], t.V1[2]),
			core.NewVec3(t.V2[0], t.V2[1], t.V2[2]),
			albedo,
		)
	}

	lights := make([]Light, len(raw.Lights))
	for i, l := range raw.Lights {
		l.Direction = l.Direction.Normalize()
		lights[i] = l
	}

	return &Scene{Triangles: triangles, Lights: lights}, nil
}
