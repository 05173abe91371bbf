package scene

import (
	"testing"
)

const sampleScene = `{
  "triangles": [
    {"v0": [0,0,0], "v1": [1,0,0], "v2": [0,1,0]},
    {"v0": [0,0,1], "v1": [1,0,1], "v2": [0,1,1], "reflectivity": 0.2}
  ],
  "lights": [
    {"id": "L1", "position": {"X":0,"Y":0,"Z":2.5}, "direction": {"X":0,"Y":0,"Z":-2}, "lamp_type": "ushio_b1", "power_w": 10}
  ]
}`

func TestLoad_DefaultsReflectivity(t *testing.T) {
	s, err := Load([]byte(sampleScene))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Triangles) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(s.Triangles))
	}
	if s.Triangles[0].Albedo != 0.5 {
		t.Errorf("missing reflectivity should default to 0.5, got %f", s.Triangles[0].Albedo)
	}
	if s.Triangles[1].Albedo != 0.2 {
		t.Errorf("explicit reflectivity = %f, want 0.2", s.Triangles[1].Albedo)
	}
}

func TestLoad_NormalizesLightDirection(t *testing.T) {
	s, err := Load([]byte(sampleScene))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(s.Lights))
	}
	if got := s.Lights[0].Direction.Length(); got < 0.999 || got > 1.001 {
		t.Errorf("light direction length = %f, want 1.0 (normalized)", got)
	}
}

func TestLoad_RejectsEmptyTriangles(t *testing.T) {
	if _, err := Load([]byte(`{"triangles": [], "lights": []}`)); err == nil {
		t.Errorf("expected error for scene with no triangles")
	}
}

func TestLoad_RejectsInvalidJSON(t *testing.T) {
	if _, err := Load([]byte(`not json`)); err == nil {
		t.Errorf("expected error for invalid JSON")
	}
}
