package sim

import (
	"testing"

	"github.com/quanta-uv/uvsim/pkg/core"
	"github.com/quanta-uv/uvsim/pkg/lamp"
	"github.com/quanta-uv/uvsim/pkg/pathogen"
	"github.com/quanta-uv/uvsim/pkg/photon"
	"github.com/quanta-uv/uvsim/pkg/sampler"
	"github.com/quanta-uv/uvsim/pkg/scene"
)

const testSceneJSON = `{
  "triangles": [
    {"v0": [-3,0,-3], "v1": [3,0,-3], "v2": [3,0,3]},
    {"v0": [-3,0,-3], "v1": [3,0,3], "v2": [-3,0,3]}
  ],
  "lights": [
    {"id": "L1", "position": {"X":0,"Y":3,"Z":0}, "direction": {"X":0,"Y":-1,"Z":0}, "lamp_type": "ushio_b1", "power_w": 5}
  ]
}`

const testDisinfectionCSV = `Species,Strain,wavelength [nm],k1 [cm2/mJ],k2 [cm2/mJ],% resistant
SARS-CoV-2,Wuhan,222,0.377,0.02,5
`

func buildTestRequest(t *testing.T) Request {
	t.Helper()

	sc, err := scene.Load([]byte(testSceneJSON))
	if err != nil {
		t.Fatalf("scene.Load: %v", err)
	}
	lamps, err := lamp.DefaultTable()
	if err != nil {
		t.Fatalf("lamp.DefaultTable: %v", err)
	}
	pathogens, err := pathogen.LoadTable([]byte(testDisinfectionCSV))
	if err != nil {
		t.Fatalf("pathogen.LoadTable: %v", err)
	}

	photonCfg := photon.DefaultConfig()
	photonCfg.PhotonsPerLight = 50
	photonCfg.Deterministic = true
	photonCfg.Seed = 1

	return Request{
		Scene:           sc,
		LampTable:       lamps,
		PathogenTable:   pathogens,
		PathogenSpecies: []string{"SARS-CoV-2"},
		ExposureSeconds: 60,
		SamplerConfig:   sampler.DefaultConfig(10),
		PhotonConfig:    photonCfg,
	}
}

func TestRun_ProducesResultsForEveryPoint(t *testing.T) {
	req := buildTestRequest(t)
	result, err := Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Points) == 0 {
		t.Fatalf("expected at least one point result")
	}
	for _, pr := range result.Points {
		if pr.Irradiance.Total < 0 {
			t.Errorf("negative total irradiance: %f", pr.Irradiance.Total)
		}
		if pr.FluenceJm2 < 0 {
			t.Errorf("negative fluence: %f", pr.FluenceJm2)
		}
		score, ok := pr.PathogenScore["SARS-CoV-2"]
		if !ok {
			t.Fatalf("missing pathogen score for SARS-CoV-2")
		}
		if score.Survival < 0 || score.Survival > 1 {
			t.Errorf("survival out of [0,1] range: %f", score.Survival)
		}
	}
}

func TestRun_RejectsMissingScene(t *testing.T) {
	req := buildTestRequest(t)
	req.Scene = nil
	if _, err := Run(req); err == nil {
		t.Errorf("expected error for missing scene")
	}
}

func TestRun_RejectsMissingLampTable(t *testing.T) {
	req := buildTestRequest(t)
	req.LampTable = nil
	if _, err := Run(req); err == nil {
		t.Errorf("expected error for missing lamp table")
	}
}

func TestRun_UsesSuppliedMeasurementPoints(t *testing.T) {
	req := buildTestRequest(t)
	req.MeasurementPoints = []core.Vec3{core.NewVec3(0, 0.1, 0), core.NewVec3(1, 0.1, 1)}

	result, err := Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Points) != 2 {
		t.Fatalf("len(result.Points) = %d, want 2 (explicit points should bypass sampling)", len(result.Points))
	}
}

func TestRun_SkipsPhotonTracingWithZeroBounces(t *testing.T) {
	req := buildTestRequest(t)
	req.PhotonConfig.MaxBounces = 0
	req.MeasurementPoints = []core.Vec3{core.NewVec3(0, 0.1, 0)}

	result, err := Run(req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Points[0].Irradiance.Indirect != 0 {
		t.Errorf("Indirect = %f, want 0 when MaxBounces is 0", result.Points[0].Irradiance.Indirect)
	}
}
