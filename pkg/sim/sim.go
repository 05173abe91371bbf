// Package sim orchestrates a full simulation run over an already decoded
// scene: generating measurement points, computing direct and indirect irradiance,
// accumulating dose over an exposure time, and scoring pathogen survival.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/quanta-uv/uvsim/pkg/core"
	"github.com/quanta-uv/uvsim/pkg/intensity"
	"github.com/quanta-uv/uvsim/pkg/lamp"
	"github.com/quanta-uv/uvsim/pkg/pathogen"
	"github.com/quanta-uv/uvsim/pkg/photon"
	"github.com/quanta-uv/uvsim/pkg/raytrace"
	"github.com/quanta-uv/uvsim/pkg/sampler"
	"github.com/quanta-uv/uvsim/pkg/scene"
)

// Request bundles everything needed to run a simulation.
type Request struct {
	Scene             *scene.Scene
	LampTable         *lamp.Table
	PathogenTable     *pathogen.Table
	PathogenSpecies   []string // species to score; empty means skip pathogen scoring
	ExposureSeconds   float64
	SamplerConfig     sampler.Config
	PhotonConfig      photon.Config
	GridCellSize      float64 // 0 uses the spatial grid's default heuristic
	MeasurementPoints []core.Vec3 // optional: supply points directly instead of sampling the mesh
}

// PointResult is the full result computed at one measurement point.
type PointResult struct {
	Position      core.Vec3
	Irradiance    intensity.Result
	FluenceJm2    float64 // irradiance.Total * ExposureSeconds
	PathogenScore map[string]pathogen.SurvivalResult
}

// Result is the outcome of a full simulation run.
type Result struct {
	Points []PointResult
}

// Run executes a full simulation: it builds a ray tracer over the scene
// mesh, generates (or reuses) measurement points, computes direct
// irradiance analytically and indirect irradiance via forward photon
// tracing, accumulates fluence over the requested exposure time, and scores
// pathogen survival at each point for every requested species.
func Run(req Request) (*Result, error) {
	if req.Scene == nil {
		return nil, fmt.Errorf("sim: request has no scene")
	}
	if req.LampTable == nil {
		return nil, fmt.Errorf("sim: request has no lamp table")
	}

	tracer := raytrace.NewTracer(req.Scene.Triangles, req.GridCellSize)

	points := req.MeasurementPoints
	if points == nil {
		cfg := req.SamplerConfig
		if cfg.NumPoints == 0 {
			cfg = sampler.DefaultConfig(100)
		}
		rng := rand.New(rand.NewSource(1))
		if cfg.NumPoints > 0 {
			sampled, err := sampler.GenerateMeasurementPoints(req.Scene.Triangles, cfg, rng)
			if err != nil {
				return nil, fmt.Errorf("sim: generating measurement points: %w", err)
			}
			points = make([]core.Vec3, len(sampled))
			for i, p := range sampled {
				points[i] = p.Position
			}
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("sim: no measurement points to evaluate")
	}

	calc := intensity.NewCalculator(tracer, req.LampTable)

	var indirectExposure []float64
	if req.PhotonConfig.MaxBounces > 0 && len(req.Scene.Lights) > 0 {
		photonTracer := photon.NewTracer(tracer, req.LampTable, req.PhotonConfig)
		exposure, err := photonTracer.TraceIndirectExposure(points, req.Scene.Lights)
		if err != nil {
			return nil, fmt.Errorf("sim: tracing indirect exposure: %w", err)
		}
		indirectExposure = exposure
	}

	irradiances, err := calc.CalculateBatch(points, req.Scene.Lights, indirectExposure)
	if err != nil {
		return nil, fmt.Errorf("sim: calculating direct irradiance: %w", err)
	}

	result := &Result{Points: make([]PointResult, len(points))}
	for i, p := range points {
		fluence := irradiances[i].Total * req.ExposureSeconds

		scores := make(map[string]pathogen.SurvivalResult, len(req.PathogenSpecies))
		if req.PathogenTable != nil {
			for _, species := range req.PathogenSpecies {
				wavelength := dominantWavelength(req.Scene.Lights, req.LampTable)
				score, err := pathogen.CalculateSurvivalForSpecies(req.PathogenTable, species, wavelength, fluence)
				if err != nil {
					return nil, fmt.Errorf("sim: scoring pathogen %q at point %d: %w", species, i, err)
				}
				scores[species] = score
			}
		}

		result.Points[i] = PointResult{
			Position:      p,
			Irradiance:    irradiances[i],
			FluenceJm2:    fluence,
			PathogenScore: scores,
		}
	}

	return result, nil
}

// dominantWavelength picks a representative wavelength for single-wavelength
// pathogen scoring: the first light's lamp profile wavelength, or 254nm
// (the common low-pressure-mercury line) if the scene has no lights.
func dominantWavelength(lights []scene.Light, lamps *lamp.Table) float64 {
	if len(lights) == 0 {
		return 254.0
	}
	profile, err := lamps.Get(lights[0].LampType)
	if err != nil {
		return 254.0
	}
	return profile.WavelengthNM
}
