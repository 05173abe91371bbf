// Package intensity computes UV irradiance at measurement points: an
// analytic direct component from unobstructed line-of-sight to each lamp,
// optionally combined with an indirect (reflected) component that the caller
// computes with pkg/photon and passes in. Neither package caches results
// between calls.
package intensity

import (
	"log"
	"math"

	"github.com/quanta-uv/uvsim/pkg/core"
	"github.com/quanta-uv/uvsim/pkg/lamp"
	"github.com/quanta-uv/uvsim/pkg/raytrace"
	"github.com/quanta-uv/uvsim/pkg/scene"
)

const occlusionEpsilon = 1e-6

// Result is the decomposed irradiance at one measurement point.
type Result struct {
	Direct   float64
	Indirect float64
	Total    float64
}

// Calculator computes direct irradiance against a ray tracer and lamp
// profile table; indirect irradiance is supplied by the caller (typically
// from a pkg/photon.Tracer run) rather than computed here, so a single
// photon pass can serve many points.
type Calculator struct {
	tracer *raytrace.Tracer
	lamps  *lamp.Table
}

// NewCalculator builds a Calculator over an existing raytrace.Tracer and
// lamp profile table.
func NewCalculator(tracer *raytrace.Tracer, lamps *lamp.Table) *Calculator {
	return &Calculator{tracer: tracer, lamps: lamps}
}

// DirectIrradiance returns the unobstructed irradiance at point from a
// single light, using the inverse-square law weighted by the lamp's angular
// intensity profile:
//
//	E = I(theta) / (4*pi*d^2)
//
// where I(theta) is the light's radiant power scaled by its profile's
// intensity at the angle between the light's aim direction and the
// direction from the light to point, divided by the profile's forward
// intensity (the same ratio pkg/photon applies to emitted photons). Returns 0 if the point coincides with
// the light or the path is occluded. A lamp type unknown to the profile
// table is not fatal: the angular factor falls back to 1 (a unit, isotropic
// factor) and the run continues, logging the fallback at the boundary.
func (c *Calculator) DirectIrradiance(point core.Vec3, light scene.Light) (float64, error) {
	toPoint := point.Subtract(light.Position)
	distance := toPoint.Length()
	if distance < occlusionEpsilon {
		return 0, nil
	}

	if !c.tracer.IsPathClear(light.Position, point) {
		return 0, nil
	}

	angularFactor := 1.0
	profile, err := c.lamps.Get(light.LampType)
	if err != nil {
		log.Printf("intensity: unknown lamp type %q for light %q, falling back to unit angular factor", light.LampType, light.ID)
	} else {
		cosAngle := light.Direction.Dot(toPoint.Normalize())
		cosAngle = math.Max(-1, math.Min(1, cosAngle))
		angleDeg := math.Acos(cosAngle) * 180.0 / math.Pi
		angularFactor = profile.IntensityAt(angleDeg)
		if profile.ForwardIntensity > 0 {
			angularFactor /= profile.ForwardIntensity
		}
	}

	effectiveIntensity := light.PowerW * angularFactor
	return effectiveIntensity / (4 * math.Pi * distance * distance), nil
}

// DirectIrradianceAll sums DirectIrradiance across every light in lights.
func (c *Calculator) DirectIrradianceAll(point core.Vec3, lights []scene.Light) (float64, error) {
	var total float64
	for _, light := range lights {
		e, err := c.DirectIrradiance(point, light)
		if err != nil {
			return 0, err
		}
		total += e
	}
	return total, nil
}

// Combine composes a point's direct and (already-computed) indirect
// irradiance into a single Result.
func Combine(direct, indirect float64) Result {
	return Result{Direct: direct, Indirect: indirect, Total: direct + indirect}
}

// CalculateBatch computes direct irradiance for every point against every
// light, optionally adding a parallel indirect-irradiance slice (e.g. from
// pkg/photon.Tracer.TraceIndirectExposure) of the same length as points. A
// nil indirect slice yields direct-only results.
func (c *Calculator) CalculateBatch(points []core.Vec3, lights []scene.Light, indirect []float64) ([]Result, error) {
	results := make([]Result, len(points))
	for i, p := range points {
		direct, err := c.DirectIrradianceAll(p, lights)
		if err != nil {
			return nil, err
		}
		var ind float64
		if indirect != nil {
			ind = indirect[i]
		}
		results[i] = Combine(direct, ind)
	}
	return results, nil
}
