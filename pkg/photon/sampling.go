// Package photon implements forward photon tracing: Monte Carlo light
// transport used to estimate indirect (reflected) UV exposure at a set of
// measurement points, complementing the analytic direct-irradiance
// calculation in pkg/intensity.
package photon

import (
	"math"
	"math/rand"

	"github.com/quanta-uv/uvsim/pkg/core"
)

// orthonormalBasis builds a stable tangent/bitangent pair for up, picking
// the axis least aligned with up to avoid a degenerate cross product. Both
// cosine-weighted hemisphere sampling and biased-cone sampling use this same
// rule to build their local frame.
func orthonormalBasis(up core.Vec3) (tangent, bitangent core.Vec3) {
	if math.Abs(up.X) < 0.9 {
		tangent = core.NewVec3(0, up.Z, -up.Y).Normalize()
	} else {
		tangent = core.NewVec3(-up.Z, 0, up.X).Normalize()
	}
	bitangent = up.Cross(tangent).Normalize()
	return tangent, bitangent
}

func toWorld(localDir, tangent, bitangent, up core.Vec3) core.Vec3 {
	return core.NewVec3(
		localDir.X*tangent.X+localDir.Y*bitangent.X+localDir.Z*up.X,
		localDir.X*tangent.Y+localDir.Y*bitangent.Y+localDir.Z*up.Y,
		localDir.X*tangent.Z+localDir.Y*bitangent.Z+localDir.Z*up.Z,
	).Normalize()
}

// CosineWeightedHemisphere samples a direction from the hemisphere above
// normal, weighted by cos(theta) to match Lambertian diffuse reflection.
func CosineWeightedHemisphere(normal core.Vec3, rng *rand.Rand) core.Vec3 {
	phi := rng.Float64() * 2 * math.Pi
	cosTheta := math.Sqrt(rng.Float64())
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	localDir := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	tangent, bitangent := orthonormalBasis(normal)
	return toWorld(localDir, tangent, bitangent, normal)
}

// BiasedCone samples a direction within maxAngleDegrees of direction,
// weighted toward the cone's center axis. Used for emitting photons from a
// lamp within its forward hemisphere.
func BiasedCone(direction core.Vec3, maxAngleDegrees float64, rng *rand.Rand) core.Vec3 {
	maxAngleRad := maxAngleDegrees * math.Pi / 180.0

	phi := rng.Float64() * 2 * math.Pi
	cosMaxAngle := math.Cos(maxAngleRad)
	cosTheta := cosMaxAngle + rng.Float64()*(1.0-cosMaxAngle)
	cosTheta = math.Sqrt(math.Max(0, cosTheta))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	localDir := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	tangent, bitangent := orthonormalBasis(direction)
	return toWorld(localDir, tangent, bitangent, direction)
}
