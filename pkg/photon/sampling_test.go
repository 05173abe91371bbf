package photon

import (
	"math"
	"math/rand"
	"testing"

	"github.com/quanta-uv/uvsim/pkg/core"
)

func TestCosineWeightedHemisphere_StaysInHemisphere(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	normal := core.NewVec3(0, 0, 1)

	for i := 0; i < 500; i++ {
		dir := CosineWeightedHemisphere(normal, rng)
		if dir.Dot(normal) < -1e-9 {
			t.Fatalf("sampled direction %v below hemisphere plane (dot=%f)", dir, dir.Dot(normal))
		}
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("sampled direction %v not unit length", dir)
		}
	}
}

func TestCosineWeightedHemisphere_TiltedNormal(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	normal := core.NewVec3(1, 1, 1).Normalize()

	for i := 0; i < 500; i++ {
		dir := CosineWeightedHemisphere(normal, rng)
		if dir.Dot(normal) < -1e-9 {
			t.Fatalf("sampled direction %v below hemisphere plane for tilted normal", dir)
		}
	}
}

func TestBiasedCone_StaysWithinMaxAngle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	direction := core.NewVec3(0, 0, 1)
	maxAngle := 45.0
	cosMaxAngle := math.Cos(maxAngle * math.Pi / 180.0)

	for i := 0; i < 500; i++ {
		dir := BiasedCone(direction, maxAngle, rng)
		if dir.Dot(direction) < cosMaxAngle-1e-9 {
			t.Fatalf("sampled direction %v outside %f degree cone", dir, maxAngle)
		}
	}
}

func TestOrthonormalBasis_AxisPickStability(t *testing.T) {
	// Exercise both branches of the stable tangent-pick rule.
	nearXAxis := core.NewVec3(0.99, 0.1, 0).Normalize()
	awayFromXAxis := core.NewVec3(0, 1, 0)

	for _, up := range []core.Vec3{nearXAxis, awayFromXAxis} {
		tangent, bitangent := orthonormalBasis(up)
		if math.Abs(tangent.Dot(up)) > 1e-9 {
			t.Errorf("tangent not orthogonal to %v: dot=%f", up, tangent.Dot(up))
		}
		if math.Abs(bitangent.Dot(up)) > 1e-9 {
			t.Errorf("bitangent not orthogonal to %v: dot=%f", up, bitangent.Dot(up))
		}
		if math.Abs(tangent.Dot(bitangent)) > 1e-9 {
			t.Errorf("tangent and bitangent not orthogonal: dot=%f", tangent.Dot(bitangent))
		}
	}
}
