package photon

import (
	"testing"

	"github.com/quanta-uv/uvsim/pkg/core"
)

func TestDepositFlux_WithinRadiusGetsPositiveWeight(t *testing.T) {
	points := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(0.5, 0, 0), core.NewVec3(5, 0, 0)}
	grid := newDepositionGrid(points, 1.0)

	exposure := make([]float64, len(points))
	grid.depositFlux(core.NewVec3(0, 0, 0), 10.0, 1.0, exposure)

	if exposure[0] <= 0 {
		t.Errorf("exposure at hit point = %f, want positive", exposure[0])
	}
	if exposure[1] <= 0 || exposure[1] >= exposure[0] {
		t.Errorf("exposure at 0.5 away = %f, want positive and less than at the hit point (%f)", exposure[1], exposure[0])
	}
	if exposure[2] != 0 {
		t.Errorf("exposure beyond kernel radius = %f, want 0", exposure[2])
	}
}

func TestDepositFlux_LinearFalloff(t *testing.T) {
	points := []core.Vec3{core.NewVec3(0.5, 0, 0)}
	grid := newDepositionGrid(points, 1.0)

	exposure := make([]float64, 1)
	grid.depositFlux(core.NewVec3(0, 0, 0), 10.0, 1.0, exposure)

	want := 10.0 * (1 - 0.5/1.0)
	if exposure[0] != want {
		t.Errorf("exposure = %f, want %f (linear falloff)", exposure[0], want)
	}
}
