package sampler

import (
	"fmt"
	"math"

	"github.com/quanta-uv/uvsim/pkg/core"
)

// CrossSectionGrid lays out a regular gridSize x gridSize grid of points on
// the vertical plane X = x, spanning the Y-Z bounding box of triangles. It
// supplements the randomized surface sampler with a deterministic slice
// through a room, useful for plotting a fluence cross-section.
func CrossSectionGrid(triangles []*core.Triangle, x float64, gridSize int) ([]core.Vec3, error) {
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sampler: cannot build a cross-section over an empty triangle list")
	}
	if gridSize <= 0 {
		return nil, fmt.Errorf("sampler: gridSize must be positive, got %d", gridSize)
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)

	for _, tri := range triangles {
		for _, v := range [3]core.Vec3{tri.V0, tri.V1, tri.V2} {
			minY = math.Min(minY, v.Y)
			maxY = math.Max(maxY, v.Y)
			minZ = math.Min(minZ, v.Z)
			maxZ = math.Max(maxZ, v.Z)
		}
	}

	if minY == maxY || minZ == maxZ {
		return nil, fmt.Errorf("sampler: triangles have no extent in Y or Z")
	}

	points := make([]core.Vec3, 0, gridSize*gridSize)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			y := minY + (float64(i)+0.5)*(maxY-minY)/float64(gridSize)
			z := minZ + (float64(j)+0.5)*(maxZ-minZ)/float64(gridSize)
			points = append(points, core.NewVec3(x, y, z))
		}
	}
	return points, nil
}
