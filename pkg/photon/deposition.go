package photon

import (
	"math"

	"github.com/quanta-uv/uvsim/pkg/core"
)

const minDepositionCellSize = 0.1

// depositionGrid buckets sample points for fast proximity lookup during
// flux deposition: deposition work scales with points near a hit, not the
// total point count.
type depositionGrid struct {
	cellSize float64
	points   []core.Vec3
	cells    map[[3]int][]int
}

// newDepositionGrid builds a grid over points with the cell size heuristic
// cellSize = max(0.1, kernelRadius/2), matching the scale at which photon
// flux is deposited.
func newDepositionGrid(points []core.Vec3, kernelRadius float64) *depositionGrid {
	cellSize := math.Max(minDepositionCellSize, kernelRadius/2.0)

	g := &depositionGrid{cellSize: cellSize, points: points, cells: make(map[[3]int][]int)}
	for i, p := range points {
		cell := g.cellOf(p)
		g.cells[cell] = append(g.cells[cell], i)
	}
	return g
}

func (g *depositionGrid) cellOf(p core.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p.X / g.cellSize)),
		int(math.Floor(p.Y / g.cellSize)),
		int(math.Floor(p.Z / g.cellSize)),
	}
}

// nearbyIndices returns indices of points in the cells around position's
// cell that can hold points within searchRadius of position. The result is
// not filtered by exact distance.
func (g *depositionGrid) nearbyIndices(position core.Vec3, searchRadius float64) []int {
	center := g.cellOf(position)
	searchCells := int(searchRadius/g.cellSize) + 1

	var nearby []int
	for dx := -searchCells; dx <= searchCells; dx++ {
		for dy := -searchCells; dy <= searchCells; dy++ {
			for dz := -searchCells; dz <= searchCells; dz++ {
				cell := [3]int{center[0] + dx, center[1] + dy, center[2] + dz}
				nearby = append(nearby, g.cells[cell]...)
			}
		}
	}
	return nearby
}

// depositFlux adds flux to every point within kernelRadius of hitPoint,
// weighted by a linear (Epanechnikov-like) falloff kernel: points at the hit
// location get full weight, points at the kernel radius get zero.
func (g *depositionGrid) depositFlux(hitPoint core.Vec3, flux, kernelRadius float64, exposure []float64) {
	for _, i := range g.nearbyIndices(hitPoint, kernelRadius) {
		distance := hitPoint.Subtract(g.points[i]).Length()
		if distance < kernelRadius {
			weight := math.Max(0, 1-distance/kernelRadius)
			exposure[i] += flux * weight
		}
	}
}
